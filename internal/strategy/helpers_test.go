package strategy

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trading-signals/internal/model"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// dailyCloses builds a daily series where open/high/low hug the close.
func dailyCloses(t *testing.T, closes []float64) model.Series {
	t.Helper()
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			TS:     epoch.AddDate(0, 0, i),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1000,
		}
	}
	s, err := model.NewSeries("TEST", "D1", bars, model.AllFields)
	require.NoError(t, err)
	return s
}

// intradayWalk builds days of 5-minute bars from 09:00 to 16:00 following a
// seeded random walk.
func intradayWalk(t *testing.T, days int, seed int64) model.Series {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	var bars []model.Bar
	price := 100.0
	for d := 0; d < days; d++ {
		day := epoch.AddDate(0, 0, d).Add(9 * time.Hour)
		for m := 0; m <= 7*60; m += 5 {
			open := price
			price += r.NormFloat64() * 0.4
			hi := max(open, price) + r.Float64()*0.3
			lo := min(open, price) - r.Float64()*0.3
			bars = append(bars, model.Bar{
				TS:     day.Add(time.Duration(m) * time.Minute),
				Open:   open,
				High:   hi,
				Low:    lo,
				Close:  price,
				Volume: 50 + r.Float64()*200,
			})
		}
	}
	s, err := model.NewSeries("WALK", "M5", bars, model.AllFields)
	require.NoError(t, err)
	return s
}

func countDirections(sigs []model.Signal) (buys, sells int) {
	for _, s := range sigs {
		switch s.Direction {
		case model.Buy:
			buys++
		case model.Sell:
			sells++
		}
	}
	return buys, sells
}
