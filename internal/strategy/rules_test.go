package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signals/internal/model"
)

// waypoint is a bar position and the close at that position. Closes between
// waypoints are interpolated linearly; two adjacent equal waypoints form a
// flat top or bottom that is never a strict swing point.
type waypoint struct {
	index int
	price float64
}

func interpolate(points []waypoint) []float64 {
	var closes []float64
	for k := 1; k < len(points); k++ {
		a, b := points[k-1], points[k]
		for i := a.index; i < b.index; i++ {
			closes = append(closes, a.price+(b.price-a.price)*float64(i-a.index)/float64(b.index-a.index))
		}
	}
	return append(closes, points[len(points)-1].price)
}

func mirror(closes []float64, around float64) []float64 {
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = around - c
	}
	return out
}

// dailyCandles is dailyCloses with explicit opens.
func dailyCandles(t *testing.T, opens, closes []float64) model.Series {
	t.Helper()
	bars := dailyCloses(t, closes).Bars()
	for i := range bars {
		bars[i].Open = opens[i]
	}
	s, err := model.NewSeries("TEST", "D1", bars, model.AllFields)
	require.NoError(t, err)
	return s
}

type wantSignal struct {
	index int
	dir   model.Direction
}

func assertSignals(t *testing.T, want []wantSignal, got []model.Signal) {
	t.Helper()
	require.Len(t, got, len(want))
	for k, w := range want {
		assert.Equal(t, w.index, got[k].Index, "signal %d index", k)
		assert.Equal(t, w.dir, got[k].Direction, "signal %d direction", k)
	}
}

func TestRSIEMA_WarmupEdge(t *testing.T) {
	rising := make([]float64, 60)
	falling := make([]float64, 60)
	for i := range rising {
		rising[i] = 100 + 60*float64(i)/59
		falling[i] = 160 - 60*float64(i)/59
	}
	s, err := NewRSIEMA(DefaultParams().RSIEMA)
	require.NoError(t, err)

	// RSI(14) is first defined at bar 13. Turning defined beyond a level is
	// an edge, and a level that then keeps holding never fires again.
	sigs, err := s.Signals(dailyCloses(t, rising))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{13, model.Buy}}, sigs)
	assert.Equal(t, 100.0, sigs[0].Values["rsi"])

	sigs, err = s.Signals(dailyCloses(t, falling))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{13, model.Sell}}, sigs)
	assert.Equal(t, 0.0, sigs[0].Values["rsi"])
}

func TestRSIEMA_CrossUpAfterDip(t *testing.T) {
	var closes []float64
	for i := 0; i < 40; i++ {
		closes = append(closes, 100+float64(i))
	}
	p := closes[len(closes)-1]
	for i := 0; i < 6; i++ {
		p -= 3
		closes = append(closes, p)
	}
	for i := 0; i < 15; i++ {
		p += 2
		closes = append(closes, p)
	}
	s, err := NewRSIEMA(DefaultParams().RSIEMA)
	require.NoError(t, err)

	sigs, err := s.Signals(dailyCloses(t, closes))
	require.NoError(t, err)

	// RSI drops to ~37 at bar 45 and recovers through 40 at bar 46. The
	// drop through 70 at bar 41 is not a sell: close is still above the EMA.
	assertSignals(t, []wantSignal{{13, model.Buy}, {46, model.Buy}}, sigs)
	assert.Greater(t, sigs[1].Values["rsi"], 40.0)
	assert.Less(t, sigs[1].Values["rsi"], 45.0)
}

func TestBollingerRSI_ReversalCandles(t *testing.T) {
	// Flat, then an accelerating move that pins RSI at an extreme and
	// pushes close through the band, then one counter-trend candle at 42.
	build := func(sign float64) (opens, closes []float64) {
		p := 100.0
		for i := 0; i < 30; i++ {
			opens, closes = append(opens, p), append(closes, p)
		}
		for i := 0; i < 12; i++ {
			opens = append(opens, p)
			p -= sign * (1.0 + 0.15*float64(i))
			closes = append(closes, p)
		}
		opens = append(opens, p-sign*1.6)
		p -= sign * 1.0
		closes = append(closes, p)
		for i := 0; i < 5; i++ {
			opens = append(opens, p)
			p += sign * 0.5
			closes = append(closes, p)
		}
		return opens, closes
	}

	s, err := NewBollingerRSI(DefaultParams().BollingerRSI)
	require.NoError(t, err)

	tests := []struct {
		name string
		sign float64
		want model.Direction
	}{
		{"bullish candle at lower band", 1, model.Buy},
		{"bearish candle at upper band", -1, model.Sell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opens, closes := build(tt.sign)
			sigs, err := s.Signals(dailyCandles(t, opens, closes))
			require.NoError(t, err)
			assertSignals(t, []wantSignal{{42, tt.want}}, sigs)
		})
	}
}

func TestBollingerRSI_NeedsCounterCandle(t *testing.T) {
	var opens, closes []float64
	p := 100.0
	for i := 0; i < 30; i++ {
		opens, closes = append(opens, p), append(closes, p)
	}
	for i := 0; i < 15; i++ {
		opens = append(opens, p)
		p -= 1.0 + 0.15*float64(i)
		closes = append(closes, p)
	}
	s, err := NewBollingerRSI(DefaultParams().BollingerRSI)
	require.NoError(t, err)

	sigs, err := s.Signals(dailyCandles(t, opens, closes))
	require.NoError(t, err)
	assert.Empty(t, sigs, "every candle is bearish, so no buy")
}

func TestTrendPullback_BuyAndSell(t *testing.T) {
	// A choppy trend (+2/-1), a four-bar pullback toward the short EMA and
	// the first bar resuming the trend at 64.
	build := func(sign float64) []float64 {
		var closes []float64
		p := 100.0
		step := func(i int) float64 {
			if i%2 == 0 {
				return 2.0
			}
			return -1.0
		}
		for i := 0; i < 60; i++ {
			p += sign * step(i)
			closes = append(closes, p)
		}
		for i := 0; i < 4; i++ {
			p -= sign * 1.5
			closes = append(closes, p)
		}
		for i := 0; i < 6; i++ {
			p += sign * step(i)
			closes = append(closes, p)
		}
		return closes
	}
	cfg := TrendPullbackConfig{EMAShort: 10, EMALong: 30, RSIPeriod: 14, RSIThreshold: 40}
	s, err := NewTrendPullback(cfg)
	require.NoError(t, err)

	sigs, err := s.Signals(dailyCloses(t, build(1)))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{64, model.Buy}}, sigs)
	assert.Less(t, sigs[0].Price, sigs[0].Values["ema_short"])
	assert.Greater(t, sigs[0].Values["ema_short"], sigs[0].Values["ema_long"])

	sigs, err = s.Signals(dailyCloses(t, build(-1)))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{64, model.Sell}}, sigs)
	assert.Greater(t, sigs[0].Price, sigs[0].Values["ema_short"])
}

func ichimokuTrend(base, sign float64) []float64 {
	var closes []float64
	p := base
	for i := 0; i < 90; i++ {
		p += sign
		closes = append(closes, p)
	}
	for i := 0; i < 8; i++ {
		p -= sign * 1.5
		closes = append(closes, p)
	}
	for i := 0; i < 40; i++ {
		p += sign
		closes = append(closes, p)
	}
	return closes
}

func TestIchimoku_CrossOutsideCloud(t *testing.T) {
	s, err := NewIchimoku(DefaultParams().Ichimoku)
	require.NoError(t, err)

	// The dip drags Tenkan under Kijun at ~100 while price is still above
	// the cloud; that bearish cross is ignored. Tenkan recrosses at 107.
	sigs, err := s.Signals(dailyCloses(t, ichimokuTrend(100, 1)))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{107, model.Buy}}, sigs)
	v := sigs[0].Values
	assert.Greater(t, sigs[0].Price, v["senkou_a"])
	assert.Greater(t, sigs[0].Price, v["senkou_b"])

	sigs, err = s.Signals(dailyCloses(t, ichimokuTrend(300, -1)))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{107, model.Sell}}, sigs)
	assert.Less(t, sigs[0].Price, sigs[0].Values["senkou_b"])
}

func TestIchimoku_RequiresChikou(t *testing.T) {
	s, err := NewIchimoku(DefaultParams().Ichimoku)
	require.NoError(t, err)
	closes := ichimokuTrend(100, 1)

	// Chikou at 107 is the close at 133; without that bar there is no
	// confirmation.
	sigs, err := s.Signals(dailyCloses(t, closes[:133]))
	require.NoError(t, err)
	assert.Empty(t, sigs)

	sigs, err = s.Signals(dailyCloses(t, closes[:134]))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{107, model.Buy}}, sigs)
}

// gartleyCloses traces X=200 (low), A=300, B=238.2, C=186.8, D=121.4 on the
// bar extremes (close ∓ 0.5). The flat turns at 41-42 and 52-53 keep the
// detours between B and C from registering as swings.
func gartleyCloses() []float64 {
	return interpolate([]waypoint{
		{0, 230}, {10, 200.5}, {25, 299.5}, {35, 238.7},
		{41, 250}, {42, 250}, {52, 180}, {53, 180},
		{57, 186.3}, {72, 121.9}, {85, 140},
	})
}

func TestHarmonic_Gartley(t *testing.T) {
	s, err := NewHarmonic(DefaultParams().Harmonic)
	require.NoError(t, err)

	// Bullish: D is a swing low below X, RSI ~8 at D.
	sigs, err := s.Signals(dailyCloses(t, gartleyCloses()))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{72, model.Buy}}, sigs)
	sig := sigs[0]
	assert.Equal(t, "Gartley", sig.Pattern)
	assert.Less(t, sig.Values["rsi"], 30.0)
	assert.Equal(t, 200.0, sig.Values["x_price"])
	assert.Equal(t, 300.0, sig.Values["a_price"])
	assert.InDelta(t, 121.4, sig.Values["d_price"], 1e-9)

	// Bearish mirror: D above X, RSI ~92 at D.
	sigs, err = s.Signals(dailyCloses(t, mirror(gartleyCloses(), 400)))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{72, model.Sell}}, sigs)
	assert.Equal(t, "Gartley", sigs[0].Pattern)
	assert.Greater(t, sigs[0].Values["rsi"], 70.0)
}

func TestHarmonic_OneSignalPerD(t *testing.T) {
	// A wide tolerance lets Butterfly match the same window too.
	cfg := DefaultParams().Harmonic
	cfg.Tolerance = 1.0
	s, err := NewHarmonic(cfg)
	require.NoError(t, err)

	sigs, err := s.Signals(dailyCloses(t, gartleyCloses()))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{72, model.Buy}}, sigs)
	assert.Equal(t, "Gartley", sigs[0].Pattern)
}

func TestHarmonic_Unconfirmed(t *testing.T) {
	tests := []struct {
		name string
		edit func(*HarmonicConfig)
	}{
		{"rsi not oversold enough", func(c *HarmonicConfig) { c.Oversold = 5 }},
		{"span shorter than minimum", func(c *HarmonicConfig) { c.MinSwing = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultParams().Harmonic
			tt.edit(&cfg)
			s, err := NewHarmonic(cfg)
			require.NoError(t, err)
			sigs, err := s.Signals(dailyCloses(t, gartleyCloses()))
			require.NoError(t, err)
			assert.Empty(t, sigs)
		})
	}
}

func TestDivergence_BuyAndSell(t *testing.T) {
	// Price lows at 30 (80) and 52 (78); RSI lows 17.9 and 23.4. The second
	// low closes inside 1% of the lower band.
	closes := interpolate([]waypoint{{0, 90}, {20, 100}, {30, 80}, {38, 88}, {52, 78}, {62, 86}})
	s, err := NewDivergence(DefaultParams().Divergence)
	require.NoError(t, err)

	sigs, err := s.Signals(dailyCloses(t, closes))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{52, model.Buy}}, sigs)
	assert.Less(t, sigs[0].Price, sigs[0].Values["bb_lower"]*1.01)

	sigs, err = s.Signals(dailyCloses(t, mirror(closes, 200)))
	require.NoError(t, err)
	assertSignals(t, []wantSignal{{52, model.Sell}}, sigs)
	assert.Greater(t, sigs[0].Price, sigs[0].Values["bb_upper"]*0.99)
}

func TestDivergence_NoLowerLow(t *testing.T) {
	// Second low at 82 is higher than the first: no bullish divergence.
	closes := interpolate([]waypoint{{0, 90}, {20, 100}, {30, 80}, {38, 88}, {52, 82}, {62, 86}})
	s, err := NewDivergence(DefaultParams().Divergence)
	require.NoError(t, err)

	sigs, err := s.Signals(dailyCloses(t, closes))
	require.NoError(t, err)
	for _, sig := range sigs {
		assert.NotEqual(t, model.Buy, sig.Direction)
	}
}
