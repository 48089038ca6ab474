package strategy

import (
	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// trendLookback is the number of prior bars that must agree on the trend.
const trendLookback = 5

// TrendPullbackStrategy enters in the direction of an established trend
// after price pulls back toward the short EMA.
//
// Buy: the previous 5 bars all had EMA-short > EMA-long, close is 0–5%
// below EMA-short, RSI in (threshold, 60), close rising. Sell mirrors it
// for a downtrend with RSI in (40, 100-threshold).
type TrendPullbackStrategy struct {
	cfg TrendPullbackConfig
}

func NewTrendPullback(cfg TrendPullbackConfig) (*TrendPullbackStrategy, error) {
	err := positive(map[string]int{
		"ema_short":  cfg.EMAShort,
		"ema_long":   cfg.EMALong,
		"rsi_period": cfg.RSIPeriod,
	})
	if err != nil {
		return nil, err
	}
	return &TrendPullbackStrategy{cfg: cfg}, nil
}

func (s *TrendPullbackStrategy) ID() ID       { return TrendPullback }
func (s *TrendPullbackStrategy) Name() string { return "Trend Pullback" }

func (s *TrendPullbackStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldClose); err != nil {
		return nil, err
	}
	closes := series.Closes()
	short := indicator.EMA(closes, s.cfg.EMAShort)
	long := indicator.EMA(closes, s.cfg.EMALong)
	rsi := indicator.RSI(closes, s.cfg.RSIPeriod)

	n := len(closes)
	up := make([]bool, n)
	pullback := make([]float64, n)
	for i := range closes {
		up[i] = short[i] > long[i]
		pullback[i] = (closes[i] - short[i]) / short[i] * 100
	}

	trend := func(i int, want bool) bool {
		for j := i - trendLookback; j < i; j++ {
			if up[j] != want {
				return false
			}
		}
		return true
	}
	buy := func(i int) bool {
		if i < trendLookback {
			return false
		}
		return trend(i, true) &&
			pullback[i] > -5 && pullback[i] < 0 &&
			rsi[i] > s.cfg.RSIThreshold && rsi[i] < 60 &&
			closes[i] > closes[i-1]
	}
	sell := func(i int) bool {
		if i < trendLookback {
			return false
		}
		return trend(i, false) &&
			pullback[i] > 0 && pullback[i] < 5 &&
			rsi[i] > 40 && rsi[i] < 100-s.cfg.RSIThreshold &&
			closes[i] < closes[i-1]
	}

	var out []model.Signal
	for i := trendLookback; i < n; i++ {
		var dir model.Direction
		switch {
		case crossed(buy(i-1), buy(i)):
			dir = model.Buy
		case crossed(sell(i-1), sell(i)):
			dir = model.Sell
		default:
			continue
		}
		out = append(out, newSignal(TrendPullback, series, i, dir, map[string]float64{
			"ema_short": short[i], "ema_long": long[i], "rsi": rsi[i],
		}))
	}
	return out, nil
}
