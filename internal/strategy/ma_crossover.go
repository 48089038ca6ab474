package strategy

import (
	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// MACrossoverStrategy implements an EMA crossover with an RSI filter.
//
// Buy signal: short EMA crosses above long EMA (golden cross) with RSI > 50
// Sell signal: short EMA crosses below long EMA (death cross) with RSI < 50
type MACrossoverStrategy struct {
	cfg MACrossoverConfig
}

// NewMACrossover creates a new crossover strategy.
// ShortPeriod < LongPeriod (e.g., 9 and 21).
func NewMACrossover(cfg MACrossoverConfig) (*MACrossoverStrategy, error) {
	err := positive(map[string]int{
		"short_period": cfg.ShortPeriod,
		"long_period":  cfg.LongPeriod,
		"rsi_period":   cfg.RSIPeriod,
	})
	if err != nil {
		return nil, err
	}
	return &MACrossoverStrategy{cfg: cfg}, nil
}

func (s *MACrossoverStrategy) ID() ID       { return MACrossover }
func (s *MACrossoverStrategy) Name() string { return "MA Crossover" }

func (s *MACrossoverStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldClose); err != nil {
		return nil, err
	}
	closes := series.Closes()
	fast := indicator.EMA(closes, s.cfg.ShortPeriod)
	slow := indicator.EMA(closes, s.cfg.LongPeriod)
	rsi := indicator.RSI(closes, s.cfg.RSIPeriod)

	var out []model.Signal
	for i := 1; i < len(closes); i++ {
		var dir model.Direction
		switch {
		// Golden cross: fast crosses above slow
		case crossed(fast[i-1] > slow[i-1], fast[i] > slow[i]) && rsi[i] > 50:
			dir = model.Buy
		// Death cross: fast crosses below slow
		case crossed(fast[i-1] < slow[i-1], fast[i] < slow[i]) && rsi[i] < 50:
			dir = model.Sell
		default:
			continue
		}
		out = append(out, newSignal(MACrossover, series, i, dir, map[string]float64{
			"ema_short": fast[i], "ema_long": slow[i], "rsi": rsi[i],
		}))
	}
	return out, nil
}
