package strategy

import (
	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// RSIEMAStrategy buys when RSI crosses up through BuyLevel with close above
// the EMA, and sells when RSI crosses down through SellLevel with close
// below the EMA. RSI is undefined during warm-up, so a series that is
// already past a level fires on the first bar with a defined RSI.
type RSIEMAStrategy struct {
	cfg RSIEMAConfig
}

func NewRSIEMA(cfg RSIEMAConfig) (*RSIEMAStrategy, error) {
	if err := positive(map[string]int{"rsi_period": cfg.RSIPeriod, "ema_period": cfg.EMAPeriod}); err != nil {
		return nil, err
	}
	return &RSIEMAStrategy{cfg: cfg}, nil
}

func (s *RSIEMAStrategy) ID() ID       { return RSIEMA }
func (s *RSIEMAStrategy) Name() string { return "RSI + EMA" }

func (s *RSIEMAStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldClose); err != nil {
		return nil, err
	}
	closes := series.Closes()
	rsi := indicator.RSI(closes, s.cfg.RSIPeriod)
	ema := indicator.EMA(closes, s.cfg.EMAPeriod)

	var out []model.Signal
	for i := 1; i < len(closes); i++ {
		var dir model.Direction
		switch {
		case crossed(rsi[i-1] >= s.cfg.BuyLevel, rsi[i] >= s.cfg.BuyLevel) && closes[i] > ema[i]:
			dir = model.Buy
		case crossed(rsi[i-1] <= s.cfg.SellLevel, rsi[i] <= s.cfg.SellLevel) && closes[i] < ema[i]:
			dir = model.Sell
		default:
			continue
		}
		out = append(out, newSignal(RSIEMA, series, i, dir, map[string]float64{"rsi": rsi[i], "ema": ema[i]}))
	}
	return out, nil
}
