package strategy

import (
	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// BollingerRSIStrategy trades reversals at the bands: close within 1% of
// the lower band with oversold RSI and a bullish candle buys, the mirror at
// the upper band sells. Fires when the combined condition turns true.
type BollingerRSIStrategy struct {
	cfg BollingerRSIConfig
}

func NewBollingerRSI(cfg BollingerRSIConfig) (*BollingerRSIStrategy, error) {
	if err := positive(map[string]int{"bb_period": cfg.BBPeriod, "rsi_period": cfg.RSIPeriod}); err != nil {
		return nil, err
	}
	return &BollingerRSIStrategy{cfg: cfg}, nil
}

func (s *BollingerRSIStrategy) ID() ID       { return BollingerRSI }
func (s *BollingerRSIStrategy) Name() string { return "Bollinger + RSI" }

func (s *BollingerRSIStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldOpen | model.FieldClose); err != nil {
		return nil, err
	}
	opens, closes := series.Opens(), series.Closes()
	rsi := indicator.RSI(closes, s.cfg.RSIPeriod)
	bb := indicator.Bollinger(closes, s.cfg.BBPeriod, s.cfg.BBStd)

	buy := func(i int) bool {
		toLower := (closes[i] - bb.Lower[i]) / bb.Lower[i] * 100
		return toLower < 1 && rsi[i] < s.cfg.BuyLevel && closes[i] > opens[i]
	}
	sell := func(i int) bool {
		toUpper := (bb.Upper[i] - closes[i]) / closes[i] * 100
		return toUpper < 1 && rsi[i] > s.cfg.SellLevel && closes[i] < opens[i]
	}

	var out []model.Signal
	for i := 1; i < len(closes); i++ {
		var dir model.Direction
		switch {
		case crossed(buy(i-1), buy(i)):
			dir = model.Buy
		case crossed(sell(i-1), sell(i)):
			dir = model.Sell
		default:
			continue
		}
		out = append(out, newSignal(BollingerRSI, series, i, dir, map[string]float64{
			"rsi": rsi[i], "bb_upper": bb.Upper[i], "bb_lower": bb.Lower[i],
		}))
	}
	return out, nil
}
