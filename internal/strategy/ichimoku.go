package strategy

import (
	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// IchimokuStrategy trades Tenkan/Kijun crosses that occur with price outside
// the cloud and a confirming Chikou: buy on a bullish cross above the cloud
// with Chikou above the close displacement bars back, sell on the mirror.
type IchimokuStrategy struct {
	cfg IchimokuConfig
}

func NewIchimoku(cfg IchimokuConfig) (*IchimokuStrategy, error) {
	err := positive(map[string]int{
		"tenkan_period":   cfg.TenkanPeriod,
		"kijun_period":    cfg.KijunPeriod,
		"senkou_b_period": cfg.SenkouBPeriod,
		"displacement":    cfg.Displacement,
	})
	if err != nil {
		return nil, err
	}
	return &IchimokuStrategy{cfg: cfg}, nil
}

func (s *IchimokuStrategy) ID() ID       { return Ichimoku }
func (s *IchimokuStrategy) Name() string { return "Ichimoku Cloud" }

func (s *IchimokuStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldHigh | model.FieldLow | model.FieldClose); err != nil {
		return nil, err
	}
	closes := series.Closes()
	ich := indicator.Ichimoku(series.Highs(), series.Lows(), closes,
		s.cfg.TenkanPeriod, s.cfg.KijunPeriod, s.cfg.SenkouBPeriod, s.cfg.Displacement)
	tk, kj := ich.Tenkan, ich.Kijun
	disp := s.cfg.Displacement

	var out []model.Signal
	for i := max(disp, 1); i < len(closes); i++ {
		c := closes[i]
		above := c > ich.SenkouA[i] && c > ich.SenkouB[i]
		below := c < ich.SenkouA[i] && c < ich.SenkouB[i]

		var dir model.Direction
		switch {
		case crossed(tk[i-1] >= kj[i-1], tk[i] >= kj[i]) && above && ich.Chikou[i] > closes[i-disp]:
			dir = model.Buy
		case crossed(tk[i-1] <= kj[i-1], tk[i] <= kj[i]) && below && ich.Chikou[i] < closes[i-disp]:
			dir = model.Sell
		default:
			continue
		}
		out = append(out, newSignal(Ichimoku, series, i, dir, map[string]float64{
			"tenkan":   tk[i],
			"kijun":    kj[i],
			"senkou_a": ich.SenkouA[i],
			"senkou_b": ich.SenkouB[i],
			"chikou":   ich.Chikou[i],
		}))
	}
	return out, nil
}
