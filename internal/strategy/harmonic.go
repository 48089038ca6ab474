package strategy

import (
	"trading-signals/internal/extrema"
	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// HarmonicStrategy detects Gartley and Butterfly patterns on the swing
// highs of High and swing lows of Low, and signals at point D when RSI
// confirms: oversold for a bullish pattern, overbought for a bearish one.
type HarmonicStrategy struct {
	cfg HarmonicConfig
}

func NewHarmonic(cfg HarmonicConfig) (*HarmonicStrategy, error) {
	if err := positive(map[string]int{"rsi_period": cfg.RSIPeriod, "swing_window": cfg.SwingWindow}); err != nil {
		return nil, err
	}
	return &HarmonicStrategy{cfg: cfg}, nil
}

func (s *HarmonicStrategy) ID() ID       { return Harmonic }
func (s *HarmonicStrategy) Name() string { return "Harmonic Patterns" }

func (s *HarmonicStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldHigh | model.FieldLow | model.FieldClose); err != nil {
		return nil, err
	}
	rsi := indicator.RSI(series.Closes(), s.cfg.RSIPeriod)
	highs, _ := extrema.FindExtrema(series.Highs(), s.cfg.SwingWindow)
	_, lows := extrema.FindExtrema(series.Lows(), s.cfg.SwingWindow)
	swings := extrema.Merge(highs, lows)

	var out []model.Signal
	emitted := make(map[int]bool)
	for _, p := range extrema.Scan(swings, extrema.DefaultTemplates, s.cfg.Tolerance, s.cfg.MinSwing) {
		d := p.D().Index
		if emitted[d] {
			continue
		}
		dir := model.Sell
		confirmed := rsi[d] > s.cfg.Overbought
		if p.Bullish {
			dir = model.Buy
			confirmed = rsi[d] < s.cfg.Oversold
		}
		if !confirmed {
			continue
		}
		emitted[d] = true

		sig := newSignal(Harmonic, series, d, dir, map[string]float64{
			"rsi":     rsi[d],
			"x_price": p.Points[0].Price,
			"a_price": p.Points[1].Price,
			"b_price": p.Points[2].Price,
			"c_price": p.Points[3].Price,
			"d_price": p.Points[4].Price,
		})
		sig.Pattern = p.Name
		out = append(out, sig)
	}
	return out, nil
}
