package strategy

import (
	"sort"

	"trading-signals/internal/extrema"
	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// DivergenceStrategy compares consecutive price swing points with the
// nearest RSI swing points. A lower price low with a higher RSI low near
// the lower Bollinger band buys; a higher price high with a lower RSI high
// near the upper band sells. The signal is placed at the second price swing.
type DivergenceStrategy struct {
	cfg DivergenceConfig
}

func NewDivergence(cfg DivergenceConfig) (*DivergenceStrategy, error) {
	err := positive(map[string]int{
		"rsi_period":     cfg.RSIPeriod,
		"window":         cfg.Window,
		"bb_period":      cfg.BBPeriod,
		"extrema_window": cfg.ExtremaWindow,
	})
	if err != nil {
		return nil, err
	}
	return &DivergenceStrategy{cfg: cfg}, nil
}

func (s *DivergenceStrategy) ID() ID       { return Divergence }
func (s *DivergenceStrategy) Name() string { return "RSI Divergence" }

func (s *DivergenceStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldClose); err != nil {
		return nil, err
	}
	closes := series.Closes()
	rsi := indicator.RSI(closes, s.cfg.RSIPeriod)
	bb := indicator.Bollinger(closes, s.cfg.BBPeriod, s.cfg.BBStd)

	priceHighs, priceLows := extrema.FindExtrema(closes, s.cfg.ExtremaWindow)
	rsiHighs, rsiLows := extrema.FindExtrema(rsi, s.cfg.ExtremaWindow)

	var out []model.Signal
	emit := func(i int, dir model.Direction) {
		out = append(out, newSignal(Divergence, series, i, dir, map[string]float64{
			"rsi":      rsi[i],
			"bb_upper": bb.Upper[i],
			"bb_lower": bb.Lower[i],
		}))
	}

	for k := 1; k < len(priceLows); k++ {
		p1, p2 := priceLows[k-1], priceLows[k]
		if !(p2.Price < p1.Price) {
			continue
		}
		r1, ok1 := nearest(rsiLows, p1.Index, s.cfg.Window)
		r2, ok2 := nearest(rsiLows, p2.Index, s.cfg.Window)
		if ok1 && ok2 && r2.Price > r1.Price && closes[p2.Index] < bb.Lower[p2.Index]*1.01 {
			emit(p2.Index, model.Buy)
		}
	}
	for k := 1; k < len(priceHighs); k++ {
		p1, p2 := priceHighs[k-1], priceHighs[k]
		if !(p2.Price > p1.Price) {
			continue
		}
		r1, ok1 := nearest(rsiHighs, p1.Index, s.cfg.Window)
		r2, ok2 := nearest(rsiHighs, p2.Index, s.cfg.Window)
		if ok1 && ok2 && r2.Price < r1.Price && closes[p2.Index] > bb.Upper[p2.Index]*0.99 {
			emit(p2.Index, model.Sell)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	var deduped []model.Signal
	for _, sig := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Index == sig.Index {
			continue
		}
		deduped = append(deduped, sig)
	}
	return deduped, nil
}

// nearest returns the point within ±window positions of idx closest to it;
// the earlier point wins a tie.
func nearest(points []extrema.Point, idx, window int) (extrema.Point, bool) {
	best, found := extrema.Point{}, false
	bestDist := window + 1
	for _, p := range points {
		dist := p.Index - idx
		if dist < 0 {
			dist = -dist
		}
		if dist <= window && dist < bestDist {
			best, bestDist, found = p, dist, true
		}
	}
	return best, found
}
