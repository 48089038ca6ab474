package strategy

import (
	"fmt"
	"time"

	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

// TimeBreakoutStrategy builds an opening range per calendar day from the
// bars whose clock time falls in [RangeStart, RangeEnd], then trades the
// first later bar that breaks the range by more than ATR·threshold on
// volume above the rolling average times VolumeFactor. At most one signal
// per day.
type TimeBreakoutStrategy struct {
	cfg        TimeBreakoutConfig
	start, end int // minutes since midnight
}

func NewTimeBreakout(cfg TimeBreakoutConfig) (*TimeBreakoutStrategy, error) {
	if err := positive(map[string]int{"atr_period": cfg.ATRPeriod, "volume_period": cfg.VolumePeriod}); err != nil {
		return nil, err
	}
	start, err := parseClock(cfg.RangeStart)
	if err != nil {
		return nil, fmt.Errorf("%w: range_start: %v", ErrInvalidParams, err)
	}
	end, err := parseClock(cfg.RangeEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: range_end: %v", ErrInvalidParams, err)
	}
	if end < start {
		return nil, fmt.Errorf("%w: range_end %s before range_start %s", ErrInvalidParams, cfg.RangeEnd, cfg.RangeStart)
	}
	return &TimeBreakoutStrategy{cfg: cfg, start: start, end: end}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

func (s *TimeBreakoutStrategy) ID() ID       { return TimeBreakout }
func (s *TimeBreakoutStrategy) Name() string { return "Time Breakout" }

func (s *TimeBreakoutStrategy) Signals(series model.Series) ([]model.Signal, error) {
	if err := series.Require(model.FieldHigh | model.FieldLow | model.FieldClose | model.FieldVolume); err != nil {
		return nil, err
	}
	bars := series.Bars()
	highs, lows, closes, volumes := series.Highs(), series.Lows(), series.Closes(), series.Volumes()
	atr := indicator.ATR(highs, lows, closes, s.cfg.ATRPeriod)
	avgVol := indicator.SMA(volumes, s.cfg.VolumePeriod)

	var out []model.Signal
	for dayStart := 0; dayStart < len(bars); {
		dayEnd := dayStart + 1
		y, m, d := bars[dayStart].TS.Date()
		for dayEnd < len(bars) {
			y2, m2, d2 := bars[dayEnd].TS.Date()
			if y2 != y || m2 != m || d2 != d {
				break
			}
			dayEnd++
		}
		if sig, ok := s.scanDay(series, dayStart, dayEnd, atr, avgVol); ok {
			out = append(out, sig)
		}
		dayStart = dayEnd
	}
	return out, nil
}

// scanDay evaluates bars [from, to) of one calendar day.
func (s *TimeBreakoutStrategy) scanDay(series model.Series, from, to int, atr, avgVol []float64) (model.Signal, bool) {
	rangeHigh, rangeLow := 0.0, 0.0
	lastRange := -1
	for i := from; i < to; i++ {
		b := series.Bar(i)
		mod := minuteOfDay(b.TS)
		if mod < s.start || mod > s.end {
			continue
		}
		if lastRange < 0 {
			rangeHigh, rangeLow = b.High, b.Low
		} else {
			rangeHigh = max(rangeHigh, b.High)
			rangeLow = min(rangeLow, b.Low)
		}
		lastRange = i
	}
	if lastRange < 0 {
		return model.Signal{}, false
	}

	breakout := atr[lastRange] * s.cfg.BreakoutThreshold
	values := func() map[string]float64 {
		return map[string]float64{"range_high": rangeHigh, "range_low": rangeLow, "atr": atr[lastRange]}
	}
	for i := from; i < to; i++ {
		b := series.Bar(i)
		if minuteOfDay(b.TS) <= s.end {
			continue
		}
		volumeOK := b.Volume > avgVol[i]*s.cfg.VolumeFactor
		switch {
		case b.High > rangeHigh+breakout && volumeOK:
			return newSignal(TimeBreakout, series, i, model.Buy, values()), true
		case b.Low < rangeLow-breakout && volumeOK:
			return newSignal(TimeBreakout, series, i, model.Sell, values()), true
		}
	}
	return model.Signal{}, false
}
