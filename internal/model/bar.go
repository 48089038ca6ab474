package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrMissingField is returned when a computation needs a column the
	// series was loaded without. It is distinct from an empty result.
	ErrMissingField = errors.New("required field absent")

	// ErrEmptySeries is returned when a series has no bars.
	ErrEmptySeries = errors.New("empty bar series")

	// ErrDuplicateTimestamp is returned when two bars share a timestamp.
	ErrDuplicateTimestamp = errors.New("duplicate bar timestamp")
)

// Bar is one OHLCV observation.
type Bar struct {
	TS     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Field is a bit set of the OHLCV columns present in a series.
type Field uint8

const (
	FieldOpen Field = 1 << iota
	FieldHigh
	FieldLow
	FieldClose
	FieldVolume

	AllFields = FieldOpen | FieldHigh | FieldLow | FieldClose | FieldVolume
)

var fieldNames = []struct {
	f    Field
	name string
}{
	{FieldOpen, "open"},
	{FieldHigh, "high"},
	{FieldLow, "low"},
	{FieldClose, "close"},
	{FieldVolume, "volume"},
}

func (f Field) String() string {
	var parts []string
	for _, fn := range fieldNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Series is an immutable, timestamp-ascending bar series for one symbol and
// timeframe. Accessors return fresh slices so callers can never write
// through to the shared bars.
type Series struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Fields    Field  `json:"fields"`

	bars []Bar
}

// NewSeries copies bars, sorts them by timestamp and rejects duplicates.
func NewSeries(symbol, timeframe string, bars []Bar, fields Field) (Series, error) {
	if len(bars) == 0 {
		return Series{}, ErrEmptySeries
	}
	cp := make([]Bar, len(bars))
	copy(cp, bars)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].TS.Before(cp[j].TS) })
	for i := 1; i < len(cp); i++ {
		if !cp[i].TS.After(cp[i-1].TS) {
			return Series{}, fmt.Errorf("%w: %s", ErrDuplicateTimestamp, cp[i].TS.Format(time.RFC3339))
		}
	}
	return Series{Symbol: symbol, Timeframe: timeframe, Fields: fields, bars: cp}, nil
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.bars) }

// Bar returns the bar at position i.
func (s Series) Bar(i int) Bar { return s.bars[i] }

// Bars returns a copy of the bars.
func (s Series) Bars() []Bar {
	cp := make([]Bar, len(s.bars))
	copy(cp, s.bars)
	return cp
}

// Has reports whether every field in f is present.
func (s Series) Has(f Field) bool { return s.Fields&f == f }

// Require returns an ErrMissingField error naming the absent columns of f.
func (s Series) Require(f Field) error {
	if missing := f &^ s.Fields; missing != 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, missing)
	}
	return nil
}

func (s Series) column(get func(b Bar) float64) []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = get(b)
	}
	return out
}

func (s Series) Opens() []float64   { return s.column(func(b Bar) float64 { return b.Open }) }
func (s Series) Highs() []float64   { return s.column(func(b Bar) float64 { return b.High }) }
func (s Series) Lows() []float64    { return s.column(func(b Bar) float64 { return b.Low }) }
func (s Series) Closes() []float64  { return s.column(func(b Bar) float64 { return b.Close }) }
func (s Series) Volumes() []float64 { return s.column(func(b Bar) float64 { return b.Volume }) }

// IndexAtOrBefore returns the position of the last bar with TS <= ts, or -1.
func (s Series) IndexAtOrBefore(ts time.Time) int {
	i := sort.Search(len(s.bars), func(i int) bool { return s.bars[i].TS.After(ts) })
	return i - 1
}

// First and Last return the boundary timestamps. Zero for an empty series.
func (s Series) First() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[0].TS
}

func (s Series) Last() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[len(s.bars)-1].TS
}
