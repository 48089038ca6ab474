// Package strategy provides the rule-based signal strategies and the engine
// that evaluates them over a bar series.
//
// A Strategy is a pure function of an immutable model.Series: it computes
// its own indicator columns, never mutates the series, and returns signals
// in ascending position order with at most one signal per position. Signals
// fire on edges, when the governing relation turns from false (or undefined)
// at the previous bar to true at the current one.
package strategy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"trading-signals/internal/model"
)

var (
	// ErrUnknownStrategy is returned for an ID or key with no registered factory.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInvalidParams is returned when a factory rejects its configuration.
	ErrInvalidParams = errors.New("invalid strategy parameters")
)

// Strategy is the interface that all signal strategies implement.
type Strategy interface {
	// ID returns the registry identifier.
	ID() ID

	// Name returns a human-readable name.
	Name() string

	// Signals evaluates the strategy over the series. An empty result is
	// not an error; a missing required column is (model.ErrMissingField).
	Signals(series model.Series) ([]model.Signal, error)
}

// ID enumerates the available strategies.
type ID int

const (
	RSIEMA ID = iota + 1
	BollingerRSI
	TrendPullback
	TimeBreakout
	Ichimoku
	Harmonic
	Divergence
	MACrossover
)

var idKeys = map[ID]string{
	RSIEMA:        "rsi_ema",
	BollingerRSI:  "bollinger_rsi",
	TrendPullback: "trend_pullback",
	TimeBreakout:  "time_breakout",
	Ichimoku:      "ichimoku",
	Harmonic:      "harmonic",
	Divergence:    "divergence",
	MACrossover:   "ma_crossover",
}

// String returns the stable key used in config files, CLI flags and
// published channels.
func (id ID) String() string {
	if k, ok := idKeys[id]; ok {
		return k
	}
	return fmt.Sprintf("strategy(%d)", int(id))
}

// ParseID resolves a key such as "rsi_ema".
func ParseID(key string) (ID, error) {
	for id, k := range idKeys {
		if k == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, key)
}

// IDs returns every registered ID in declaration order.
func IDs() []ID {
	ids := make([]ID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Factory builds a strategy from the full parameter set.
type Factory func(p Params) (Strategy, error)

var registry = map[ID]Factory{
	RSIEMA:        func(p Params) (Strategy, error) { return NewRSIEMA(p.RSIEMA) },
	BollingerRSI:  func(p Params) (Strategy, error) { return NewBollingerRSI(p.BollingerRSI) },
	TrendPullback: func(p Params) (Strategy, error) { return NewTrendPullback(p.TrendPullback) },
	TimeBreakout:  func(p Params) (Strategy, error) { return NewTimeBreakout(p.TimeBreakout) },
	Ichimoku:      func(p Params) (Strategy, error) { return NewIchimoku(p.Ichimoku) },
	Harmonic:      func(p Params) (Strategy, error) { return NewHarmonic(p.Harmonic) },
	Divergence:    func(p Params) (Strategy, error) { return NewDivergence(p.Divergence) },
	MACrossover:   func(p Params) (Strategy, error) { return NewMACrossover(p.MACrossover) },
}

// New builds the strategy registered under id.
func New(id ID, p Params) (Strategy, error) {
	f, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, id)
	}
	s, err := f(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return s, nil
}

// ── shared helpers ──

// crossed reports a strict false→true transition between consecutive bars.
// Relations involving an undefined value evaluate to false.
func crossed(prev, cur bool) bool { return !prev && cur }

// positive returns ErrInvalidParams unless every named period is > 0.
func positive(periods map[string]int) error {
	for name, v := range periods {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %d", ErrInvalidParams, name, v)
		}
	}
	return nil
}

// newSignal builds a signal at bar i. Undefined values are left out of the
// snapshot so it always encodes as JSON.
func newSignal(id ID, s model.Series, i int, dir model.Direction, values map[string]float64) model.Signal {
	for k, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(values, k)
		}
	}
	b := s.Bar(i)
	return model.Signal{
		Strategy:  id.String(),
		TS:        b.TS,
		Index:     i,
		Price:     b.Close,
		Direction: dir,
		Values:    values,
	}
}
