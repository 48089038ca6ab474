package strategy

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"trading-signals/internal/model"
)

// Result is the outcome of one strategy over one series. Err is set when the
// strategy failed; an empty Signals slice with nil Err is a normal outcome.
// Elapsed is the strategy's own evaluation time.
type Result struct {
	ID      ID
	Signals []model.Signal
	Err     error
	Elapsed time.Duration
}

// Engine manages registered strategies and evaluates them over a series.
type Engine struct {
	strategies []Strategy
	limit      int
}

// NewEngine creates a new strategy engine. limit caps concurrent
// evaluations; <= 0 means GOMAXPROCS.
func NewEngine(limit int) *Engine {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Engine{limit: limit}
}

// NewEngineFor builds and registers every strategy in ids.
func NewEngineFor(ids []ID, p Params, limit int) (*Engine, error) {
	e := NewEngine(limit)
	for _, id := range ids {
		s, err := New(id, p)
		if err != nil {
			return nil, err
		}
		e.Register(s)
	}
	return e, nil
}

// Register adds a strategy to the engine.
func (e *Engine) Register(s Strategy) {
	e.strategies = append(e.strategies, s)
}

// Strategies returns the registered strategies in registration order.
func (e *Engine) Strategies() []Strategy {
	return append([]Strategy(nil), e.strategies...)
}

// RunAll evaluates every registered strategy concurrently on the same
// immutable series. Results are in registration order. Per-strategy
// failures are reported in Result.Err; the returned error is non-nil only
// when ctx was cancelled before all strategies ran.
func (e *Engine) RunAll(ctx context.Context, series model.Series) ([]Result, error) {
	results := make([]Result, len(e.strategies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, s := range e.strategies {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			sigs, err := s.Signals(series)
			results[i] = Result{ID: s.ID(), Signals: sigs, Err: err, Elapsed: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
