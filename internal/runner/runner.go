// Package runner wires a bar series through strategy evaluation, risk
// enrichment, trade simulation and metrics, then reports the run to the
// optional publishers and Prometheus metrics.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trading-signals/internal/logger"
	"trading-signals/internal/metrics"
	"trading-signals/internal/model"
	"trading-signals/internal/risk"
	"trading-signals/internal/strategy"

	"github.com/sony/gobreaker"
)

// Outcome model names accepted by Options.Outcome.
const (
	OutcomeCoin = "coin"
	OutcomeScan = "scan"
)

// Options configures the simulation stage.
type Options struct {
	InitialBalance float64
	RiskPct        float64 // percent of balance risked per trade
	RiskRatio      float64 // take-profit distance as a multiple of stop distance
	Outcome        string  // OutcomeCoin or OutcomeScan
	Seed           int64   // CoinFlip seed; 0 seeds from the clock
	Concurrency    int     // RunAll strategy limit; <= 0 means GOMAXPROCS
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{InitialBalance: 10000, RiskPct: 1, RiskRatio: 2, Outcome: OutcomeCoin}
}

// Runner executes strategy runs. It is safe to reuse across series.
type Runner struct {
	params     strategy.Params
	opts       Options
	publishers []model.RunPublisher
	metrics    *metrics.Metrics
	health     *metrics.HealthStatus
	now        func() time.Time
}

// Option customises a Runner.
type Option func(*Runner)

// WithPublisher ships every finished run to p. It may be given several times.
func WithPublisher(p model.RunPublisher) Option {
	return func(r *Runner) { r.publishers = append(r.publishers, p) }
}

// WithMetrics records run metrics on m.
func WithMetrics(m *metrics.Metrics) Option { return func(r *Runner) { r.metrics = m } }

// WithHealth stamps the last completed run on h.
func WithHealth(h *metrics.HealthStatus) Option { return func(r *Runner) { r.health = h } }

// WithClock replaces time.Now for run timing.
func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }

// New creates a Runner.
func New(params strategy.Params, opts Options, options ...Option) (*Runner, error) {
	switch opts.Outcome {
	case "":
		opts.Outcome = OutcomeCoin
	case OutcomeCoin, OutcomeScan:
	default:
		return nil, fmt.Errorf("unknown outcome model %q (want %s or %s)", opts.Outcome, OutcomeCoin, OutcomeScan)
	}
	if opts.RiskRatio <= 0 {
		return nil, risk.ErrInvalidRiskRatio
	}
	r := &Runner{params: params, opts: opts, now: time.Now}
	for _, o := range options {
		o(r)
	}
	return r, nil
}

// Run evaluates one strategy on series and simulates its signals.
func (r *Runner) Run(ctx context.Context, series model.Series, id strategy.ID) (*model.Run, error) {
	ctx = r.runContext(ctx)

	s, err := strategy.New(id, r.params)
	if err != nil {
		return nil, err
	}
	start := r.now()
	sigs, err := s.Signals(series)
	if err != nil {
		r.recordFailure(ctx, id, err)
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return r.finish(ctx, series, id, sigs, r.now().Sub(start))
}

// Result pairs a strategy with its run or failure.
type Result struct {
	ID  strategy.ID
	Run *model.Run
	Err error
}

// RunAll evaluates ids concurrently on the same series, then simulates each
// strategy's signals in the order given. A strategy failure is reported in
// its Result and does not stop the others.
func (r *Runner) RunAll(ctx context.Context, series model.Series, ids []strategy.ID) ([]Result, error) {
	eng, err := strategy.NewEngineFor(ids, r.params, r.opts.Concurrency)
	if err != nil {
		return nil, err
	}
	evals, err := eng.RunAll(ctx, series)
	if err != nil {
		return nil, err
	}

	out := make([]Result, len(evals))
	for i, ev := range evals {
		rctx := childContext(ctx, ev.ID)
		out[i].ID = ev.ID
		if ev.Err != nil {
			r.recordFailure(rctx, ev.ID, ev.Err)
			out[i].Err = fmt.Errorf("%s: %w", ev.ID, ev.Err)
			continue
		}
		out[i].Run, out[i].Err = r.finish(rctx, series, ev.ID, ev.Signals, ev.Elapsed)
	}
	return out, nil
}

func (r *Runner) runContext(ctx context.Context) context.Context {
	if logger.RunID(ctx) != "" {
		return ctx
	}
	return logger.WithRunID(ctx, logger.NewRunID())
}

// childContext gives each run of a RunAll batch its own ID, derived from
// the caller's run ID when there is one.
func childContext(ctx context.Context, id strategy.ID) context.Context {
	if parent := logger.RunID(ctx); parent != "" {
		return logger.WithRunID(ctx, parent+"/"+id.String())
	}
	return logger.WithRunID(ctx, logger.NewRunID())
}

func (r *Runner) outcomeModel(series model.Series) risk.OutcomeModel {
	if r.opts.Outcome == OutcomeScan {
		return risk.BarScan{Series: series}
	}
	return risk.NewCoinFlip(r.opts.Seed)
}

// finish simulates sigs and records the run. eval is the time already spent
// evaluating the strategy; the recorded duration adds the simulation.
func (r *Runner) finish(ctx context.Context, series model.Series, id strategy.ID, sigs []model.Signal, eval time.Duration) (*model.Run, error) {
	start := r.now()
	enriched, dropped, err := risk.AttachRiskLevels(sigs, series, r.opts.RiskRatio)
	if err != nil {
		r.recordFailure(ctx, id, err)
		return nil, fmt.Errorf("%s: risk levels: %w", id, err)
	}
	trades, balance := risk.Simulate(enriched, r.opts.InitialBalance, r.opts.RiskPct, r.outcomeModel(series))
	m := risk.ComputeMetrics(trades)
	if len(trades) == 0 {
		m.FinalBalance = balance
	}

	run := &model.Run{
		ID:           logger.RunID(ctx),
		Symbol:       series.Symbol,
		Timeframe:    series.Timeframe,
		Strategy:     id.String(),
		Bars:         series.Len(),
		Signals:      enriched,
		Dropped:      dropped,
		Trades:       trades,
		FinalBalance: balance,
		Metrics:      m,
	}

	attrs := append(logger.LogWithRun(ctx),
		slog.String("strategy", run.Strategy),
		slog.String("symbol", run.Symbol),
		slog.String("timeframe", run.Timeframe),
		slog.Int("bars", run.Bars),
		slog.Int("signals", len(enriched)),
		slog.Int("dropped", dropped),
		slog.Float64("final_balance", balance),
	)
	slog.Info("run complete", attrs...)
	if dropped > 0 {
		slog.Debug("signals dropped without ATR", append(logger.LogWithRun(ctx), slog.Int("dropped", dropped))...)
	}

	r.record(run, eval+r.now().Sub(start))

	r.publish(ctx, run)
	if r.health != nil {
		r.health.SetLastRun(r.now())
	}
	return run, nil
}

func (r *Runner) record(run *model.Run, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	m := r.metrics
	m.RunsTotal.WithLabelValues(run.Strategy, "ok").Inc()
	m.RunDuration.WithLabelValues(run.Strategy).Observe(elapsed.Seconds())
	m.DroppedSignals.WithLabelValues(run.Strategy).Add(float64(run.Dropped))
	for _, s := range run.Signals {
		m.SignalsTotal.WithLabelValues(run.Strategy, s.Direction.String()).Inc()
	}
	for _, t := range run.Trades {
		m.TradesTotal.WithLabelValues(run.Strategy, string(t.Outcome)).Inc()
	}
	m.FinalBalance.WithLabelValues(run.Strategy, run.Symbol, run.Timeframe).Set(run.FinalBalance)
}

func (r *Runner) recordFailure(ctx context.Context, id strategy.ID, err error) {
	slog.Error("run failed", append(logger.LogWithRun(ctx),
		slog.String("strategy", id.String()),
		slog.String("error", err.Error()))...)
	if r.metrics != nil {
		r.metrics.RunsTotal.WithLabelValues(id.String(), "error").Inc()
	}
}

// publish is best effort: a failing publisher never fails the run.
func (r *Runner) publish(ctx context.Context, run *model.Run) {
	for _, p := range r.publishers {
		if err := p.PublishRun(ctx, run); err != nil {
			slog.Warn("publish failed", append(logger.LogWithRun(ctx),
				slog.String("publisher", fmt.Sprintf("%T", p)),
				slog.String("error", err.Error()))...)
			if r.metrics != nil {
				r.metrics.PublishFailures.Inc()
			}
		}
		if b, ok := p.(interface{ State() gobreaker.State }); ok && r.metrics != nil {
			r.metrics.BreakerState.Set(float64(b.State()))
		}
	}
}
