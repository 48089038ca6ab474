// Package notification delivers run alerts to external channels (webhooks,
// Telegram) once a strategy run has been simulated.
package notification

import (
	"context"
	"fmt"
	"log"

	"trading-signals/internal/model"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// Alert represents a notification to be sent.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	RunID   string     `json:"run_id,omitempty"`

	// Run is set for alerts raised from a finished run.
	Run *RunFacts `json:"run,omitempty"`
}

// RunFacts are the run figures carried by an alert.
type RunFacts struct {
	Strategy     string  `json:"strategy"`
	Symbol       string  `json:"symbol"`
	Timeframe    string  `json:"timeframe"`
	Signals      int     `json:"signals"`
	Trades       int     `json:"trades"`
	WinRate      float64 `json:"win_rate"`
	ReturnPct    float64 `json:"return_pct"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	FinalBalance float64 `json:"final_balance"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier writes alerts to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s: %s", alert.Level, alert.Title, alert.Message)
	return nil
}

// RunAlerter turns finished runs into alerts. Runs without signals are not
// announced. A run whose drawdown reaches DrawdownWarn percent is a warning,
// one that lost money is critical.
type RunAlerter struct {
	Notifier     Notifier
	DrawdownWarn float64
}

var _ model.RunPublisher = (*RunAlerter)(nil)

// NewRunAlerter returns a RunAlerter warning at 10% drawdown.
func NewRunAlerter(n Notifier) *RunAlerter {
	return &RunAlerter{Notifier: n, DrawdownWarn: 10}
}

// PublishRun sends the alert for run, if any.
func (a *RunAlerter) PublishRun(ctx context.Context, run *model.Run) error {
	alert, ok := a.alertFor(run)
	if !ok {
		return nil
	}
	return a.Notifier.Send(ctx, alert)
}

func (a *RunAlerter) alertFor(run *model.Run) (Alert, bool) {
	if run == nil || len(run.Signals) == 0 {
		return Alert{}, false
	}
	m := run.Metrics
	level := AlertInfo
	switch {
	case m.ReturnPct < 0:
		level = AlertCritical
	case a.DrawdownWarn > 0 && m.MaxDrawdown >= a.DrawdownWarn:
		level = AlertWarning
	}

	last := run.Signals[len(run.Signals)-1]
	msg := fmt.Sprintf("%d signals, last %s at %.5f (%s). %d trades, win rate %.1f%%, return %.2f%%, max drawdown %.2f%%.",
		len(run.Signals), last.Direction, last.Price, last.TS.UTC().Format("2006-01-02 15:04"),
		m.TotalTrades, m.WinRate, m.ReturnPct, m.MaxDrawdown)
	return Alert{
		Level:   level,
		Title:   fmt.Sprintf("%s %s/%s", run.Strategy, run.Symbol, run.Timeframe),
		Message: msg,
		RunID:   run.ID,
		Run: &RunFacts{
			Strategy:     run.Strategy,
			Symbol:       run.Symbol,
			Timeframe:    run.Timeframe,
			Signals:      len(run.Signals),
			Trades:       m.TotalTrades,
			WinRate:      m.WinRate,
			ReturnPct:    m.ReturnPct,
			MaxDrawdown:  m.MaxDrawdown,
			FinalBalance: m.FinalBalance,
		},
	}, true
}
