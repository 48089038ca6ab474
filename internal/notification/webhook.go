package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// webhookEvent tags every payload so receivers can route run alerts apart
// from other traffic on the same endpoint.
const webhookEvent = "signals.run"

// webhookPayload is the JSON body POSTed to the endpoint. Run fields are
// flattened to the top level; alerts raised outside a run leave them empty.
type webhookPayload struct {
	Event   string     `json:"event"`
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	RunID   string     `json:"run_id,omitempty"`
	SentAt  string     `json:"sent_at"`

	Strategy     string   `json:"strategy,omitempty"`
	Symbol       string   `json:"symbol,omitempty"`
	Timeframe    string   `json:"timeframe,omitempty"`
	Signals      int      `json:"signals,omitempty"`
	Trades       int      `json:"trades,omitempty"`
	WinRate      *float64 `json:"win_rate,omitempty"`
	ReturnPct    *float64 `json:"return_pct,omitempty"`
	MaxDrawdown  *float64 `json:"max_drawdown,omitempty"`
	FinalBalance *float64 `json:"final_balance,omitempty"`
}

func newWebhookPayload(alert Alert, now time.Time) webhookPayload {
	p := webhookPayload{
		Event:   webhookEvent,
		Level:   alert.Level,
		Title:   alert.Title,
		Message: alert.Message,
		RunID:   alert.RunID,
		SentAt:  now.UTC().Format(time.RFC3339),
	}
	if r := alert.Run; r != nil {
		p.Strategy, p.Symbol, p.Timeframe = r.Strategy, r.Symbol, r.Timeframe
		p.Signals, p.Trades = r.Signals, r.Trades
		p.WinRate, p.ReturnPct = &r.WinRate, &r.ReturnPct
		p.MaxDrawdown, p.FinalBalance = &r.MaxDrawdown, &r.FinalBalance
	}
	return p
}

// WebhookNotifier POSTs run alerts as JSON to an HTTP endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewWebhookNotifier creates a webhook notifier for url.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

func (w *WebhookNotifier) Send(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(newWebhookPayload(alert, w.now()))
	if err != nil {
		return fmt.Errorf("webhook: marshal run %s: %w", alert.RunID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signals-Event", webhookEvent)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send run %s: %w", alert.RunID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: run %s: unexpected status %d", alert.RunID, resp.StatusCode)
	}

	log.Printf("[webhook] run %s (%s) -> %s", alert.RunID, alert.Level, w.url)
	return nil
}
