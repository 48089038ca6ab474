package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"trading-signals/internal/model"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"
)

const (
	breakerFailures = 5
	breakerTimeout  = 10 * time.Second
)

// PublisherConfig configures the Redis publisher.
type PublisherConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Publisher ships finished runs over Redis Pub/Sub.
//
// Channels:
//
//	pub:signals:<strategy>:<symbol>:<tf>  one message per enriched signal
//	pub:runs:<symbol>:<tf>                run summary (metrics, counts)
type Publisher struct {
	client *goredis.Client
	cb     *gobreaker.CircuitBreaker
}

var _ model.RunPublisher = (*Publisher)(nil)

// NewPublisher connects to Redis and pings the server.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return NewPublisherWithClient(client), nil
}

// NewPublisherWithClient wraps an existing client.
func NewPublisherWithClient(client *goredis.Client) *Publisher {
	st := gobreaker.Settings{Name: "redis-publish", Timeout: breakerTimeout}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= breakerFailures
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Printf("[redis] breaker %s: %s -> %s", name, from, to)
	}
	return &Publisher{client: client, cb: gobreaker.NewCircuitBreaker(st)}
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *goredis.Client { return p.client }

// State reports the circuit breaker state.
func (p *Publisher) State() gobreaker.State { return p.cb.State() }

// RunSummary is the payload published on the runs channel.
type RunSummary struct {
	ID        string        `json:"id"`
	Symbol    string        `json:"symbol"`
	Timeframe string        `json:"timeframe"`
	Strategy  string        `json:"strategy"`
	Bars      int           `json:"bars"`
	Signals   int           `json:"signals"`
	Dropped   int           `json:"dropped"`
	Metrics   model.Metrics `json:"metrics"`
}

// SignalChannel returns the Pub/Sub channel for one strategy's signals.
func SignalChannel(strategy, symbol, tf string) string {
	return fmt.Sprintf("pub:signals:%s:%s:%s", strategy, symbol, tf)
}

// RunChannel returns the Pub/Sub channel for run summaries.
func RunChannel(symbol, tf string) string {
	return fmt.Sprintf("pub:runs:%s:%s", symbol, tf)
}

// PublishRun publishes every signal of run followed by its summary in one
// pipeline. While the breaker is open it fails fast with gobreaker.ErrOpenState.
func (p *Publisher) PublishRun(ctx context.Context, run *model.Run) error {
	if run == nil {
		return nil
	}
	msgs, summary, err := encodeRun(run)
	if err != nil {
		return err
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		pipe := p.client.Pipeline()
		sigCh := SignalChannel(run.Strategy, run.Symbol, run.Timeframe)
		for _, m := range msgs {
			pipe.Publish(ctx, sigCh, m)
		}
		pipe.Publish(ctx, RunChannel(run.Symbol, run.Timeframe), summary)
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		log.Printf("[redis] publish run %s failed: %v", run.ID, err)
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func encodeRun(run *model.Run) ([]string, string, error) {
	msgs := make([]string, 0, len(run.Signals))
	for _, s := range run.Signals {
		b, err := json.Marshal(s)
		if err != nil {
			return nil, "", fmt.Errorf("encode signal: %w", err)
		}
		msgs = append(msgs, string(b))
	}
	summary, err := json.Marshal(RunSummary{
		ID:        run.ID,
		Symbol:    run.Symbol,
		Timeframe: run.Timeframe,
		Strategy:  run.Strategy,
		Bars:      run.Bars,
		Signals:   len(run.Signals),
		Dropped:   run.Dropped,
		Metrics:   run.Metrics,
	})
	if err != nil {
		return nil, "", fmt.Errorf("encode run: %w", err)
	}
	return msgs, string(summary), nil
}

// Close closes the Redis client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
