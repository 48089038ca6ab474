package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for strategy runs.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal      *prometheus.CounterVec   // labels: strategy, status=ok|error
	SignalsTotal   *prometheus.CounterVec   // labels: strategy, direction
	DroppedSignals *prometheus.CounterVec   // labels: strategy
	TradesTotal    *prometheus.CounterVec   // labels: strategy, outcome
	RunDuration    *prometheus.HistogramVec // labels: strategy
	FinalBalance   *prometheus.GaugeVec     // labels: strategy, symbol, timeframe
	BarsLoaded     prometheus.Counter

	// Publisher circuit breaker
	PublishFailures prometheus.Counter
	BreakerState    prometheus.Gauge // 0=closed, 1=half-open, 2=open
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_runs_total",
			Help: "Strategy runs completed (by strategy and status)",
		}, []string{"strategy", "status"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_emitted_total",
			Help: "Signals emitted after risk enrichment",
		}, []string{"strategy", "direction"}),
		DroppedSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_dropped_total",
			Help: "Signals dropped for lack of a usable ATR",
		}, []string{"strategy"}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signals_trades_total",
			Help: "Simulated trades by outcome",
		}, []string{"strategy", "outcome"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signals_run_duration_seconds",
			Help:    "Wall time from strategy evaluation start to simulated run",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"strategy"}),
		FinalBalance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signals_final_balance",
			Help: "Simulated account balance at the end of the last run",
		}, []string{"strategy", "symbol", "timeframe"}),
		BarsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signals_bars_loaded_total",
			Help: "Bars loaded from CSV or SQLite",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signals_publish_failures_total",
			Help: "Run publications that failed or were rejected by the breaker",
		}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signals_publish_breaker_state",
			Help: "Publisher circuit breaker state (0=closed, 1=half-open, 2=open)",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		m.RunsTotal,
		m.SignalsTotal,
		m.DroppedSignals,
		m.TradesTotal,
		m.RunDuration,
		m.FinalBalance,
		m.BarsLoaded,
		m.PublishFailures,
		m.BreakerState,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// HealthStatus reports reachability of the optional backends.
type HealthStatus struct {
	mu sync.RWMutex

	RedisEnabled    bool      `json:"redis_enabled"`
	RedisConnected  bool      `json:"redis_connected"`
	RedisLatencyMs  float64   `json:"redis_latency_ms"`
	SQLiteEnabled   bool      `json:"sqlite_enabled"`
	SQLiteOK        bool      `json:"sqlite_ok"`
	SQLiteLatencyMs float64   `json:"sqlite_latency_ms"`
	LastRunAt       time.Time `json:"last_run_at"`
	LastCheckAt     time.Time `json:"last_check_at"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

func (h *HealthStatus) SetLastRun(t time.Time) {
	h.mu.Lock()
	h.LastRunAt = t
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisEnabled = true
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite pings the database and records latency + health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteEnabled = true
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// Healthy reports whether every enabled backend answered its last probe.
func (h *HealthStatus) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.RedisEnabled && !h.RedisConnected {
		return false
	}
	if h.SQLiteEnabled && !h.SQLiteOK {
		return false
	}
	return true
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	healthy := h.Healthy()

	h.mu.RLock()
	defer h.mu.RUnlock()

	status := struct {
		Status          string  `json:"status"`
		Uptime          string  `json:"uptime"`
		RedisEnabled    bool    `json:"redis_enabled"`
		RedisConnected  bool    `json:"redis_connected"`
		RedisLatencyMs  float64 `json:"redis_latency_ms"`
		SQLiteEnabled   bool    `json:"sqlite_enabled"`
		SQLiteOK        bool    `json:"sqlite_ok"`
		SQLiteLatencyMs float64 `json:"sqlite_latency_ms"`
		LastRunAt       string  `json:"last_run_at,omitempty"`
	}{
		Status:          "healthy",
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		RedisEnabled:    h.RedisEnabled,
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		SQLiteEnabled:   h.SQLiteEnabled,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
	}
	if !h.LastRunAt.IsZero() {
		status.LastRunAt = h.LastRunAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		status.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, m *Metrics, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/healthz", health)

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
