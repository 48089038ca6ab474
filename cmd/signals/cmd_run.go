package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trading-signals/config"
	"trading-signals/internal/metrics"
	"trading-signals/internal/model"
	"trading-signals/internal/notification"
	"trading-signals/internal/report"
	"trading-signals/internal/runner"
	redisstore "trading-signals/internal/store/redis"
	"trading-signals/internal/strategy"

	"github.com/spf13/cobra"
)

type runFlags struct {
	src        seriesSource
	strategies string
	params     string
	outcome    string
	asJSON     bool
	publish    bool
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run strategies on a bar series and simulate the trades",
		Example: `  signals run --csv data/EURUSD_H1.csv
  signals run --csv data/EURUSD_H1.csv --strategy harmonic --params params.yaml
  signals run --db data/bars.db --symbol EURUSD --timeframe H1 --strategy all --outcome scan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrategies(cmd, cfg, &f)
		},
	}
	f.src.bind(cmd, cfg.DBPath)
	cmd.Flags().StringVar(&f.strategies, "strategy", "", "Comma-separated strategy keys or \"all\" (default $SIGNALS_STRATEGIES or all)")
	cmd.Flags().StringVar(&f.params, "params", "", "YAML file with strategy parameter overrides")
	cmd.Flags().StringVar(&f.outcome, "outcome", runner.OutcomeCoin, "Trade outcome model: coin or scan")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Write runs as JSON")
	cmd.Flags().BoolVar(&f.publish, "publish", true, "Publish runs to Redis when REDIS_ADDR is set")
	cmd.Flags().Float64Var(&cfg.InitialBalance, "balance", cfg.InitialBalance, "Initial account balance")
	cmd.Flags().Float64Var(&cfg.RiskPct, "risk-pct", cfg.RiskPct, "Percent of balance risked per trade")
	cmd.Flags().Float64Var(&cfg.RiskRatio, "risk-ratio", cfg.RiskRatio, "Take-profit distance as a multiple of the stop distance")
	cmd.Flags().Int64Var(&cfg.SimSeed, "seed", cfg.SimSeed, "Coin-flip seed (0 = time seeded)")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve /metrics and /healthz on this address while running")
	return cmd
}

func parseStrategyFlag(cfg *config.Config, s string) ([]strategy.ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return cfg.ParseStrategies(), nil
	}
	if s == "all" {
		return strategy.IDs(), nil
	}
	var ids []strategy.ID
	for _, key := range strings.Split(s, ",") {
		id, err := strategy.ParseID(strings.TrimSpace(key))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runStrategies(cmd *cobra.Command, cfg *config.Config, f *runFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ids, err := parseStrategyFlag(cfg, f.strategies)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no strategies selected")
	}
	params, err := config.LoadParams(f.params)
	if err != nil {
		return err
	}

	series, reader, err := f.src.load()
	if err != nil {
		return err
	}
	if reader != nil {
		defer reader.Close()
	}

	m := metrics.NewMetrics()
	m.BarsLoaded.Add(float64(series.Len()))
	health := metrics.NewHealthStatus()
	if reader != nil {
		health.CheckSQLite(ctx, reader.DB())
	}

	opts := []runner.Option{runner.WithMetrics(m), runner.WithHealth(health)}
	if f.publish && cfg.RedisAddr != "" {
		pub, err := redisstore.NewPublisher(redisstore.PublisherConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer pub.Close()
		health.CheckRedis(ctx, pub.Client())
		opts = append(opts, runner.WithPublisher(pub))
	}

	for _, n := range notifiers(cfg) {
		alerter := notification.NewRunAlerter(n)
		alerter.DrawdownWarn = cfg.AlertDrawdownPct
		opts = append(opts, runner.WithPublisher(alerter))
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, m, health)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Stop(shutdownCtx)
		}()
	}

	r, err := runner.New(params, runner.Options{
		InitialBalance: cfg.InitialBalance,
		RiskPct:        cfg.RiskPct,
		RiskRatio:      cfg.RiskRatio,
		Outcome:        f.outcome,
		Seed:           cfg.SimSeed,
	}, opts...)
	if err != nil {
		return err
	}

	slog.Info("series loaded",
		slog.String("symbol", series.Symbol),
		slog.String("timeframe", series.Timeframe),
		slog.Int("bars", series.Len()),
		slog.String("fields", series.Fields.String()),
	)

	out := cmd.OutOrStdout()
	if len(ids) == 1 {
		run, err := r.Run(ctx, series, ids[0])
		if err != nil {
			return err
		}
		if f.asJSON {
			return report.WriteJSON(out, run)
		}
		return report.WriteText(out, run)
	}

	results, err := r.RunAll(ctx, series, ids)
	if err != nil {
		return err
	}
	if f.asJSON {
		return writeResultsJSON(cmd, results)
	}

	rows := make([]report.Summary, 0, len(results))
	for _, res := range results {
		row := report.Summary{Strategy: res.ID.String(), Err: res.Err}
		if res.Run != nil {
			row.Signals = len(res.Run.Signals)
			row.Trades = res.Run.Metrics.TotalTrades
			row.WinRate = res.Run.Metrics.WinRate
			row.FinalBalance = res.Run.FinalBalance
		}
		rows = append(rows, row)
	}
	return report.WriteSummary(out, rows)
}

func notifiers(cfg *config.Config) []notification.Notifier {
	var out []notification.Notifier
	if cfg.WebhookURL != "" {
		out = append(out, notification.NewWebhookNotifier(cfg.WebhookURL))
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		out = append(out, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
	}
	return out
}

func writeResultsJSON(cmd *cobra.Command, results []runner.Result) error {
	type entry struct {
		Strategy string     `json:"strategy"`
		Run      *model.Run `json:"run,omitempty"`
		Error    string     `json:"error,omitempty"`
	}
	entries := make([]entry, 0, len(results))
	for _, res := range results {
		e := entry{Strategy: res.ID.String(), Run: res.Run}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		entries = append(entries, e)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
