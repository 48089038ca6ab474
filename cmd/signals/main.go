// cmd/signals evaluates rule-based trading strategies on historical OHLCV
// bars, attaches ATR-based exit levels, simulates the resulting trades and
// reports performance metrics.
//
// Usage:
//
//	signals import data/EURUSD_H1.csv --db data/bars.db
//	signals run --csv data/EURUSD_H1.csv --strategy rsi_ema,ichimoku
//	signals run --db data/bars.db --symbol EURUSD --timeframe H1 --outcome scan --json
//	signals strategies
//	signals indicators --csv data/EURUSD_H1.csv --specs EMA:50,RSI:14 --tail 5
package main

import (
	"fmt"
	"log"
	"os"

	"trading-signals/config"
	"trading-signals/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := newRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "signals",
		Short: "Rule-based trading signal engine and trade simulator",
		Long: `signals computes technical indicators over OHLCV bars, runs rule-based
strategies (RSI/EMA, Bollinger/RSI, trend pullback, time breakout, Ichimoku,
harmonic patterns, RSI divergence, MA crossover), attaches ATR stop-loss and
take-profit levels, and simulates the trades on a running balance.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Reports go to stdout; logs stay on stderr.
			logger.InitWriter(cmd.ErrOrStderr(), "signals", logger.ParseLevel(cfg.LogLevel))
		},
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(cfg),
		newImportCmd(cfg),
		newSeriesCmd(cfg),
		newStrategiesCmd(),
		newIndicatorsCmd(cfg),
	)
	return root
}
