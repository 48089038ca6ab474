package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"trading-signals/config"
	"trading-signals/internal/loader"
	sqlitestore "trading-signals/internal/store/sqlite"

	"github.com/spf13/cobra"
)

func newImportCmd(cfg *config.Config) *cobra.Command {
	var dbPath, symbol, timeframe string
	cmd := &cobra.Command{
		Use:   "import FILE.csv [FILE.csv...]",
		Short: "Load CSV bar files into the SQLite store",
		Long: `Load one or more CSV files into the SQLite bar store. Symbol and timeframe
are taken from the file name (EURUSD_H1.csv -> EURUSD / H1) unless overridden.
Bars with an existing timestamp are replaced.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := sqlitestore.New(sqlitestore.WriterConfig{DBPath: dbPath})
			if err != nil {
				return err
			}
			defer w.Close()

			for _, path := range args {
				s, err := loader.LoadCSV(path)
				if err != nil {
					return err
				}
				if symbol != "" {
					s.Symbol = symbol
				}
				if timeframe != "" {
					s.Timeframe = timeframe
				}
				if err := w.WriteSeries(s); err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				slog.Info("imported",
					slog.String("file", path),
					slog.String("symbol", s.Symbol),
					slog.String("timeframe", s.Timeframe),
					slog.Int("bars", s.Len()))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s, %d bars (%s .. %s)\n", path, s.Symbol, s.Timeframe,
					s.Len(), s.First().Format(time.RFC3339), s.Last().Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", cfg.DBPath, "SQLite bar store")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Override the symbol parsed from the file name")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "Override the timeframe parsed from the file name")
	return cmd
}

func newSeriesCmd(cfg *config.Config) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "series",
		Short: "List the series held in the SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := sqlitestore.NewReader(dbPath)
			if err != nil {
				return err
			}
			defer r.Close()

			infos, err := r.ListSeries()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tTF\tBARS\tFIELDS\tFIRST\tLAST")
			for _, in := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", in.Symbol, in.Timeframe, in.Bars, in.Fields,
					in.First.Format(time.RFC3339), in.Last.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", cfg.DBPath, "SQLite bar store")
	return cmd
}
