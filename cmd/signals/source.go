package main

import (
	"errors"
	"fmt"

	"trading-signals/internal/loader"
	"trading-signals/internal/model"
	sqlitestore "trading-signals/internal/store/sqlite"

	"github.com/spf13/cobra"
)

// seriesSource selects bars from a CSV file or the SQLite store.
type seriesSource struct {
	csv       string
	db        string
	symbol    string
	timeframe string
}

func (s *seriesSource) bind(cmd *cobra.Command, defaultDB string) {
	cmd.Flags().StringVar(&s.csv, "csv", "", "CSV file with OHLCV bars")
	cmd.Flags().StringVar(&s.db, "db", defaultDB, "SQLite bar store (used when --csv is empty)")
	cmd.Flags().StringVar(&s.symbol, "symbol", "", "Symbol (required with --db, overrides the file name with --csv)")
	cmd.Flags().StringVar(&s.timeframe, "timeframe", "", "Timeframe (required with --db, overrides the file name with --csv)")
}

func (s *seriesSource) load() (model.Series, *sqlitestore.Reader, error) {
	if s.csv != "" {
		series, err := loader.LoadCSV(s.csv)
		if err != nil {
			return model.Series{}, nil, err
		}
		if s.symbol != "" {
			series.Symbol = s.symbol
		}
		if s.timeframe != "" {
			series.Timeframe = s.timeframe
		}
		return series, nil, nil
	}

	if s.symbol == "" || s.timeframe == "" {
		return model.Series{}, nil, errors.New("either --csv or --symbol and --timeframe are required")
	}
	reader, err := sqlitestore.NewReader(s.db)
	if err != nil {
		return model.Series{}, nil, fmt.Errorf("open %s: %w", s.db, err)
	}
	series, err := reader.ReadSeries(s.symbol, s.timeframe)
	if err != nil {
		reader.Close()
		return model.Series{}, nil, err
	}
	return series, reader, nil
}
