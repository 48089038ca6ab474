package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"trading-signals/config"
	"trading-signals/internal/indicator"
	"trading-signals/internal/strategy"

	"github.com/spf13/cobra"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := strategy.DefaultParams()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKEY\tNAME")
			for _, id := range strategy.IDs() {
				s, err := strategy.New(id, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", int(id), id, s.Name())
			}
			return tw.Flush()
		},
	}
}

func newIndicatorsCmd(cfg *config.Config) *cobra.Command {
	var (
		src   seriesSource
		specs string
		tail  int
	)
	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "Compute indicator columns over a bar series",
		Example: `  signals indicators --csv data/EURUSD_H1.csv --specs EMA:50,RSI:14,ATR:14 --tail 10
  signals indicators --db data/bars.db --symbol EURUSD --timeframe H1 --specs BB:20,MACD:12
  signals indicators --csv data/EURUSD_D1.csv --specs ICHIMOKU:9,FIB:50,SR:10,DIV:10,CANDLE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			series, reader, err := src.load()
			if err != nil {
				return err
			}
			if reader != nil {
				defer reader.Close()
			}

			cols, err := indicator.NewEngine(indicator.ParseSpecs(specs)).Compute(series)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprint(tw, "TIME\tCLOSE")
			for _, c := range cols {
				fmt.Fprintf(tw, "\t%s", c.Name)
			}
			fmt.Fprintln(tw, "\t")

			start := 0
			if tail > 0 && tail < series.Len() {
				start = series.Len() - tail
			}
			for i := start; i < series.Len(); i++ {
				b := series.Bar(i)
				fmt.Fprintf(tw, "%s\t%s", b.TS.UTC().Format("2006-01-02 15:04"), formatValue(b.Close))
				for _, c := range cols {
					fmt.Fprintf(tw, "\t%s", formatValue(c.Values[i]))
				}
				fmt.Fprintln(tw, "\t")
			}
			return tw.Flush()
		},
	}
	src.bind(cmd, cfg.DBPath)
	cmd.Flags().StringVar(&specs, "specs", "", "Indicator specs TYPE:PERIOD,... (types: "+strings.Join(indicator.Types(), ", ")+"; CANDLE takes no period)")
	cmd.Flags().IntVar(&tail, "tail", 20, "Only print the last N bars (0 = all)")
	return cmd
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 5, 64)
}
