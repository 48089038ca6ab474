// Package report renders a finished run as an aligned text table or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"trading-signals/internal/model"

	"github.com/shopspring/decimal"
)

const tsLayout = "2006-01-02 15:04"

// money formats v with two decimals, rounding half away from zero.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// price formats a quote with five decimals, enough for FX pairs.
func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(5)
}

func ratio(r model.Ratio) string {
	f := float64(r)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsNaN(f):
		return "n/a"
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

// WriteText writes a human readable summary, the signal list and the trade
// ledger of run to w.
func WriteText(w io.Writer, run *model.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Run\t%s\n", run.ID)
	fmt.Fprintf(tw, "Strategy\t%s\n", run.Strategy)
	fmt.Fprintf(tw, "Series\t%s %s (%d bars)\n", run.Symbol, run.Timeframe, run.Bars)
	fmt.Fprintf(tw, "Signals\t%d (%d dropped without ATR)\n", len(run.Signals), run.Dropped)
	fmt.Fprintln(tw)

	if len(run.Signals) > 0 {
		fmt.Fprintln(tw, "TIME\tSIDE\tPRICE\tSTOP\tTARGET\tATR\tPATTERN")
		for _, s := range run.Signals {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.TS.UTC().Format(tsLayout), s.Direction,
				price(s.Price), price(s.StopLoss), price(s.TakeProfit), price(s.ATR),
				dash(s.Pattern))
		}
		fmt.Fprintln(tw)
	}

	if len(run.Trades) > 0 {
		fmt.Fprintln(tw, "TIME\tSIDE\tSIZE\tRESULT\tOUTCOME\tBALANCE")
		for _, t := range run.Trades {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				t.TS.UTC().Format(tsLayout), t.Direction,
				decimal.NewFromFloat(t.PositionSize).StringFixed(4),
				money(t.Result), t.Outcome, money(t.Balance))
		}
		fmt.Fprintln(tw)
	}

	m := run.Metrics
	fmt.Fprintf(tw, "Trades\t%d (won %d, lost %d)\n", m.TotalTrades, m.WinningTrades, m.LosingTrades)
	fmt.Fprintf(tw, "Win rate\t%s%%\n", decimal.NewFromFloat(m.WinRate).StringFixed(1))
	fmt.Fprintf(tw, "Avg win / loss\t%s / %s\n", money(m.AvgWin), money(m.AvgLoss))
	fmt.Fprintf(tw, "Profit factor\t%s\n", ratio(m.ProfitFactor))
	fmt.Fprintf(tw, "Payoff ratio\t%s\n", ratio(m.PayoffRatio))
	fmt.Fprintf(tw, "Total PnL\t%s\n", money(m.TotalPnL))
	fmt.Fprintf(tw, "Max drawdown\t%s%%\n", money(m.MaxDrawdown))
	fmt.Fprintf(tw, "Sharpe\t%s\n", money(m.SharpeRatio))
	fmt.Fprintf(tw, "Final balance\t%s (%s%%)\n", money(run.FinalBalance), money(m.ReturnPct))

	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WriteJSON writes run as indented JSON.
func WriteJSON(w io.Writer, run *model.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	return nil
}

// Summary is one row of a multi-strategy comparison.
type Summary struct {
	Strategy     string
	Signals      int
	Trades       int
	WinRate      float64
	FinalBalance float64
	Err          error
}

// WriteSummary writes one line per strategy run, in the given order.
func WriteSummary(w io.Writer, rows []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tSIGNALS\tTRADES\tWIN%\tBALANCE")
	for _, r := range rows {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\n", r.Strategy, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", r.Strategy, r.Signals, r.Trades,
			decimal.NewFromFloat(r.WinRate).StringFixed(1), money(r.FinalBalance))
	}
	return tw.Flush()
}
