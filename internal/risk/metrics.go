package risk

import (
	"math"

	"trading-signals/internal/model"
)

// annualization is the number of periods the Sharpe-like ratio is scaled to.
const annualization = 252

// ComputeMetrics aggregates a completed simulation. Zero trades yield a
// zero-valued Metrics.
//
// Profit factor is gross profit over gross loss, +Inf when there are wins
// and no losses. Max drawdown is the largest (peak−balance)/peak·100 over
// the balance curve. The Sharpe-like ratio is mean/stddev of per-trade
// returns (result / balance before the trade) scaled by √252, 0 when the
// deviation is 0 or there are fewer than two returns.
func ComputeMetrics(results []model.TradeResult) model.Metrics {
	if len(results) == 0 {
		return model.Metrics{}
	}
	var m model.Metrics
	m.TotalTrades = len(results)

	var grossWin, grossLoss float64
	for _, r := range results {
		switch {
		case r.Result > 0:
			m.WinningTrades++
			grossWin += r.Result
		case r.Result < 0:
			m.LosingTrades++
			grossLoss += r.Result
		}
		m.TotalPnL += r.Result
	}
	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	if m.WinningTrades > 0 {
		m.AvgWin = grossWin / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = grossLoss / float64(m.LosingTrades)
	}

	switch {
	case grossLoss != 0:
		m.ProfitFactor = model.Ratio(grossWin / math.Abs(grossLoss))
	case grossWin > 0:
		m.ProfitFactor = model.Ratio(math.Inf(1))
	}
	switch {
	case m.AvgLoss != 0:
		m.PayoffRatio = model.Ratio(math.Abs(m.AvgWin / m.AvgLoss))
	case m.AvgWin > 0:
		m.PayoffRatio = model.Ratio(math.Inf(1))
	}

	m.MaxDrawdown = maxDrawdown(results)
	m.SharpeRatio = sharpe(results)

	initial := results[0].Balance - results[0].Result
	m.FinalBalance = results[len(results)-1].Balance
	if initial != 0 {
		m.ReturnPct = (m.FinalBalance - initial) / initial * 100
	}
	return m
}

func maxDrawdown(results []model.TradeResult) float64 {
	peak := results[0].Balance
	worst := 0.0
	for _, r := range results {
		if r.Balance > peak {
			peak = r.Balance
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - r.Balance) / peak * 100; dd > worst {
			worst = dd
		}
	}
	return worst
}

func sharpe(results []model.TradeResult) float64 {
	returns := make([]float64, 0, len(results))
	for _, r := range results {
		prior := r.Balance - r.Result
		if prior == 0 {
			continue
		}
		returns = append(returns, r.Result/prior)
	}
	if len(returns) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range returns {
		mean += v
	}
	mean /= float64(len(returns))
	ss := 0.0
	for _, v := range returns {
		ss += (v - mean) * (v - mean)
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(annualization)
}
