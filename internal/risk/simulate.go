package risk

import (
	"math/rand"
	"sort"
	"time"

	"trading-signals/internal/model"
)

// OutcomeModel decides whether a trade reached its target or its stop.
type OutcomeModel interface {
	Resolve(sig model.EnrichedSignal) model.Outcome
}

// DefaultWinProb is the CoinFlip win probability.
const DefaultWinProb = 0.6

// CoinFlip resolves every trade with an independent Bernoulli draw. It is a
// placeholder model: it never looks at the bars after the signal.
type CoinFlip struct {
	WinProb float64
	Rand    *rand.Rand
}

// NewCoinFlip returns a CoinFlip with DefaultWinProb. A zero seed uses the
// current time.
func NewCoinFlip(seed int64) *CoinFlip {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &CoinFlip{WinProb: DefaultWinProb, Rand: rand.New(rand.NewSource(seed))}
}

func (c *CoinFlip) Resolve(model.EnrichedSignal) model.Outcome {
	if c.Rand.Float64() < c.WinProb {
		return model.OutcomeWin
	}
	return model.OutcomeLoss
}

// BarScan resolves a trade by walking the bars after the signal until the
// stop or the target is touched. When one bar touches both, the stop wins.
// A trade that is never resolved is open.
type BarScan struct {
	Series model.Series
}

func (b BarScan) Resolve(sig model.EnrichedSignal) model.Outcome {
	start := b.Series.IndexAtOrBefore(sig.TS)
	for i := start + 1; i < b.Series.Len(); i++ {
		bar := b.Series.Bar(i)
		switch sig.Direction {
		case model.Buy:
			if bar.Low <= sig.StopLoss {
				return model.OutcomeLoss
			}
			if bar.High >= sig.TakeProfit {
				return model.OutcomeWin
			}
		case model.Sell:
			if bar.High >= sig.StopLoss {
				return model.OutcomeLoss
			}
			if bar.Low <= sig.TakeProfit {
				return model.OutcomeWin
			}
		}
	}
	return model.OutcomeOpen
}

// Simulate walks the signals in timestamp order, sizing each trade from the
// running balance and applying exactly one result per signal. It returns one
// TradeResult per signal and the final balance.
func Simulate(signals []model.EnrichedSignal, initialBalance, riskPct float64, outcomes OutcomeModel) ([]model.TradeResult, float64) {
	if len(signals) == 0 {
		return nil, initialBalance
	}
	if outcomes == nil {
		outcomes = NewCoinFlip(0)
	}
	sorted := make([]model.EnrichedSignal, len(signals))
	copy(sorted, signals)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	balance := initialBalance
	results := make([]model.TradeResult, 0, len(sorted))
	for _, sig := range sorted {
		size := PositionSize(balance, riskPct, sig.Price, sig.StopLoss)
		side := float64(sig.Direction)
		risk := side * (sig.Price - sig.StopLoss) * size
		reward := side * (sig.TakeProfit - sig.Price) * size

		outcome := outcomes.Resolve(sig)
		result := 0.0
		switch outcome {
		case model.OutcomeWin:
			result = reward
		case model.OutcomeLoss:
			result = -risk
		}
		balance += result

		results = append(results, model.TradeResult{
			TS:           sig.TS,
			Direction:    sig.Direction,
			Entry:        sig.Price,
			StopLoss:     sig.StopLoss,
			TakeProfit:   sig.TakeProfit,
			PositionSize: size,
			Risk:         risk,
			Reward:       reward,
			Result:       result,
			Outcome:      outcome,
			Balance:      balance,
		})
	}
	return results, balance
}
