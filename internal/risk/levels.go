// Package risk attaches ATR-based exit levels to signals, sizes positions
// from account risk, simulates trade outcomes and aggregates performance.
package risk

import (
	"errors"
	"fmt"
	"sort"

	"trading-signals/internal/indicator"
	"trading-signals/internal/model"
)

const (
	// ATRPeriod is the volatility window used for stop distances.
	ATRPeriod = 14
	// StopATRMultiple scales ATR into the stop distance.
	StopATRMultiple = 1.5
)

// ErrInvalidRiskRatio is returned for a non-positive reward:risk ratio.
var ErrInvalidRiskRatio = errors.New("risk ratio must be > 0")

// AttachRiskLevels enriches signals with stop-loss and take-profit levels.
//
// The ATR is taken at the last bar at or before each signal's timestamp.
// stop = price ∓ 1.5·ATR and target = price ± riskRatio·1.5·ATR, on the loss
// and profit side of the entry for the signal's direction. Signals with no
// usable ATR (warm-up, or before the first bar) are dropped and counted.
// The output is ordered by timestamp. An empty input is a no-op.
func AttachRiskLevels(signals []model.Signal, series model.Series, riskRatio float64) ([]model.EnrichedSignal, int, error) {
	if len(signals) == 0 {
		return nil, 0, nil
	}
	if !(riskRatio > 0) {
		return nil, 0, fmt.Errorf("%w: got %v", ErrInvalidRiskRatio, riskRatio)
	}
	if err := series.Require(model.FieldHigh | model.FieldLow | model.FieldClose); err != nil {
		return nil, 0, fmt.Errorf("attach risk levels: %w", err)
	}
	atr := indicator.ATR(series.Highs(), series.Lows(), series.Closes(), ATRPeriod)

	sorted := make([]model.Signal, len(signals))
	copy(sorted, signals)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	out := make([]model.EnrichedSignal, 0, len(sorted))
	dropped := 0
	for _, sig := range sorted {
		idx := series.IndexAtOrBefore(sig.TS)
		if idx < 0 || !indicator.Valid(atr[idx]) || atr[idx] <= 0 {
			dropped++
			continue
		}
		a := atr[idx]
		dist := StopATRMultiple * a
		side := float64(sig.Direction)
		out = append(out, model.EnrichedSignal{
			Signal:     sig,
			ATR:        a,
			StopLoss:   sig.Price - side*dist,
			TakeProfit: sig.Price + side*riskRatio*dist,
			RiskReward: riskRatio,
		})
	}
	return out, dropped, nil
}
