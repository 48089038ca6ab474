package risk

import "math"

// PositionSize returns the quantity that loses balance·riskPct/100 when the
// stop is hit. A zero stop distance yields 0.
func PositionSize(balance, riskPct, entry, stop float64) float64 {
	dist := math.Abs(entry - stop)
	if dist == 0 {
		return 0
	}
	return balance * riskPct / 100 / dist
}
