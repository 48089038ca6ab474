package indicator

import "math"

// StochasticResult holds %K and %D.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes %K = 100·(close − lowestLow)/(highestHigh − lowestLow)
// over kPeriod bars and %D = SMA(%K, dPeriod). A flat window (zero range)
// leaves %K undefined.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) StochasticResult {
	hh := RollingMax(highs, kPeriod)
	ll := RollingMin(lows, kPeriod)
	k := undefined(len(closes))
	for i := range closes {
		rng := hh[i] - ll[i]
		if !Valid(rng) || rng == 0 {
			continue
		}
		k[i] = 100 * (closes[i] - ll[i]) / rng
	}
	return StochasticResult{K: k, D: SMA(k, dPeriod)}
}

// TrueRange returns max(high−low, |high−prevClose|, |low−prevClose|).
// The first bar has no previous close and uses high−low.
func TrueRange(highs, lows, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		tr[i] = highs[i] - lows[i]
		if i == 0 {
			continue
		}
		tr[i] = math.Max(tr[i], math.Abs(highs[i]-closes[i-1]))
		tr[i] = math.Max(tr[i], math.Abs(lows[i]-closes[i-1]))
	}
	return tr
}

// ATR is the simple rolling mean of the true range.
func ATR(highs, lows, closes []float64, period int) []float64 {
	return SMA(TrueRange(highs, lows, closes), period)
}
