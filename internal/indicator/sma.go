package indicator

import "math"

// SMA calculates the Simple Moving Average over a trailing window.
// Undefined until period values are available.
func SMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}

	// Running sum over the window; NaNs are counted so that a window holding
	// one stays undefined.
	sum := 0.0
	nans := 0
	for i, v := range values {
		if math.IsNaN(v) {
			nans++
		} else {
			sum += v
		}
		if i >= period {
			old := values[i-period]
			if math.IsNaN(old) {
				nans--
			} else {
				sum -= old
			}
		}
		if i >= period-1 && nans == 0 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// StdDev returns the rolling sample standard deviation (n-1 denominator).
func StdDev(values []float64, period int) []float64 {
	return rolling(values, period, func(w []float64) float64 {
		if len(w) < 2 {
			return math.NaN()
		}
		mean := 0.0
		for _, v := range w {
			mean += v
		}
		mean /= float64(len(w))
		ss := 0.0
		for _, v := range w {
			d := v - mean
			ss += d * d
		}
		return math.Sqrt(ss / float64(len(w)-1))
	})
}

// Bands holds Bollinger Band lines.
type Bands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Bollinger computes middle = SMA(period), upper/lower = middle ± k·σ.
func Bollinger(closes []float64, period int, k float64) Bands {
	mid := SMA(closes, period)
	sd := StdDev(closes, period)
	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = mid[i] + k*sd[i]
		lower[i] = mid[i] - k*sd[i]
	}
	return Bands{Middle: mid, Upper: upper, Lower: lower}
}
