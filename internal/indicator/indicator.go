// Package indicator provides technical indicator calculations over bar data.
//
// Every function is a pure transform: it takes one or more bar-aligned
// float64 columns and returns new columns of the same length. Positions
// without enough history hold NaN ("no value"); any comparison involving
// NaN is false, so a condition can never fire on incomplete data.
package indicator

import "math"

// Valid reports whether v is a defined indicator value.
func Valid(v float64) bool { return !math.IsNaN(v) }

// undefined returns a slice of n NaN values.
func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// shift moves values k positions later (k > 0) or earlier (k < 0),
// leaving NaN where the shifted series has no source value.
func shift(values []float64, k int) []float64 {
	out := undefined(len(values))
	for i := range out {
		j := i - k
		if j >= 0 && j < len(values) {
			out[i] = values[j]
		}
	}
	return out
}

// rolling applies fn to every full trailing window of length period.
// Windows containing NaN yield NaN.
func rolling(values []float64, period int, fn func(window []float64) float64) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		ok := true
		for _, v := range window {
			if math.IsNaN(v) {
				ok = false
				break
			}
		}
		if ok {
			out[i] = fn(window)
		}
	}
	return out
}

// RollingMax and RollingMin return the trailing-window extremes.
func RollingMax(values []float64, period int) []float64 {
	return rolling(values, period, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			if v > m {
				m = v
			}
		}
		return m
	})
}

func RollingMin(values []float64, period int) []float64 {
	return rolling(values, period, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			if v < m {
				m = v
			}
		}
		return m
	})
}

// midpoint returns (a+b)/2 element-wise.
func midpoint(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = (a[i] + b[i]) / 2
	}
	return out
}
