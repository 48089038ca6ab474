package indicator

import "math"

// FibRatios are the retracement and extension ratios in ascending order.
var FibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1, 1.272, 1.618}

// FibLevel is one Fibonacci price level.
type FibLevel struct {
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// FibLevels is an ordered set of levels for a start→end move.
type FibLevels []FibLevel

// Fibonacci computes start + direction·ratio·|end−start| for every ratio in
// FibRatios, where direction is the sign of the move. Level 0 is start and
// level 1 is end.
func Fibonacci(start, end float64) FibLevels {
	diff := math.Abs(end - start)
	direction := -1.0
	if end > start {
		direction = 1.0
	}
	levels := make(FibLevels, len(FibRatios))
	for i, r := range FibRatios {
		price := start + direction*r*diff
		switch r {
		case 0:
			price = start
		case 1:
			price = end
		}
		levels[i] = FibLevel{Ratio: r, Price: price}
	}
	return levels
}

// At returns the price for ratio.
func (l FibLevels) At(ratio float64) (float64, bool) {
	for _, lv := range l {
		if lv.Ratio == ratio {
			return lv.Price, true
		}
	}
	return 0, false
}

// RollingFibonacci returns, for each bar, the levels of the move between the
// highest high and the lowest low of the trailing period bars, oriented by
// which extreme came first. Bars before the first full window are nil.
func RollingFibonacci(highs, lows []float64, period int) []FibLevels {
	out := make([]FibLevels, len(highs))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(highs); i++ {
		hi, lo := i-period+1, i-period+1
		for j := hi + 1; j <= i; j++ {
			if highs[j] > highs[hi] {
				hi = j
			}
			if lows[j] < lows[lo] {
				lo = j
			}
		}
		if lo <= hi {
			out[i] = Fibonacci(lows[lo], highs[hi])
		} else {
			out[i] = Fibonacci(highs[hi], lows[lo])
		}
	}
	return out
}
