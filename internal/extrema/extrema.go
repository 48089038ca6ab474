// Package extrema finds swing points in a price sequence and matches
// five-point swing windows against harmonic ratio templates.
package extrema

import "sort"

// Kind distinguishes swing highs from swing lows.
type Kind int8

const (
	SwingLow  Kind = -1
	SwingHigh Kind = 1
)

func (k Kind) String() string {
	if k == SwingHigh {
		return "high"
	}
	return "low"
}

// Point is a swing point at a bar position. It is only meaningful relative
// to the series it was derived from.
type Point struct {
	Index int     `json:"index"`
	Price float64 `json:"price"`
	Kind  Kind    `json:"kind"`
}

// FindExtrema returns the swing highs and lows of values. Position i is a
// high when values[i] is strictly greater than every value within window
// positions on both sides, and a low for the strict mirror. Positions
// without a full window on both sides are never eligible. A window below 1
// is treated as 1.
func FindExtrema(values []float64, window int) (highs, lows []Point) {
	if window < 1 {
		window = 1
	}
	for i := window; i < len(values)-window; i++ {
		v := values[i]
		isHigh, isLow := true, true
		for j := 1; j <= window && (isHigh || isLow); j++ {
			l, r := values[i-j], values[i+j]
			if !(v > l && v > r) {
				isHigh = false
			}
			if !(v < l && v < r) {
				isLow = false
			}
		}
		switch {
		case isHigh:
			highs = append(highs, Point{Index: i, Price: v, Kind: SwingHigh})
		case isLow:
			lows = append(lows, Point{Index: i, Price: v, Kind: SwingLow})
		}
	}
	return highs, lows
}

// Merge combines highs and lows into one list ordered by position. Points
// sharing a position keep highs before lows.
func Merge(highs, lows []Point) []Point {
	all := make([]Point, 0, len(highs)+len(lows))
	all = append(all, highs...)
	all = append(all, lows...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all
}
