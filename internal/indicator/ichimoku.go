package indicator

// IchimokuResult holds the five Ichimoku lines, all aligned to the input.
type IchimokuResult struct {
	Tenkan  []float64
	Kijun   []float64
	SenkouA []float64
	SenkouB []float64
	Chikou  []float64
}

// Ichimoku computes the cloud lines.
//
// Senkou A and B are plotted displacement bars ahead, so the value at i was
// computed from bar i−displacement. Chikou at i is the close of bar
// i+displacement. Shifted edges are undefined.
func Ichimoku(highs, lows, closes []float64, tenkanP, kijunP, senkouBP, displacement int) IchimokuResult {
	tenkan := midpoint(RollingMax(highs, tenkanP), RollingMin(lows, tenkanP))
	kijun := midpoint(RollingMax(highs, kijunP), RollingMin(lows, kijunP))
	spanB := midpoint(RollingMax(highs, senkouBP), RollingMin(lows, senkouBP))

	return IchimokuResult{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: shift(midpoint(tenkan, kijun), displacement),
		SenkouB: shift(spanB, displacement),
		Chikou:  shift(closes, -displacement),
	}
}
