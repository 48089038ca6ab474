package indicator

// smoothWilder applies Wilder-style smoothing on top of a simple rolling
// mean seed: the first defined value is SMA(period) at position period-1,
// then for i >= period
//
//	avg[i] = (avg[i-1]*(period-1) + values[i]) / period
func smoothWilder(values []float64, period int) []float64 {
	out := SMA(values, period)
	if period <= 0 {
		return out
	}
	p := float64(period)
	for i := period; i < len(values); i++ {
		if !Valid(out[i-1]) || !Valid(values[i]) {
			continue
		}
		out[i] = (out[i-1]*(p-1) + values[i]) / p
	}
	return out
}
