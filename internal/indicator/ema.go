package indicator

// EMA calculates the Exponential Moving Average with multiplier 2/(period+1).
// The average is seeded with the first defined value and is defined from that
// position onward; there is no warm-up gap.
func EMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	multiplier := 2.0 / float64(period+1)

	seeded := false
	current := 0.0
	for i, v := range values {
		if !Valid(v) {
			continue
		}
		if !seeded {
			current = v
			seeded = true
		} else {
			// EMA = (Price * multiplier) + (EMA_prev * (1 - multiplier))
			current = (v * multiplier) + (current * (1 - multiplier))
		}
		out[i] = current
	}
	return out
}

// MACDResult holds the three MACD lines.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast) - EMA(slow), its EMA(signal) and the difference.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig := EMA(line, signal)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}
