package indicator

// RSI calculates the Relative Strength Index.
//
// Gains and losses are seeded with a simple rolling mean and then smoothed
// Wilder-style. The first delta is treated as zero gain and zero loss, so the
// first defined value sits at position period-1. When the average loss is
// zero RSI is 100.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else if delta < 0 {
			losses[i] = -delta
		}
	}

	avgGain := smoothWilder(gains, period)
	avgLoss := smoothWilder(losses, period)

	out := undefined(n)
	for i := range out {
		if !Valid(avgGain[i]) || !Valid(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100.0 - (100.0 / (1.0 + rs))
	}
	return out
}
