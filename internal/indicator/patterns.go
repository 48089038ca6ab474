package indicator

// Divergence flags bars where price and an oscillator moved in opposite
// directions over the trailing window: bullish when price fell while the
// oscillator rose, bearish for the mirror.
func Divergence(price, osc []float64, window int) (bullish, bearish []bool) {
	n := len(price)
	bullish = make([]bool, n)
	bearish = make([]bool, n)
	if window <= 0 {
		return bullish, bearish
	}
	for i := window; i < n; i++ {
		dp := price[i] - price[i-window]
		do := osc[i] - osc[i-window]
		bullish[i] = dp < 0 && do > 0
		bearish[i] = dp > 0 && do < 0
	}
	return bullish, bearish
}

// CandleFlags are per-bar candlestick pattern flags.
type CandleFlags struct {
	Doji             []bool
	Hammer           []bool
	ShootingStar     []bool
	BullishEngulfing []bool
	BearishEngulfing []bool
	Pinbar           []bool
}

// Candlesticks classifies each bar by comparing body and shadow sizes with
// the mean body size of the whole series.
func Candlesticks(opens, highs, lows, closes []float64) CandleFlags {
	n := len(closes)
	f := CandleFlags{
		Doji:             make([]bool, n),
		Hammer:           make([]bool, n),
		ShootingStar:     make([]bool, n),
		BullishEngulfing: make([]bool, n),
		BearishEngulfing: make([]bool, n),
		Pinbar:           make([]bool, n),
	}
	if n == 0 {
		return f
	}

	body := make([]float64, n)
	upper := make([]float64, n)
	lower := make([]float64, n)
	avgBody := 0.0
	for i := 0; i < n; i++ {
		o, c := opens[i], closes[i]
		top, bottom := o, c
		if c > o {
			top, bottom = c, o
		}
		body[i] = top - bottom
		upper[i] = highs[i] - top
		lower[i] = bottom - lows[i]
		avgBody += body[i]
	}
	avgBody /= float64(n)

	for i := 0; i < n; i++ {
		small := body[i] < 0.5*avgBody
		f.Doji[i] = body[i] < 0.1*avgBody
		f.Hammer[i] = small && lower[i] > 2*body[i] && upper[i] < 0.5*body[i]
		f.ShootingStar[i] = small && upper[i] > 2*body[i] && lower[i] < 0.5*body[i]
		f.Pinbar[i] = upper[i] > 2*body[i] || lower[i] > 2*body[i]
		if i == 0 {
			continue
		}
		po, pc := opens[i-1], closes[i-1]
		o, c := opens[i], closes[i]
		f.BullishEngulfing[i] = pc < po && c > o && o < pc && c > po
		f.BearishEngulfing[i] = pc > po && c < o && o > pc && c < po
	}
	return f
}

// Level is a support or resistance price at a bar position.
type Level struct {
	Index      int     `json:"index"`
	Price      float64 `json:"price"`
	Resistance bool    `json:"resistance"`
}

// SupportResistance finds bars whose low (high) is below (above) the
// extremes of window bars on both sides by more than threshold, a fraction
// of the bar's price.
func SupportResistance(highs, lows []float64, window int, threshold float64) []Level {
	var levels []Level
	for i := window; i < len(lows)-window; i++ {
		minLeft, minRight := lows[i-window], lows[i+1]
		maxLeft, maxRight := highs[i-window], highs[i+1]
		for j := 1; j <= window; j++ {
			minLeft = min(minLeft, lows[i-j])
			minRight = min(minRight, lows[i+j])
			maxLeft = max(maxLeft, highs[i-j])
			maxRight = max(maxRight, highs[i+j])
		}

		switch {
		case minLeft > lows[i] && lows[i] < minRight && lows[i] != 0 && (minLeft-lows[i])/lows[i] > threshold:
			levels = append(levels, Level{Index: i, Price: lows[i]})
		case maxLeft < highs[i] && highs[i] > maxRight && highs[i] != 0 && (highs[i]-maxLeft)/highs[i] > threshold:
			levels = append(levels, Level{Index: i, Price: highs[i], Resistance: true})
		}
	}
	return levels
}
