package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signals/internal/model"
)

func makeSeries(t *testing.T, closes []float64, fields model.Field) model.Series {
	t.Helper()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			TS:    start.Add(time.Duration(i) * time.Hour),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	s, err := model.NewSeries("TEST", "H1", bars, fields)
	require.NoError(t, err)
	return s
}

func flatCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEngine_SMA20(t *testing.T) {
	engine := NewEngine([]Config{{Type: "SMA", Period: 20}})
	cols, err := engine.Compute(makeSeries(t, flatCloses(25, 100), model.AllFields))
	require.NoError(t, err)
	require.Len(t, cols, 1)

	assert.Equal(t, "SMA_20", cols[0].Name)
	assert.Len(t, cols[0].Values, 25)
	assert.False(t, Valid(cols[0].Values[18]))
	for i := 19; i < 25; i++ {
		assert.InDelta(t, 100.0, cols[0].Values[i], 1e-9)
	}
}

func TestEngine_MultiIndicator(t *testing.T) {
	engine := NewEngine([]Config{
		{Type: "EMA", Period: 9},
		{Type: "BB", Period: 20},
		{Type: "MACD", Period: 12},
		{Type: "STOCH", Period: 14},
	})
	cols, err := engine.Compute(makeSeries(t, flatCloses(40, 50), model.AllFields))
	require.NoError(t, err)

	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"EMA_9",
		"BB_20_MIDDLE", "BB_20_UPPER", "BB_20_LOWER",
		"MACD_12_LINE", "MACD_12_SIGNAL", "MACD_12_HIST",
		"STOCH_14_K", "STOCH_14_D",
	}, names)
}

func TestEngine_ATRRequiresHighLow(t *testing.T) {
	engine := NewEngine([]Config{{Type: "ATR", Period: 14}})
	_, err := engine.Compute(makeSeries(t, flatCloses(20, 10), model.FieldClose))
	assert.ErrorIs(t, err, model.ErrMissingField)
}

func TestEngine_UnknownType(t *testing.T) {
	engine := NewEngine([]Config{{Type: "VWAP", Period: 10}})
	_, err := engine.Compute(makeSeries(t, flatCloses(5, 10), model.AllFields))
	assert.Error(t, err)
}

func TestParseSpecs(t *testing.T) {
	got := ParseSpecs("sma:20, EMA:9,RSI:x,bogus,ATR:14")
	assert.Equal(t, []Config{
		{Type: "SMA", Period: 20},
		{Type: "EMA", Period: 9},
		{Type: "ATR", Period: 14},
	}, got)

	assert.Equal(t, DefaultConfigs(), ParseSpecs("  "))
}

func TestEngine_CloseRequired(t *testing.T) {
	for _, typ := range []string{"SMA", "EMA", "RSI", "BB", "MACD", "DIV"} {
		engine := NewEngine([]Config{{Type: typ, Period: 5}})
		_, err := engine.Compute(makeSeries(t, flatCloses(20, 10), model.FieldHigh|model.FieldLow))
		assert.ErrorIs(t, err, model.ErrMissingField, typ)
	}
}

func TestEngine_PatternColumns(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	engine := NewEngine(ParseSpecs("ICHIMOKU:9,DIV:3,CANDLE"))
	cols, err := engine.Compute(makeSeries(t, closes, model.AllFields))
	require.NoError(t, err)

	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
		assert.Len(t, c.Values, len(closes), c.Name)
	}
	assert.Equal(t, []string{
		"ICHIMOKU_9_TENKAN", "ICHIMOKU_9_KIJUN", "ICHIMOKU_9_SENKOU_A", "ICHIMOKU_9_SENKOU_B", "ICHIMOKU_9_CHIKOU",
		"DIV_3_BULL", "DIV_3_BEAR",
		"CANDLE_DOJI", "CANDLE_HAMMER", "CANDLE_SHOOTING_STAR", "CANDLE_BULL_ENGULF", "CANDLE_BEAR_ENGULF", "CANDLE_PINBAR",
	}, names)

	// Tenkan(9) over highs c+1 and lows c-1 at bar 8: (19+9)/2.
	assert.InDelta(t, 14.0, cols[0].Values[8], 1e-9)
	// Chikou is the close 26 bars later, beyond this series.
	assert.False(t, Valid(cols[4].Values[0]))
	for _, c := range cols[5:] {
		for _, v := range c.Values {
			assert.Contains(t, []float64{0, 1}, v, c.Name)
		}
	}
}

func TestEngine_Candles(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := []model.Bar{
		{TS: start, Open: 10, High: 10.2, Low: 8.8, Close: 9},
		{TS: start.Add(time.Hour), Open: 8.5, High: 10.7, Low: 8.4, Close: 10.5},
	}
	s, err := model.NewSeries("X", "H1", bars, model.AllFields)
	require.NoError(t, err)

	cols, err := NewEngine([]Config{{Type: "CANDLE"}}).Compute(s)
	require.NoError(t, err)
	require.Equal(t, "CANDLE_BULL_ENGULF", cols[3].Name)
	assert.Equal(t, []float64{0, 1}, cols[3].Values)
	assert.Equal(t, []float64{0, 0}, cols[4].Values)

	_, err = NewEngine([]Config{{Type: "CANDLE"}}).Compute(makeSeries(t, []float64{1, 2}, model.FieldClose|model.FieldHigh|model.FieldLow))
	assert.ErrorIs(t, err, model.ErrMissingField)
}

func TestEngine_Fibonacci(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	cols, err := NewEngine([]Config{{Type: "FIB", Period: 5}}).Compute(makeSeries(t, closes, model.AllFields))
	require.NoError(t, err)
	require.Len(t, cols, len(FibRatios))
	assert.Equal(t, "FIB_5_0", cols[0].Name)
	assert.Equal(t, "FIB_5_0.5", cols[3].Name)
	assert.Equal(t, "FIB_5_1.618", cols[8].Name)

	// Window 0..4: lowest low 9 at bar 0, then highest high 15 at bar 4.
	assert.False(t, Valid(cols[3].Values[3]))
	assert.InDelta(t, 9.0, cols[0].Values[4], 1e-9)
	assert.InDelta(t, 12.0, cols[3].Values[4], 1e-9)
	assert.InDelta(t, 15.0, cols[6].Values[4], 1e-9)
}

func TestRollingFibonacci_DownMove(t *testing.T) {
	highs := []float64{20, 18, 16}
	lows := []float64{19, 17, 10}
	levels := RollingFibonacci(highs, lows, 3)
	assert.Nil(t, levels[1])
	start, _ := levels[2].At(0)
	end, _ := levels[2].At(1)
	assert.Equal(t, 20.0, start)
	assert.Equal(t, 10.0, end)
}

func TestEngine_SupportResistance(t *testing.T) {
	closes := []float64{10, 9, 8, 7, 6, 5, 6, 7, 8, 9, 10}
	cols, err := NewEngine(ParseSpecs("SR:3")).Compute(makeSeries(t, closes, model.AllFields))
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "SR_3_SUPPORT", cols[0].Name)
	assert.Equal(t, "SR_3_RESISTANCE", cols[1].Name)

	assert.Equal(t, 4.0, cols[0].Values[5])
	for i, v := range cols[0].Values {
		if i != 5 {
			assert.False(t, Valid(v), "support at %d", i)
		}
	}
	for _, v := range cols[1].Values {
		assert.False(t, Valid(v))
	}
}

func TestParseSpecs_Periodless(t *testing.T) {
	got := ParseSpecs("candle, FIB:50, SMA")
	assert.Equal(t, []Config{{Type: "CANDLE"}, {Type: "FIB", Period: 50}}, got)
	assert.Equal(t, "CANDLE", got[0].Name())
	assert.Contains(t, Types(), "ICHIMOKU")
}
