package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"trading-signals/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *model.Run {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &model.Run{
		ID: "run-1", Symbol: "EURUSD", Timeframe: "H1", Strategy: "harmonic", Bars: 500,
		Signals: []model.EnrichedSignal{{
			Signal:     model.Signal{Strategy: "harmonic", TS: ts, Index: 40, Price: 1.1, Direction: model.Buy, Pattern: "Gartley"},
			ATR:        0.01,
			StopLoss:   1.085,
			TakeProfit: 1.13,
			RiskReward: 2,
		}},
		Dropped: 2,
		Trades: []model.TradeResult{{
			TS: ts, Direction: model.Buy, Entry: 1.1, StopLoss: 1.085, TakeProfit: 1.13,
			PositionSize: 6666.6667, Risk: 100, Reward: 200, Result: 200, Outcome: model.OutcomeWin, Balance: 10200,
		}},
		FinalBalance: 10200,
		Metrics: model.Metrics{
			TotalTrades: 1, WinningTrades: 1, WinRate: 100, AvgWin: 200,
			ProfitFactor: model.Ratio(math.Inf(1)), PayoffRatio: model.Ratio(math.Inf(1)),
			TotalPnL: 200, FinalBalance: 10200, ReturnPct: 2,
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleRun()))
	out := buf.String()

	assert.Contains(t, out, "EURUSD H1 (500 bars)")
	assert.Contains(t, out, "1 (2 dropped without ATR)")
	assert.Contains(t, out, "2024-03-01 10:00")
	assert.Contains(t, out, "1.08500")
	assert.Contains(t, out, "Gartley")
	assert.Contains(t, out, "10200.00 (2.00%)")
	assert.Regexp(t, `Profit factor +inf`, out)
}

func TestWriteText_NoSignals(t *testing.T) {
	var buf bytes.Buffer
	run := &model.Run{ID: "r", Symbol: "X", Timeframe: "D1", Strategy: "ichimoku", FinalBalance: 10000}
	require.NoError(t, WriteText(&buf, run))
	assert.NotContains(t, buf.String(), "PATTERN")
	assert.Regexp(t, `Trades +0 \(won 0, lost 0\)`, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRun()))

	var got model.Run
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "harmonic", got.Strategy)
	require.Len(t, got.Signals, 1)
	assert.Equal(t, model.Buy, got.Signals[0].Direction)
	assert.True(t, math.IsInf(float64(got.Metrics.ProfitFactor), 1))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, []Summary{
		{Strategy: "rsi_ema", Signals: 4, Trades: 4, WinRate: 75, FinalBalance: 10150.5},
		{Strategy: "time_breakout", Err: errors.New("required field absent: volume")},
	}))
	out := buf.String()
	assert.Contains(t, out, "75.0")
	assert.Contains(t, out, "10150.50")
	assert.Contains(t, out, "error: required field absent: volume")
}

func TestMoney_Rounding(t *testing.T) {
	assert.Equal(t, "0.13", money(0.125))
	assert.Equal(t, "-1.50", money(-1.5))
	assert.Equal(t, "n/a", ratio(model.Ratio(math.NaN())))
}
