package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Direction is the side of a signal or trade.
type Direction int8

const (
	Buy  Direction = 1
	Sell Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "none"
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "buy", "BUY":
		*d = Buy
	case "sell", "SELL":
		*d = Sell
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// Signal is a directional record emitted by a strategy at a bar position.
type Signal struct {
	Strategy  string             `json:"strategy"`
	TS        time.Time          `json:"ts"`
	Index     int                `json:"index"`
	Price     float64            `json:"price"`
	Direction Direction          `json:"direction"`
	Pattern   string             `json:"pattern,omitempty"`
	Values    map[string]float64 `json:"values,omitempty"`
}

// EnrichedSignal is a Signal with ATR-based exit levels attached.
type EnrichedSignal struct {
	Signal
	ATR        float64 `json:"atr"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	RiskReward float64 `json:"risk_reward"`
}

// Outcome labels a simulated trade.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeOpen Outcome = "open" // neither stop nor target reached
)

// TradeResult is one step of a trade simulation. Balance is the running
// balance after Result has been applied.
type TradeResult struct {
	TS           time.Time `json:"ts"`
	Direction    Direction `json:"direction"`
	Entry        float64   `json:"entry"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit   float64   `json:"take_profit"`
	PositionSize float64   `json:"position_size"`
	Risk         float64   `json:"risk"`
	Reward       float64   `json:"reward"`
	Result       float64   `json:"result"`
	Outcome      Outcome   `json:"outcome"`
	Balance      float64   `json:"balance"`
}

// Ratio is a float that may legitimately be infinite (e.g. a profit factor
// with no losing trades). It marshals non-finite values as strings.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(f):
		return []byte(`"nan"`), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch s {
		case "inf":
			*r = Ratio(math.Inf(1))
		case "-inf":
			*r = Ratio(math.Inf(-1))
		default:
			*r = Ratio(math.NaN())
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// Metrics aggregates a completed trade simulation.
type Metrics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	ProfitFactor  Ratio   `json:"profit_factor"`
	PayoffRatio   Ratio   `json:"payoff_ratio"`
	TotalPnL      float64 `json:"total_pnl"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	FinalBalance  float64 `json:"final_balance"`
	ReturnPct     float64 `json:"return_pct"`
}

// Run is the complete output of evaluating one strategy on one series.
type Run struct {
	ID           string           `json:"id"`
	Symbol       string           `json:"symbol"`
	Timeframe    string           `json:"timeframe"`
	Strategy     string           `json:"strategy"`
	Bars         int              `json:"bars"`
	Signals      []EnrichedSignal `json:"signals"`
	Dropped      int              `json:"dropped"` // signals without a usable ATR
	Trades       []TradeResult    `json:"trades"`
	FinalBalance float64          `json:"final_balance"`
	Metrics      Metrics          `json:"metrics"`
}
