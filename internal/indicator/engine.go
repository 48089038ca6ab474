package indicator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"trading-signals/internal/model"
)

const (
	// divergenceRSIPeriod is the oscillator used by DIV columns.
	divergenceRSIPeriod = 14
	// srThreshold is the minimum relative distance of a support/resistance
	// bar from the neighbouring extremes.
	srThreshold = 0.01
)

// Config specifies a single indicator to compute.
type Config struct {
	Type   string // see required for the supported types
	Period int    // 0 for types without a length, such as CANDLE
}

// Name returns the column prefix, e.g. "EMA_50" or "CANDLE".
func (c Config) Name() string {
	if c.Period == 0 {
		return c.Type
	}
	return c.Type + "_" + strconv.Itoa(c.Period)
}

// required lists the bar fields each indicator type reads.
var required = map[string]model.Field{
	"SMA":      model.FieldClose,
	"EMA":      model.FieldClose,
	"RSI":      model.FieldClose,
	"BB":       model.FieldClose,
	"MACD":     model.FieldClose,
	"DIV":      model.FieldClose,
	"ATR":      model.FieldHigh | model.FieldLow | model.FieldClose,
	"STOCH":    model.FieldHigh | model.FieldLow | model.FieldClose,
	"ICHIMOKU": model.FieldHigh | model.FieldLow | model.FieldClose,
	"FIB":      model.FieldHigh | model.FieldLow,
	"SR":       model.FieldHigh | model.FieldLow,
	"CANDLE":   model.FieldOpen | model.FieldHigh | model.FieldLow | model.FieldClose,
}

// periodless types take no ":PERIOD" suffix.
var periodless = map[string]bool{"CANDLE": true}

// Types returns the supported indicator types in alphabetical order.
func Types() []string {
	types := make([]string, 0, len(required))
	for t := range required {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Column is a named indicator series aligned with the bars. Flag columns
// hold 1 where the flag is set and 0 elsewhere.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// DefaultConfigs is the column set used when no spec is given.
func DefaultConfigs() []Config {
	return []Config{
		{Type: "SMA", Period: 20},
		{Type: "SMA", Period: 50},
		{Type: "EMA", Period: 9},
		{Type: "EMA", Period: 21},
		{Type: "RSI", Period: 14},
		{Type: "ATR", Period: 14},
	}
}

// ParseSpecs parses "TYPE:PERIOD,..." into configs. Period-less types such
// as CANDLE are written bare. Malformed entries are skipped; an empty
// string yields DefaultConfigs.
func ParseSpecs(s string) []Config {
	if strings.TrimSpace(s) == "" {
		return DefaultConfigs()
	}
	var configs []Config
	for _, part := range strings.Split(s, ",") {
		tokens := strings.SplitN(strings.TrimSpace(part), ":", 2)
		typ := strings.ToUpper(strings.TrimSpace(tokens[0]))
		if len(tokens) == 1 {
			if periodless[typ] {
				configs = append(configs, Config{Type: typ})
			}
			continue
		}
		period, err := strconv.Atoi(strings.TrimSpace(tokens[1]))
		if err != nil || period <= 0 {
			continue
		}
		configs = append(configs, Config{Type: typ, Period: period})
	}
	return configs
}

// Engine computes a configured set of indicator columns over a series.
// It holds no per-series state and is safe for concurrent use.
type Engine struct {
	configs []Config
}

// NewEngine creates an indicator engine for the given configs.
func NewEngine(configs []Config) *Engine {
	return &Engine{configs: configs}
}

// Compute returns one or more columns per config, in config order.
func (e *Engine) Compute(s model.Series) ([]Column, error) {
	var cols []Column
	for _, cfg := range e.configs {
		name := cfg.Name()
		fields, ok := required[cfg.Type]
		if !ok {
			return nil, fmt.Errorf("unknown indicator type %q", cfg.Type)
		}
		if err := s.Require(fields); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		closes := s.Closes()
		switch cfg.Type {
		case "SMA":
			cols = append(cols, Column{name, SMA(closes, cfg.Period)})
		case "EMA":
			cols = append(cols, Column{name, EMA(closes, cfg.Period)})
		case "RSI":
			cols = append(cols, Column{name, RSI(closes, cfg.Period)})
		case "ATR":
			cols = append(cols, Column{name, ATR(s.Highs(), s.Lows(), closes, cfg.Period)})
		case "BB":
			b := Bollinger(closes, cfg.Period, 2)
			cols = append(cols,
				Column{name + "_MIDDLE", b.Middle},
				Column{name + "_UPPER", b.Upper},
				Column{name + "_LOWER", b.Lower})
		case "MACD":
			// Period is the fast length; slow and signal keep the classic 26/9.
			m := MACD(closes, cfg.Period, 26, 9)
			cols = append(cols,
				Column{name + "_LINE", m.Line},
				Column{name + "_SIGNAL", m.Signal},
				Column{name + "_HIST", m.Histogram})
		case "STOCH":
			st := Stochastic(s.Highs(), s.Lows(), closes, cfg.Period, 3)
			cols = append(cols, Column{name + "_K", st.K}, Column{name + "_D", st.D})
		case "ICHIMOKU":
			// Period is the Tenkan length; Kijun, Senkou B and the
			// displacement keep the classic 26/52/26.
			ich := Ichimoku(s.Highs(), s.Lows(), closes, cfg.Period, 26, 52, 26)
			cols = append(cols,
				Column{name + "_TENKAN", ich.Tenkan},
				Column{name + "_KIJUN", ich.Kijun},
				Column{name + "_SENKOU_A", ich.SenkouA},
				Column{name + "_SENKOU_B", ich.SenkouB},
				Column{name + "_CHIKOU", ich.Chikou})
		case "FIB":
			cols = append(cols, fibColumns(name, RollingFibonacci(s.Highs(), s.Lows(), cfg.Period))...)
		case "DIV":
			bull, bear := Divergence(closes, RSI(closes, divergenceRSIPeriod), cfg.Period)
			cols = append(cols, Column{name + "_BULL", flags(bull)}, Column{name + "_BEAR", flags(bear)})
		case "CANDLE":
			f := Candlesticks(s.Opens(), s.Highs(), s.Lows(), closes)
			cols = append(cols,
				Column{name + "_DOJI", flags(f.Doji)},
				Column{name + "_HAMMER", flags(f.Hammer)},
				Column{name + "_SHOOTING_STAR", flags(f.ShootingStar)},
				Column{name + "_BULL_ENGULF", flags(f.BullishEngulfing)},
				Column{name + "_BEAR_ENGULF", flags(f.BearishEngulfing)},
				Column{name + "_PINBAR", flags(f.Pinbar)})
		case "SR":
			support, resistance := undefined(s.Len()), undefined(s.Len())
			for _, lv := range SupportResistance(s.Highs(), s.Lows(), cfg.Period, srThreshold) {
				if lv.Resistance {
					resistance[lv.Index] = lv.Price
				} else {
					support[lv.Index] = lv.Price
				}
			}
			cols = append(cols, Column{name + "_SUPPORT", support}, Column{name + "_RESISTANCE", resistance})
		}
	}
	return cols, nil
}

// fibColumns turns per-bar level sets into one column per ratio, named
// like FIB_50_0.618.
func fibColumns(name string, levels []FibLevels) []Column {
	cols := make([]Column, len(FibRatios))
	for k, r := range FibRatios {
		cols[k] = Column{Name: name + "_" + strconv.FormatFloat(r, 'f', -1, 64), Values: undefined(len(levels))}
	}
	for i, lv := range levels {
		for k := range lv {
			cols[k].Values[i] = lv[k].Price
		}
	}
	return cols
}

func flags(b []bool) []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return out
}
