package config

import (
	"os"
	"path/filepath"
	"testing"

	"trading-signals/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SIGNALS_DB_PATH", "REDIS_ADDR", "METRICS_ADDR", "LOG_LEVEL", "INITIAL_BALANCE", "RISK_PCT", "RISK_RATIO", "SIM_SEED", "SIGNALS_STRATEGIES"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "data/bars.db", c.DBPath)
	assert.Empty(t, c.RedisAddr)
	assert.Empty(t, c.MetricsAddr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10000.0, c.InitialBalance)
	assert.Equal(t, 1.0, c.RiskPct)
	assert.Equal(t, 2.0, c.RiskRatio)
	assert.Equal(t, int64(0), c.SimSeed)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("INITIAL_BALANCE", "5000")
	t.Setenv("RISK_RATIO", "not-a-number")
	t.Setenv("SIM_SEED", "42")

	c := Load()
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, 5000.0, c.InitialBalance)
	assert.Equal(t, 2.0, c.RiskRatio, "invalid values fall back to the default")
	assert.Equal(t, int64(42), c.SimSeed)
}

func TestParseStrategies(t *testing.T) {
	c := &Config{}
	assert.Equal(t, strategy.IDs(), c.ParseStrategies())

	c.Strategies = "ichimoku, bogus,rsi_ema,ichimoku"
	assert.Equal(t, []strategy.ID{strategy.Ichimoku, strategy.RSIEMA}, c.ParseStrategies())
}

func TestDecodeParams_Overrides(t *testing.T) {
	p, err := DecodeParams([]byte(`
rsi_ema:
  rsi_buy: 35
time_breakout:
  range_start: "08:00"
`))
	require.NoError(t, err)

	def := strategy.DefaultParams()
	assert.Equal(t, 35.0, p.RSIEMA.BuyLevel)
	assert.Equal(t, def.RSIEMA.RSIPeriod, p.RSIEMA.RSIPeriod, "unset keys keep defaults")
	assert.Equal(t, "08:00", p.TimeBreakout.RangeStart)
	assert.Equal(t, def.TimeBreakout.RangeEnd, p.TimeBreakout.RangeEnd)
	assert.Equal(t, def.Ichimoku, p.Ichimoku)
}

func TestDecodeParams_UnknownKey(t *testing.T) {
	_, err := DecodeParams([]byte("rsi_ema:\n  rsi_bye: 35\n"))
	assert.Error(t, err)
}

func TestLoadParams(t *testing.T) {
	p, err := LoadParams("")
	require.NoError(t, err)
	assert.Equal(t, strategy.DefaultParams(), p)

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ichimoku:\n  displacement: 30\n"), 0o644))
	p, err = LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Ichimoku.Displacement)

	_, err = LoadParams(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
