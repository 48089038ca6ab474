package config

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"trading-signals/internal/strategy"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Infrastructure
	DBPath        string
	RedisAddr     string // empty disables publishing
	RedisPassword string
	RedisDB       int
	MetricsAddr   string // empty disables the metrics server
	LogLevel      string

	// Alerts, each disabled when empty
	WebhookURL       string
	TelegramBotToken string
	TelegramChatID   string
	AlertDrawdownPct float64

	// Simulation
	InitialBalance float64
	RiskPct        float64
	RiskRatio      float64
	SimSeed        int64 // 0 seeds from the clock

	// Comma-separated strategy keys, e.g. "rsi_ema,ichimoku". Empty means all.
	Strategies string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		DBPath:        getEnv("SIGNALS_DB_PATH", "data/bars.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		WebhookURL:       getEnv("ALERT_WEBHOOK_URL", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		AlertDrawdownPct: getFloat("ALERT_DRAWDOWN_PCT", 10),

		InitialBalance: getFloat("INITIAL_BALANCE", 10000),
		RiskPct:        getFloat("RISK_PCT", 1),
		RiskRatio:      getFloat("RISK_RATIO", 2),
		SimSeed:        int64(getInt("SIM_SEED", 0)),

		Strategies: getEnv("SIGNALS_STRATEGIES", ""),
	}
}

// ParseStrategies resolves the Strategies list into IDs in registry order.
// Unknown keys are skipped with a warning; an empty list selects every
// registered strategy.
func (c *Config) ParseStrategies() []strategy.ID {
	if strings.TrimSpace(c.Strategies) == "" {
		return strategy.IDs()
	}
	parts := strings.Split(c.Strategies, ",")
	ids := make([]strategy.ID, 0, len(parts))
	seen := make(map[strategy.ID]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strategy.ParseID(p)
		if err != nil {
			log.Printf("[config] skipping unknown strategy: %q", p)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// LoadParams reads a YAML file of per-strategy overrides on top of
// strategy.DefaultParams. An empty path returns the defaults.
func LoadParams(path string) (strategy.Params, error) {
	p := strategy.DefaultParams()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read params %s: %w", path, err)
	}
	return DecodeParams(data)
}

// DecodeParams decodes YAML overrides on top of strategy.DefaultParams.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func DecodeParams(data []byte) (strategy.Params, error) {
	p := strategy.DefaultParams()
	if len(bytes.TrimSpace(data)) == 0 {
		return p, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return strategy.DefaultParams(), fmt.Errorf("decode params: %w", err)
	}
	return p, nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
