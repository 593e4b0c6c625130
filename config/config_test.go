package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	yaml := `
account:
  initial_cash: 25000
  currency: USD
risk:
  max_position_pct: 0.05
  min_trade_value: 25
analysis:
  provider: none
  timeout_seconds: 30
  market_open_hour: 9
  market_close_hour: 16
  symbols: [AAPL, MSFT]
store:
  type: memory
report:
  telegram_enabled: false
  timeout_seconds: 15
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.InDelta(t, 25000.0, cfg.Account.InitialCash, 1e-9)
	assert.InDelta(t, 0.05, cfg.Risk.MaxPositionPct, 1e-12)
	assert.Equal(t, "none", cfg.Analysis.Provider)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Analysis.Symbols)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.False(t, cfg.Report.TelegramEnabled)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(t.TempDir(), name)

		cfg := Default()
		cfg.Account.InitialCash = 12345
		assert.NoError(t, cfg.SaveToFile(path))

		loaded, err := LoadFromFile(path)
		assert.NoError(t, err)
		assert.InDelta(t, 12345.0, loaded.Account.InitialCash, 1e-9)
		assert.Equal(t, cfg.Store.Type, loaded.Store.Type)
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero initial cash", func(c *Config) { c.Account.InitialCash = 0 }},
		{"position pct over 1", func(c *Config) { c.Risk.MaxPositionPct = 1.5 }},
		{"negative min trade", func(c *Config) { c.Risk.MinTradeValue = -1 }},
		{"bad provider", func(c *Config) { c.Analysis.Provider = "gpt" }},
		{"zero analysis timeout", func(c *Config) { c.Analysis.TimeoutSeconds = 0 }},
		{"open after close", func(c *Config) { c.Analysis.MarketOpenHour = 17 }},
		{"bad store type", func(c *Config) { c.Store.Type = "redis" }},
		{"sqlite without path", func(c *Config) { c.Store.DBPath = "" }},
		{"files without dir", func(c *Config) { c.Store.Type = "files"; c.Store.Dir = "" }},
		{"zero report timeout", func(c *Config) { c.Report.TimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
