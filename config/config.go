package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete trading configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Report   ReportConfig   `json:"report" yaml:"report"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
	Currency    string  `json:"currency" yaml:"currency"`
}

// RiskConfig contains the trading limits.
type RiskConfig struct {
	MaxPositionPct float64 `json:"max_position_pct" yaml:"max_position_pct"`
	MinTradeValue  float64 `json:"min_trade_value" yaml:"min_trade_value"`
}

// AnalysisConfig contains decision-pipeline parameters. The API key is read
// from the DEEPSEEK_API_KEY environment variable, never from the file.
type AnalysisConfig struct {
	Provider        string   `json:"provider" yaml:"provider"` // "deepseek" or "none"
	Model           string   `json:"model,omitempty" yaml:"model,omitempty"`
	Endpoint        string   `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	TimeoutSeconds  int      `json:"timeout_seconds" yaml:"timeout_seconds"`
	Symbols         []string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	MarketOpenHour  int      `json:"market_open_hour" yaml:"market_open_hour"`
	MarketCloseHour int      `json:"market_close_hour" yaml:"market_close_hour"`
}

// StoreConfig selects and locates the ledger store.
type StoreConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite", "files" or "memory"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// ReportConfig contains delivery parameters. The bot token and chat ID come
// from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID.
type ReportConfig struct {
	TelegramEnabled bool `json:"telegram_enabled" yaml:"telegram_enabled"`
	TimeoutSeconds  int  `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Risk.MaxPositionPct <= 0 || c.Risk.MaxPositionPct > 1 {
		return fmt.Errorf("risk.max_position_pct must be between 0 and 1")
	}
	if c.Risk.MinTradeValue < 0 {
		return fmt.Errorf("risk.min_trade_value must not be negative")
	}
	switch c.Analysis.Provider {
	case "deepseek", "none":
	default:
		return fmt.Errorf("analysis.provider must be 'deepseek' or 'none'")
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		return fmt.Errorf("analysis.timeout_seconds must be positive")
	}
	if c.Analysis.MarketOpenHour < 0 || c.Analysis.MarketOpenHour > 23 ||
		c.Analysis.MarketCloseHour < 0 || c.Analysis.MarketCloseHour > 23 ||
		c.Analysis.MarketOpenHour > c.Analysis.MarketCloseHour {
		return fmt.Errorf("analysis market hours must be 0-23 with open <= close")
	}
	switch c.Store.Type {
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store.db_path required for sqlite store")
		}
	case "files":
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir required for files store")
		}
	case "memory":
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'files' or 'memory'")
	}
	if c.Report.TimeoutSeconds <= 0 {
		return fmt.Errorf("report.timeout_seconds must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCash: 10000.00,
			Currency:    "USD",
		},
		Risk: RiskConfig{
			MaxPositionPct: 0.10,
			MinTradeValue:  10.00,
		},
		Analysis: AnalysisConfig{
			Provider:        "deepseek",
			Model:           "deepseek-chat",
			TimeoutSeconds:  60,
			MarketOpenHour:  9,
			MarketCloseHour: 16,
		},
		Store: StoreConfig{
			Type:   "sqlite",
			DBPath: "./daytrader.sqlite",
		},
		Report: ReportConfig{
			TelegramEnabled: true,
			TimeoutSeconds:  30,
		},
	}
}
