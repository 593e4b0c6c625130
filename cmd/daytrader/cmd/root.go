package cmd

import (
	"math/rand"
	"os"
	"time"

	"github.com/rustyeddy/daytrader/analysis"
	"github.com/rustyeddy/daytrader/config"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/marketdata"
	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/risk"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "daytrader",
	Short: "A risk-managed paper-trading bot with an AI-backed decision pipeline",
	Long: `Daytrader maintains a durable portfolio ledger and runs risk-managed
decision/execution cycles against it.

It provides tools for:
  - Running one decision/execution cycle (AI analysis with deterministic fallback)
  - Reviewing portfolio performance and trade history
  - Enforcing position-size and cash risk limits on every trade
  - Delivering cycle reports to Telegram`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var cfgPath string
var seed int64

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "seed for the fallback analysis generator (0 = time-based)")
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

func openStore(cfg *config.Config) (ledger.Store, error) {
	switch cfg.Store.Type {
	case "files":
		return ledger.NewFiles(cfg.Store.Dir, cfg.Account.InitialCash)
	case "memory":
		return ledger.NewMemory(cfg.Account.InitialCash), nil
	default:
		return ledger.NewSQLite(cfg.Store.DBPath, cfg.Account.InitialCash)
	}
}

func policyFromConfig(cfg *config.Config) risk.Policy {
	return risk.Policy{
		MaxPositionPct: cfg.Risk.MaxPositionPct,
		MinTradeValue:  cfg.Risk.MinTradeValue,
	}
}

func buildPipeline(cfg *config.Config, policy risk.Policy) *analysis.Pipeline {
	var primary analysis.Analyzer
	if cfg.Analysis.Provider == "deepseek" {
		if apiKey := os.Getenv("DEEPSEEK_API_KEY"); apiKey != "" {
			primary = analysis.NewDeepSeek(
				apiKey,
				cfg.Analysis.Endpoint,
				cfg.Analysis.Model,
				time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second,
			)
		}
	}

	s := seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	return analysis.NewPipeline(primary, rand.New(rand.NewSource(s)), policy,
		analysis.WithTradingHours(cfg.Analysis.MarketOpenHour, cfg.Analysis.MarketCloseHour))
}

func symbolsFromConfig(cfg *config.Config) []string {
	if len(cfg.Analysis.Symbols) > 0 {
		return cfg.Analysis.Symbols
	}
	return marketdata.DefaultSymbols()
}

func loadPortfolio(cfg *config.Config) (*portfolio.Portfolio, ledger.Store, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	pf, err := portfolio.New(store, cfg.Account.InitialCash)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return pf, store, nil
}
