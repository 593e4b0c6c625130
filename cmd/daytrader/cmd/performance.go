package cmd

import (
	"fmt"

	"github.com/rustyeddy/daytrader/report"
	"github.com/spf13/cobra"
)

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Show portfolio performance",
	Long: `Show current portfolio performance: cash, invested capital, market value,
total P&L and return against initial capital, open positions, and the most
recent trades.

Example:
  daytrader performance -f examples/configs/paper.yaml`,
	RunE: runPerformance,
}

var perfTradeLimit int

func init() {
	rootCmd.AddCommand(performanceCmd)

	performanceCmd.Flags().IntVarP(&perfTradeLimit, "trades", "n", 5, "number of recent trades to include")
}

func runPerformance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pf, store, err := loadPortfolio(cfg)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	trades, err := pf.RecentTrades(perfTradeLimit)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	fmt.Println(report.Performance(pf.Performance(), pf.Positions(), trades))
	return nil
}
