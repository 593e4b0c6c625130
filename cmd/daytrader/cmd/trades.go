package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List recent trades from the ledger",
	Long: `List the most recent trades recorded in the portfolio ledger, oldest
first, with the reasoning that produced each trade.

Example:
  daytrader trades -n 20`,
	RunE: runTrades,
}

var tradesLimit int

func init() {
	rootCmd.AddCommand(tradesCmd)

	tradesCmd.Flags().IntVarP(&tradesLimit, "limit", "n", 10, "number of trades to show")
}

func runTrades(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	trades, err := store.RecentTrades(tradesLimit)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	if len(trades) == 0 {
		fmt.Println("No trades recorded.")
		return nil
	}

	fmt.Printf("%-22s %-6s %-4s %10s %10s  %s\n", "TIMESTAMP", "SYMBOL", "SIDE", "SHARES", "PRICE", "REASONING")
	for _, tr := range trades {
		fmt.Printf("%-22s %-6s %-4s %10.2f %10.2f  %s\n",
			tr.Timestamp.Format("2006-01-02 15:04:05"), tr.Symbol, tr.Action, tr.Shares, tr.Price, tr.Reasoning)
	}
	return nil
}
