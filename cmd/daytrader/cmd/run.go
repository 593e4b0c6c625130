package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/daytrader/report"
	"github.com/rustyeddy/daytrader/trader"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one trading cycle against the ledger",
	Long: `Run a single decision/execution cycle: refresh market prices, analyze
the watched symbols, apply risk limits to every recommendation, execute the
survivors against the portfolio ledger, and print a cycle report.

When DEEPSEEK_API_KEY is set and the analysis provider is "deepseek", the
cycle uses AI analysis; otherwise it falls back to the deterministic
generator. The cycle always produces a decision.

Example:
  daytrader run -f examples/configs/paper.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pf, store, err := loadPortfolio(cfg)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	policy := policyFromConfig(cfg)
	t := trader.New(pf, buildPipeline(cfg, policy), trader.NewExecutor(pf, policy), symbolsFromConfig(cfg))

	ctx := context.Background()
	result, err := t.RunCycle(ctx)
	if err != nil {
		return fmt.Errorf("trading cycle: %w", err)
	}

	text := report.Cycle(result)
	fmt.Println(text)

	if cfg.Report.TelegramEnabled {
		tg := report.NewTelegram(
			os.Getenv("TELEGRAM_BOT_TOKEN"),
			os.Getenv("TELEGRAM_CHAT_ID"),
			time.Duration(cfg.Report.TimeoutSeconds)*time.Second,
		)
		if err := tg.Send(ctx, text); err != nil {
			fmt.Fprintf(os.Stderr, "telegram delivery failed: %v\n", err)
		}
	}

	return nil
}
