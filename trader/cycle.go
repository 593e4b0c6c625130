package trader

import (
	"context"

	"github.com/rustyeddy/daytrader/analysis"
	"github.com/rustyeddy/daytrader/logger"
	"github.com/rustyeddy/daytrader/marketdata"
	"github.com/rustyeddy/daytrader/portfolio"
)

// Trader owns one decision/execution cycle: mark prices, analyze, execute.
type Trader struct {
	pf       *portfolio.Portfolio
	pipeline *analysis.Pipeline
	executor *Executor
	symbols  []string
}

// CycleResult bundles everything a reporter needs from one cycle.
type CycleResult struct {
	Analysis    analysis.MarketAnalysis
	Execution   ExecutionReport
	Performance portfolio.Summary
}

// New assembles a trader over an already-loaded portfolio.
func New(pf *portfolio.Portfolio, pipeline *analysis.Pipeline, executor *Executor, symbols []string) *Trader {
	if len(symbols) == 0 {
		symbols = marketdata.DefaultSymbols()
	}
	return &Trader{pf: pf, pipeline: pipeline, executor: executor, symbols: symbols}
}

// RunCycle executes one full decision/execution cycle and returns the
// structured result. The cycle always completes with a report; the only
// error is a ledger write failure, which is surfaced loudly.
func (t *Trader) RunCycle(ctx context.Context) (CycleResult, error) {
	ctx, span := logger.StartSpan(ctx, "trading-cycle")
	defer span.End()

	// Revalue holdings before deciding, so the risk limit is sized against
	// current portfolio value.
	if err := t.pf.MarkPrices(marketdata.Prices(t.symbols)); err != nil {
		return CycleResult{}, err
	}

	a := t.pipeline.Analyze(ctx, t.symbols, t.pf.Snapshot())

	exec, err := t.executor.ExecuteAll(ctx, a.Recommendations)
	result := CycleResult{
		Analysis:    a,
		Execution:   exec,
		Performance: t.pf.Performance(),
	}
	if err != nil {
		return result, err
	}

	logger.Info(ctx, "cycle complete",
		"source", a.Source,
		"condition", a.Condition,
		"executed", exec.Summary.Executed,
		"skipped", exec.Summary.Skipped,
		"failed", exec.Summary.Failed,
	)
	return result, nil
}
