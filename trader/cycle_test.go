package trader

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rustyeddy/daytrader/analysis"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/risk"
	"github.com/stretchr/testify/assert"
)

func TestRunCycleAlwaysProducesReport(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 10; seed++ {
		pf, err := portfolio.New(ledger.NewMemory(10000), 10000)
		assert.NoError(t, err)

		policy := risk.Default()
		pipeline := analysis.NewPipeline(nil, rand.New(rand.NewSource(seed)), policy)
		tr := New(pf, pipeline, NewExecutor(pf, policy), nil)

		res, err := tr.RunCycle(context.Background())
		assert.NoError(t, err)

		assert.NotEmpty(t, res.Analysis.Condition)
		assert.NotNil(t, res.Analysis.Recommendations)
		assert.Equal(t, len(res.Analysis.Recommendations), res.Execution.Summary.Total)
		if res.Execution.Summary.Executed == 0 {
			assert.NotEmpty(t, res.Execution.Summary.NoTradeReason)
		}

		// Cash plus holdings always accounts for every dollar.
		perf := res.Performance
		assert.InDelta(t, perf.Cash+perf.MarketValue, perf.TotalValue, 1e-9)
		assert.LessOrEqual(t, perf.Invested, 10000.0)
	}
}

func TestRunCycleAccumulatesState(t *testing.T) {
	t.Parallel()

	pf, err := portfolio.New(ledger.NewMemory(10000), 10000)
	assert.NoError(t, err)

	policy := risk.Default()
	pipeline := analysis.NewPipeline(nil, rand.New(rand.NewSource(3)), policy)
	tr := New(pf, pipeline, NewExecutor(pf, policy), []string{"AAPL", "MSFT", "GOOGL"})

	executed := 0
	for i := 0; i < 5; i++ {
		res, err := tr.RunCycle(context.Background())
		assert.NoError(t, err)
		executed += res.Execution.Summary.Executed
	}

	trades, err := pf.RecentTrades(0)
	assert.NoError(t, err)
	assert.Len(t, trades, executed)
}
