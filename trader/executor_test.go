package trader

import (
	"context"
	"testing"

	"github.com/rustyeddy/daytrader/analysis"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/risk"
	"github.com/stretchr/testify/assert"
)

func newTestExecutor(t *testing.T) (*Executor, *portfolio.Portfolio) {
	t.Helper()

	pf, err := portfolio.New(ledger.NewMemory(10000), 10000)
	assert.NoError(t, err)
	return NewExecutor(pf, risk.Default()), pf
}

func TestExecuteAllEmpty(t *testing.T) {
	t.Parallel()

	e, _ := newTestExecutor(t)

	report, err := e.ExecuteAll(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Total)
	assert.Equal(t, 0, report.Summary.Executed)
	assert.Equal(t, "no recommendations provided", report.Summary.NoTradeReason)
}

func TestExecuteAllValidationSkips(t *testing.T) {
	t.Parallel()

	e, pf := newTestExecutor(t)

	recs := []analysis.Recommendation{
		{Action: "BUY", Symbol: "", Shares: 6, MaxPrice: 150},
		{Action: "BUY", Symbol: "AAPL", Shares: 0, MaxPrice: 150},
		{Action: "BUY", Symbol: "AAPL", Shares: 6, MaxPrice: -1},
	}

	report, err := e.ExecuteAll(context.Background(), recs)
	assert.NoError(t, err)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 0, report.Summary.Executed)
	assert.Equal(t, 3, report.Summary.Skipped)
	assert.Equal(t, "all 3 recommendations skipped by validation or risk limits", report.Summary.NoTradeReason)
	assert.Equal(t, "UNKNOWN", report.Skipped[0].Symbol)

	assert.InDelta(t, 10000.0, pf.Cash(), 1e-9)
}

func TestExecuteAllRiskLimitSkips(t *testing.T) {
	t.Parallel()

	e, pf := newTestExecutor(t)

	// $1,500 against a $10,000 portfolio breaches the 10% limit.
	recs := []analysis.Recommendation{
		{Action: "BUY", Symbol: "AAPL", Shares: 10, MaxPrice: 150, Confidence: 8},
	}

	report, err := e.ExecuteAll(context.Background(), recs)
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Skipped)
	assert.Contains(t, report.Skipped[0].Reason, "exceeds")
	assert.InDelta(t, 10000.0, pf.Cash(), 1e-9)
}

func TestExecuteAllMixedBuckets(t *testing.T) {
	t.Parallel()

	e, pf := newTestExecutor(t)

	recs := []analysis.Recommendation{
		{Action: "BUY", Symbol: "AAPL", Shares: 6, MaxPrice: 150, Confidence: 7},  // executes
		{Action: "BUY", Symbol: "MSFT", Shares: 10, MaxPrice: 300, Confidence: 6}, // risk limit
		{Action: "SELL", Symbol: "TSLA", Shares: 1, MaxPrice: 180, Confidence: 5}, // no position
		{Action: "BUY", Symbol: "", Shares: 1, MaxPrice: 100, Confidence: 4},      // validation
	}

	report, err := e.ExecuteAll(context.Background(), recs)
	assert.NoError(t, err)
	assert.Equal(t, 4, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Executed)
	assert.Equal(t, 3, report.Summary.Skipped)
	assert.Equal(t, 0, report.Summary.Failed)
	assert.Empty(t, report.Summary.NoTradeReason)

	assert.Equal(t, "AAPL", report.Executed[0].Symbol)
	assert.InDelta(t, 9100.0, pf.Cash(), 1e-9)
}

func TestExecuteAllSequentialStateVisible(t *testing.T) {
	t.Parallel()

	e, pf := newTestExecutor(t)

	// The sell only passes risk checks because the buy before it opened the
	// position within the same batch.
	recs := []analysis.Recommendation{
		{Action: "BUY", Symbol: "AAPL", Shares: 6, MaxPrice: 150, Confidence: 7},
		{Action: "SELL", Symbol: "AAPL", Shares: 6, MaxPrice: 150, Confidence: 7},
	}

	report, err := e.ExecuteAll(context.Background(), recs)
	assert.NoError(t, err)
	assert.Equal(t, 2, report.Summary.Executed)

	_, held := pf.Position("AAPL")
	assert.False(t, held)
	assert.InDelta(t, 10000.0, pf.Cash(), 1e-9)
}

func TestExecuteAllFullCycleScenario(t *testing.T) {
	t.Parallel()

	e, pf := newTestExecutor(t)
	ctx := context.Background()

	// 10 shares at $150 is $1,500, over the $1,000 limit.
	report, err := e.ExecuteAll(ctx, []analysis.Recommendation{
		{Action: "BUY", Symbol: "AAPL", Shares: 10, MaxPrice: 150},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Executed)

	// 6 shares at $150 is $900, inside the limit.
	report, err = e.ExecuteAll(ctx, []analysis.Recommendation{
		{Action: "BUY", Symbol: "AAPL", Shares: 6, MaxPrice: 150},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Executed)
	assert.InDelta(t, 9100.0, pf.Cash(), 1e-9)

	pos, held := pf.Position("AAPL")
	assert.True(t, held)
	assert.InDelta(t, 6.0, pos.Shares, 1e-9)
	assert.InDelta(t, 150.0, pos.AvgPrice, 1e-9)

	// Price moves to $160; unrealized gain appears.
	assert.NoError(t, pf.MarkPrices(map[string]float64{"AAPL": 160}))
	pos, _ = pf.Position("AAPL")
	assert.InDelta(t, 960.0, pos.MarketValue(), 1e-9)
	assert.InDelta(t, 60.0, pos.UnrealizedPnL(), 1e-9)

	// Sell everything at $160.
	report, err = e.ExecuteAll(ctx, []analysis.Recommendation{
		{Action: "SELL", Symbol: "AAPL", Shares: 6, MaxPrice: 160},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Executed)
	assert.InDelta(t, 10060.0, pf.Cash(), 1e-9)

	_, held = pf.Position("AAPL")
	assert.False(t, held)

	perf := pf.Performance()
	assert.InDelta(t, 10060.0, perf.TotalValue, 1e-9)
	assert.InDelta(t, 60.0, perf.TotalReturn, 1e-9)
}
