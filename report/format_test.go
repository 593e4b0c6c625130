package report

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rustyeddy/daytrader/analysis"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/trader"
	"github.com/stretchr/testify/assert"
)

func TestCycleReport(t *testing.T) {
	t.Parallel()

	res := trader.CycleResult{
		Analysis: analysis.MarketAnalysis{
			Condition: analysis.Bullish,
			Summary:   "Broad strength.",
			Source:    analysis.SourceFallback,
			Recommendations: []analysis.Recommendation{
				{Action: "BUY", Symbol: "AAPL", Shares: 6, MaxPrice: 155, Reasoning: "Momentum.", Confidence: 7},
			},
		},
		Execution: trader.ExecutionReport{
			Executed: []trader.ExecutedTrade{
				{Symbol: "AAPL", Action: "BUY", Shares: 6, Price: 150},
			},
			Skipped: []trader.SkippedTrade{
				{Symbol: "MSFT", Reason: "position size $3000.00 exceeds 10% limit ($1000.00)"},
			},
			Summary: trader.Summary{Total: 2, Executed: 1, Skipped: 1},
		},
		Performance: portfolio.Summary{
			Cash: 9100, Invested: 900, MarketValue: 900,
			TotalValue: 10000, InitialCapital: 10000,
		},
	}

	text := Cycle(res)

	assert.Contains(t, text, "MARKET: BULLISH (fallback)")
	assert.Contains(t, text, "Broad strength.")
	assert.Contains(t, text, "Executed 1 trades")
	assert.Contains(t, text, "BUY 6 AAPL @ $150.00")
	assert.Contains(t, text, "Skipped 1 trades")
	assert.Contains(t, text, "MSFT")
	assert.Contains(t, text, "Cash: $9100.00")
}

func TestCycleReportNoTrades(t *testing.T) {
	t.Parallel()

	res := trader.CycleResult{
		Analysis: analysis.MarketAnalysis{
			Condition:       analysis.Neutral,
			Source:          analysis.SourceFallback,
			Recommendations: []analysis.Recommendation{},
		},
		Execution: trader.ExecutionReport{
			Summary: trader.Summary{NoTradeReason: "no recommendations provided"},
		},
	}

	text := Cycle(res)
	assert.Contains(t, text, "No trades executed")
	assert.Contains(t, text, "Reason: no recommendations provided")
}

func TestPerformanceReport(t *testing.T) {
	t.Parallel()

	perf := portfolio.Summary{
		Cash: 9100, Invested: 900, MarketValue: 960,
		TotalValue: 10060, TotalPnL: 60, TotalReturn: 60,
		TotalReturnPct: 0.6, InitialCapital: 10000,
	}
	positions := map[string]ledger.Position{
		"AAPL": {Symbol: "AAPL", Shares: 6, AvgPrice: 150, CurrentPrice: 160},
	}
	trades := []ledger.TradeRecord{
		{Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Symbol: "AAPL", Action: ledger.Buy, Shares: 6, Price: 150},
	}

	text := Performance(perf, positions, trades)

	assert.Contains(t, text, "Total Value: $10060.00")
	assert.Contains(t, text, "Return: $+60.00 (+0.60%)")
	assert.Contains(t, text, "AAPL: 6 shares @ $150.00 avg")
	assert.Contains(t, text, "P&L: $+60.00")
	assert.Contains(t, text, "BUY 6 AAPL @ $150.00")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	short := "short report"
	assert.Equal(t, short, Truncate(short, MaxMessageLen))

	long := strings.Repeat("x", MaxMessageLen+500)
	got := Truncate(long, MaxMessageLen)
	assert.Len(t, got, MaxMessageLen)
	assert.True(t, strings.HasSuffix(got, "[truncated]"))
}

func TestTruncateNeverSplitsRune(t *testing.T) {
	t.Parallel()

	// Multi-byte runes straddling every possible cut point.
	long := strings.Repeat("€", MaxMessageLen)
	got := Truncate(long, MaxMessageLen)

	assert.LessOrEqual(t, len(got), MaxMessageLen)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "[truncated]"))
}
