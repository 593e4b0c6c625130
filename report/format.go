// Package report renders trading results as text and delivers them to the
// configured notification sink.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/trader"
)

// MaxMessageLen is the delivery sink's message limit; longer reports are
// truncated before sending.
const MaxMessageLen = 4000

// Cycle renders the full trading-cycle report: market view, portfolio
// snapshot, execution outcome and remaining recommendations.
func Cycle(res trader.CycleResult) string {
	var b strings.Builder

	b.WriteString("TRADING REPORT\n")
	fmt.Fprintf(&b, "Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "MARKET: %s (%s)\n", strings.ToUpper(string(res.Analysis.Condition)), res.Analysis.Source)
	if res.Analysis.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", res.Analysis.Summary)
	}
	b.WriteString("\n")

	writePerformance(&b, res.Performance)

	b.WriteString("\nTRADE EXECUTION\n")
	if len(res.Execution.Executed) > 0 {
		fmt.Fprintf(&b, "Executed %d trades:\n", len(res.Execution.Executed))
		for _, t := range res.Execution.Executed {
			fmt.Fprintf(&b, "  - %s %d %s @ $%.2f\n", t.Action, t.Shares, t.Symbol, t.Price)
		}
	} else {
		b.WriteString("No trades executed\n")
		if reason := res.Execution.Summary.NoTradeReason; reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", reason)
		}
	}
	if n := len(res.Execution.Skipped); n > 0 {
		fmt.Fprintf(&b, "Skipped %d trades:\n", n)
		for _, s := range res.Execution.Skipped {
			fmt.Fprintf(&b, "  - %s: %s\n", s.Symbol, s.Reason)
		}
	}
	if n := len(res.Execution.Errors); n > 0 {
		fmt.Fprintf(&b, "Failed %d trades:\n", n)
		for _, e := range res.Execution.Errors {
			fmt.Fprintf(&b, "  - %s: %s\n", e.Symbol, e.Err)
		}
	}

	if recs := res.Analysis.Recommendations; len(recs) > 0 {
		b.WriteString("\nRECOMMENDATIONS\n")
		limit := len(recs)
		if limit > 5 {
			limit = 5
		}
		for _, rec := range recs[:limit] {
			fmt.Fprintf(&b, "  - %s %s (confidence %d/10)\n", rec.Action, rec.Symbol, rec.Confidence)
			if rec.Reasoning != "" {
				fmt.Fprintf(&b, "    %s\n", clip(rec.Reasoning, 100))
			}
		}
	}

	return b.String()
}

// Performance renders the read-only portfolio review: metrics, holdings and
// recent trades.
func Performance(perf portfolio.Summary, positions map[string]ledger.Position, trades []ledger.TradeRecord) string {
	var b strings.Builder

	b.WriteString("PORTFOLIO REVIEW\n")
	fmt.Fprintf(&b, "Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05 MST"))
	writePerformance(&b, perf)

	if len(positions) > 0 {
		b.WriteString("\nHOLDINGS\n")
		symbols := make([]string, 0, len(positions))
		for s := range positions {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		for _, s := range symbols {
			pos := positions[s]
			fmt.Fprintf(&b, "  %s: %.0f shares @ $%.2f avg\n", pos.Symbol, pos.Shares, pos.AvgPrice)
			fmt.Fprintf(&b, "    Current: $%.2f, Value: $%.2f, P&L: $%+.2f\n",
				pos.CurrentPrice, pos.MarketValue(), pos.UnrealizedPnL())
		}
	}

	if len(trades) > 0 {
		b.WriteString("\nRECENT TRADES\n")
		for _, t := range trades {
			fmt.Fprintf(&b, "  %s %s %.0f %s @ $%.2f\n",
				t.Timestamp.Format("2006-01-02 15:04"), t.Action, t.Shares, t.Symbol, t.Price)
		}
	}

	return b.String()
}

func writePerformance(b *strings.Builder, perf portfolio.Summary) {
	b.WriteString("PORTFOLIO SNAPSHOT\n")
	fmt.Fprintf(b, "Cash: $%.2f\n", perf.Cash)
	fmt.Fprintf(b, "Invested: $%.2f\n", perf.Invested)
	fmt.Fprintf(b, "Market Value: $%.2f\n", perf.MarketValue)
	fmt.Fprintf(b, "Total Value: $%.2f\n", perf.TotalValue)
	fmt.Fprintf(b, "Total P&L: $%+.2f\n", perf.TotalPnL)
	fmt.Fprintf(b, "Return: $%+.2f (%+.2f%%)\n", perf.TotalReturn, perf.TotalReturnPct)
}

// Truncate bounds a message to the sink's length limit. The cut never lands
// mid-rune: the sink rejects invalid UTF-8.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	const marker = "\n[truncated]"
	cut := max - len(marker)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + marker
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
