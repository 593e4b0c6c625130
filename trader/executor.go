// Package trader runs the decision/execution cycle: it takes proposed trades,
// applies the risk policy, drives the accounting engine and produces a
// structured execution report.
package trader

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/daytrader/analysis"
	"github.com/rustyeddy/daytrader/logger"
	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/risk"
)

// ExecutedTrade is one recommendation that made it into the ledger.
type ExecutedTrade struct {
	Symbol     string
	Action     string
	Shares     int
	Price      float64
	Reasoning  string
	Confidence int
	Timestamp  time.Time
}

// SkippedTrade is one recommendation rejected by validation or risk policy.
type SkippedTrade struct {
	Symbol     string
	Reason     string
	Confidence int
}

// TradeError is one recommendation that passed the checks but failed in the
// accounting engine.
type TradeError struct {
	Symbol string
	Err    string
}

// Summary counts the outcome buckets. NoTradeReason is populated only when
// nothing executed, so "nothing happened" is always explained.
type Summary struct {
	Total         int
	Executed      int
	Skipped       int
	Failed        int
	NoTradeReason string
}

// ExecutionReport is the full outcome of one recommendation list.
type ExecutionReport struct {
	Timestamp time.Time
	Executed  []ExecutedTrade
	Skipped   []SkippedTrade
	Errors    []TradeError
	Summary   Summary
}

// Executor applies recommendations to the portfolio under the risk policy.
type Executor struct {
	pf     *portfolio.Portfolio
	policy risk.Policy
}

// NewExecutor builds an executor over the given portfolio and limits.
func NewExecutor(pf *portfolio.Portfolio, policy risk.Policy) *Executor {
	return &Executor{pf: pf, policy: policy}
}

// ExecuteAll processes every recommendation in order. One recommendation's
// failure never blocks the rest; each trade sees the ledger state left by the
// previous one. The only error returned is a ledger write failure, after
// which consistency can no longer be guaranteed.
func (e *Executor) ExecuteAll(ctx context.Context, recs []analysis.Recommendation) (ExecutionReport, error) {
	ctx, span := logger.StartSpan(ctx, "execute-trades")
	defer span.End()

	report := ExecutionReport{
		Timestamp: time.Now().UTC(),
		Summary:   Summary{Total: len(recs)},
	}

	if len(recs) == 0 {
		report.Summary.NoTradeReason = "no recommendations provided"
		return report, nil
	}

	for _, rec := range recs {
		if reason, ok := validate(rec); !ok {
			report.Skipped = append(report.Skipped, SkippedTrade{
				Symbol:     symbolOrUnknown(rec.Symbol),
				Reason:     reason,
				Confidence: rec.Confidence,
			})
			continue
		}

		intent := risk.TradeIntent{
			Action: rec.Action,
			Symbol: rec.Symbol,
			Shares: float64(rec.Shares),
			Price:  rec.MaxPrice,
		}
		decision := risk.Evaluate(e.policy, intent, e.accountSnapshot())
		if !decision.Allowed {
			logger.Risk(ctx, rec.Symbol, decision.Code, decision.Reason)
			report.Skipped = append(report.Skipped, SkippedTrade{
				Symbol:     rec.Symbol,
				Reason:     decision.Reason,
				Confidence: rec.Confidence,
			})
			continue
		}

		var ok bool
		var err error
		switch rec.Action {
		case "BUY":
			ok, err = e.pf.Buy(rec.Symbol, float64(rec.Shares), rec.MaxPrice, rec.Reasoning)
		case "SELL":
			ok, err = e.pf.Sell(rec.Symbol, float64(rec.Shares), rec.MaxPrice, rec.Reasoning)
		}
		if err != nil {
			// Ledger write failure: the one hard-failure class.
			finishSummary(&report)
			return report, fmt.Errorf("execute %s %s: %w", rec.Action, rec.Symbol, err)
		}
		if !ok {
			report.Errors = append(report.Errors, TradeError{
				Symbol: rec.Symbol,
				Err:    "trade rejected by accounting engine",
			})
			continue
		}

		logger.Trade(ctx, rec.Symbol, rec.Action, float64(rec.Shares), rec.MaxPrice, "",
			"confidence", rec.Confidence)
		report.Executed = append(report.Executed, ExecutedTrade{
			Symbol:     rec.Symbol,
			Action:     rec.Action,
			Shares:     rec.Shares,
			Price:      rec.MaxPrice,
			Reasoning:  rec.Reasoning,
			Confidence: rec.Confidence,
			Timestamp:  time.Now().UTC(),
		})
	}

	finishSummary(&report)
	return report, nil
}

// validate checks the structural fields of a recommendation.
func validate(rec analysis.Recommendation) (string, bool) {
	if rec.Symbol == "" {
		return "missing symbol", false
	}
	if rec.Shares <= 0 {
		return fmt.Sprintf("invalid share count: %d", rec.Shares), false
	}
	if rec.MaxPrice <= 0 {
		return fmt.Sprintf("invalid price: $%.2f", rec.MaxPrice), false
	}
	return "", true
}

func (e *Executor) accountSnapshot() risk.AccountSnapshot {
	snap := e.pf.Snapshot()
	holdings := make(map[string]float64, len(snap.Positions))
	for symbol, pos := range snap.Positions {
		holdings[symbol] = pos.Shares
	}
	return risk.AccountSnapshot{
		Cash:       snap.Cash,
		TotalValue: snap.TotalValue,
		Holdings:   holdings,
	}
}

func finishSummary(report *ExecutionReport) {
	s := &report.Summary
	s.Executed = len(report.Executed)
	s.Skipped = len(report.Skipped)
	s.Failed = len(report.Errors)

	if s.Executed > 0 {
		return
	}
	switch {
	case s.Skipped > 0:
		s.NoTradeReason = fmt.Sprintf("all %d recommendations skipped by validation or risk limits", s.Skipped)
	case s.Failed > 0:
		s.NoTradeReason = fmt.Sprintf("all %d recommendations failed", s.Failed)
	default:
		s.NoTradeReason = "no valid recommendations provided"
	}
}

func symbolOrUnknown(symbol string) string {
	if symbol == "" {
		return "UNKNOWN"
	}
	return symbol
}
