package analysis

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rustyeddy/daytrader/logger"
	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/risk"
)

// Pipeline converges the primary and fallback paths into one guaranteed,
// well-formed MarketAnalysis. Callers never see a failure: every tier that
// breaks is recorded in Errors and the next tier takes over.
type Pipeline struct {
	primary Analyzer // nil means fallback-only
	rng     *rand.Rand
	policy  risk.Policy

	now       func() time.Time
	openHour  int
	closeHour int
	minCash   float64
}

// Option adjusts pipeline behavior.
type Option func(*Pipeline)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

// WithTradingHours sets the hours (inclusive) treated as the trading session
// by the fallback generator.
func WithTradingHours(open, close int) Option {
	return func(pl *Pipeline) { pl.openHour, pl.closeHour = open, close }
}

// WithMinCash sets the cash floor below which no buy recommendations are
// generated.
func WithMinCash(v float64) Option {
	return func(pl *Pipeline) { pl.minCash = v }
}

// NewPipeline builds a pipeline. The random source drives the fallback
// generator and is injected so tests can seed it.
func NewPipeline(primary Analyzer, rng *rand.Rand, policy risk.Policy, opts ...Option) *Pipeline {
	pl := &Pipeline{
		primary:   primary,
		rng:       rng,
		policy:    policy,
		now:       time.Now,
		openHour:  9,
		closeHour: 16,
		minCash:   100.00,
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// Analyze produces a market view and trade recommendations for the given
// symbols and ledger snapshot. It never fails: primary source errors trigger
// the deterministic fallback, and a broken fallback degrades to a minimal
// recommendation set with the reason stated in the summary.
func (pl *Pipeline) Analyze(ctx context.Context, symbols []string, snap portfolio.Snapshot) MarketAnalysis {
	ctx, span := logger.StartSpan(ctx, "analyze-market")
	defer span.End()

	var errs []string

	if pl.primary != nil {
		a, err := pl.primary.Analyze(ctx, Request{Symbols: symbols, Snapshot: snap, Policy: pl.policy})
		if err == nil {
			a.Timestamp = pl.now()
			a.Source = SourcePrimary
			if a.Recommendations == nil {
				a.Recommendations = []Recommendation{}
			}
			logger.Info(ctx, "primary analysis completed",
				"condition", a.Condition, "recommendations", len(a.Recommendations))
			return *a
		}
		errs = append(errs, fmt.Sprintf("primary analysis failed: %v", err))
		logger.Warn(ctx, "primary analysis failed, using fallback", "error", err)
	}

	a, err := pl.safeFallback(symbols, snap)
	if err != nil {
		errs = append(errs, err.Error())
		logger.ErrorWithErr(ctx, "fallback analysis failed, using minimal recommendations", err)

		recs := pl.basicRecommendations(symbols, snap)
		summary := "Analysis unavailable. Using basic recommendations."
		if len(recs) == 0 {
			summary = "Analysis unavailable. No trade recommendations generated: insufficient cash."
		}
		return MarketAnalysis{
			Timestamp:       pl.now(),
			Condition:       Neutral,
			Summary:         summary,
			Recommendations: recs,
			Source:          SourceFallback,
			Errors:          errs,
		}
	}

	a.Errors = errs
	if len(a.Recommendations) == 0 {
		a.Summary += " No trade recommendations generated."
	}
	logger.Info(ctx, "fallback analysis completed",
		"condition", a.Condition, "recommendations", len(a.Recommendations))
	return *a
}

// safeFallback shields the pipeline contract against defects in the fallback
// generator itself: a panic becomes an error and the minimal tier takes over.
func (pl *Pipeline) safeFallback(symbols []string, snap portfolio.Snapshot) (a *MarketAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("fallback analysis failed: %v", r)
		}
	}()
	return pl.fallback(symbols, snap), nil
}
