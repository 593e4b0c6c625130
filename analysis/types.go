// Package analysis produces a market view and proposed trades. A primary
// AI-backed source is used when configured; a deterministic fallback
// guarantees well-formed output when the primary is missing or fails.
package analysis

import (
	"context"
	"time"

	"github.com/rustyeddy/daytrader/portfolio"
	"github.com/rustyeddy/daytrader/risk"
)

// Condition classifies the overall market.
type Condition string

const (
	Bullish  Condition = "bullish"
	Bearish  Condition = "bearish"
	Neutral  Condition = "neutral"
	Volatile Condition = "volatile"
)

// Source identifies which pipeline path produced an analysis.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
)

// StockSignal is a per-symbol technical read.
type StockSignal struct {
	Symbol      string  `json:"symbol"`
	Signal      string  `json:"signal"` // BUY, SELL or HOLD
	Confidence  int     `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	TargetPrice float64 `json:"target_price"`
	StopLoss    float64 `json:"stop_loss"`
	RiskReward  float64 `json:"risk_reward_ratio"`
}

// Recommendation is a proposed trade. Ephemeral: it lives for one
// decision/execution cycle and is never persisted.
type Recommendation struct {
	Action     string  `json:"action"`
	Symbol     string  `json:"symbol"`
	Shares     int     `json:"shares"`
	MaxPrice   float64 `json:"max_price"`
	Reasoning  string  `json:"reasoning"`
	Confidence int     `json:"confidence"`
}

// MarketAnalysis is the pipeline output. The pipeline contract guarantees a
// non-empty Condition and a non-nil Recommendations slice, whatever failed
// upstream.
type MarketAnalysis struct {
	Timestamp       time.Time        `json:"timestamp"`
	Condition       Condition        `json:"market_condition"`
	Summary         string           `json:"market_summary"`
	Stocks          []StockSignal    `json:"stock_analysis"`
	Recommendations []Recommendation `json:"trade_recommendations"`
	Source          Source           `json:"analysis_source"`
	Errors          []string         `json:"errors,omitempty"`
}

// Request is the structured input handed to the primary source.
type Request struct {
	Symbols  []string
	Snapshot portfolio.Snapshot
	Policy   risk.Policy
}

// Analyzer is a primary analysis source.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*MarketAnalysis, error)
}
