package analysis

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/rustyeddy/daytrader/marketdata"
	"github.com/rustyeddy/daytrader/portfolio"
)

var conditionSummaries = map[Condition][]string{
	Bullish: {
		"Market showing strength with broad-based gains.",
		"Positive momentum across major sectors.",
		"Buying interest increasing throughout the session.",
	},
	Bearish: {
		"Market under pressure with defensive rotation.",
		"Profit-taking observed in growth sectors.",
		"Caution advised amid increased volatility.",
	},
	Neutral: {
		"Market consolidating in narrow range.",
		"Mixed performance with sector rotation.",
		"Awaiting catalyst for directional move.",
	},
	Volatile: {
		"Heightened volatility with wide price swings.",
		"Market searching for direction amid uncertainty.",
		"Fast-moving conditions require careful position sizing.",
	},
}

var signalReasons = map[string][]string{
	"BUY": {
		"Technical breakout above resistance.",
		"Strong fundamentals with positive earnings outlook.",
		"Oversold conditions presenting buying opportunity.",
	},
	"SELL": {
		"Approaching resistance level, taking profits.",
		"Technical breakdown below support.",
		"Fundamental deterioration in outlook.",
	},
	"HOLD": {
		"Consolidating within trading range.",
		"Awaiting earnings catalyst for direction.",
		"Mixed signals, maintaining current position.",
	},
}

// fallback generates a deterministic, context-sensitive analysis from the
// injected random source. Same statistical shape every run; identical output
// for an identical seed.
func (pl *Pipeline) fallback(symbols []string, snap portfolio.Snapshot) *MarketAnalysis {
	hour := pl.now().Hour()

	// More bullish weighting during trading hours, more bearish after.
	conditions := []Condition{Bullish, Bearish, Neutral, Volatile}
	weights := []float64{0.3, 0.4, 0.2, 0.1}
	if hour >= pl.openHour && hour <= pl.closeHour {
		weights = []float64{0.5, 0.2, 0.2, 0.1}
	}
	condition := conditions[weightedIndex(pl.rng, weights)]
	summary := pick(pl.rng, conditionSummaries[condition])

	a := &MarketAnalysis{
		Timestamp:       pl.now(),
		Condition:       condition,
		Summary:         summary,
		Source:          SourceFallback,
		Recommendations: []Recommendation{},
	}

	limit := len(symbols)
	if limit > 5 {
		limit = 5
	}
	for _, symbol := range symbols[:limit] {
		a.Stocks = append(a.Stocks, pl.fallbackSignal(symbol, condition))
	}

	a.Recommendations = append(a.Recommendations, pl.fallbackBuys(symbols, snap, condition)...)
	a.Recommendations = append(a.Recommendations, pl.fallbackSells(snap)...)
	return a
}

func (pl *Pipeline) fallbackSignal(symbol string, condition Condition) StockSignal {
	// Signal weights biased by the chosen market condition.
	signals := []string{"BUY", "SELL", "HOLD"}
	weights := []float64{0.4, 0.3, 0.3}
	switch condition {
	case Bullish:
		weights = []float64{0.6, 0.2, 0.2}
	case Bearish:
		weights = []float64{0.2, 0.6, 0.2}
	}
	signal := signals[weightedIndex(pl.rng, weights)]
	base := marketdata.BasePrice(symbol)

	var target, stop float64
	switch signal {
	case "BUY":
		target = base * (1 + 0.05 + pl.rng.Float64()*0.10)
		stop = base * (1 - 0.03 - pl.rng.Float64()*0.05)
	case "SELL":
		target = base * (1 - 0.05 - pl.rng.Float64()*0.10)
		stop = base * (1 + 0.03 + pl.rng.Float64()*0.05)
	default:
		target = base * (1 - 0.05 + pl.rng.Float64()*0.10)
		stop = base * (1 - 0.05 - pl.rng.Float64()*0.05)
	}

	rr := 1.0
	if base != stop {
		rr = abs((target - base) / (base - stop))
	}

	return StockSignal{
		Symbol:      symbol,
		Signal:      signal,
		Confidence:  4 + pl.rng.Intn(5),
		Reasoning:   pick(pl.rng, signalReasons[signal]),
		TargetPrice: round2(target),
		StopLoss:    round2(stop),
		RiskReward:  round2(rr),
	}
}

// fallbackBuys proposes up to two buys, only when cash clears the minimum
// threshold and the market is not bearish.
func (pl *Pipeline) fallbackBuys(symbols []string, snap portfolio.Snapshot, condition Condition) []Recommendation {
	var out []Recommendation
	if snap.Cash <= pl.minCash || condition == Bearish {
		return out
	}

	limit := len(symbols)
	if limit > 3 {
		limit = 3
	}
	for _, symbol := range symbols[:limit] {
		if len(out) >= 2 || pl.rng.Float64() <= 0.5 {
			continue
		}
		base := marketdata.BasePrice(symbol)
		maxPositionValue := snap.TotalValue * pl.policy.MaxPositionPct
		shares := int(minf(snap.Cash*0.05, maxPositionValue) / base)
		if shares <= 0 {
			continue
		}
		out = append(out, Recommendation{
			Action:     "BUY",
			Symbol:     symbol,
			Shares:     shares,
			MaxPrice:   round2(base * 1.02),
			Reasoning:  fmt.Sprintf("Fallback: %s market, technical setup", condition),
			Confidence: 6,
		})
	}
	return out
}

// fallbackSells gives each held position an independent 30% chance of a
// partial profit-taking sell of up to half the shares. Positions are visited
// in symbol order so each rng draw pairs with the same symbol every run.
func (pl *Pipeline) fallbackSells(snap portfolio.Snapshot) []Recommendation {
	symbols := make([]string, 0, len(snap.Positions))
	for symbol := range snap.Positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var out []Recommendation
	for _, symbol := range symbols {
		pos := snap.Positions[symbol]
		if pl.rng.Float64() <= 0.7 {
			continue
		}
		shares := int(pos.Shares * 0.5)
		if shares <= 0 {
			continue
		}
		out = append(out, Recommendation{
			Action:     "SELL",
			Symbol:     pos.Symbol,
			Shares:     shares,
			MaxPrice:   round2(pos.CurrentPrice * 0.98),
			Reasoning:  "Fallback: profit taking on existing position",
			Confidence: 7,
		})
	}
	return out
}

// basicRecommendations is the minimal last-resort tier: one small BUY when
// cash is available, otherwise nothing.
func (pl *Pipeline) basicRecommendations(symbols []string, snap portfolio.Snapshot) []Recommendation {
	if snap.Cash <= pl.minCash || len(symbols) == 0 {
		return []Recommendation{}
	}
	shares := int(snap.Cash * 0.02 / 100)
	if shares < 1 {
		shares = 1
	}
	return []Recommendation{{
		Action:     "BUY",
		Symbol:     symbols[0],
		Shares:     shares,
		MaxPrice:   100.00,
		Reasoning:  "Minimal fallback: small position for portfolio diversification",
		Confidence: 3,
	}}
}

// weightedIndex draws an index from the weight distribution.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func round2(x float64) float64 {
	return float64(int64(x*100+0.5)) / 100
}
