package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalysis(t *testing.T) {
	t.Parallel()

	content := "Here is my analysis:\n```json\n" + `{
		"market_condition": "Bullish",
		"market_summary": "Broad strength.",
		"stock_analysis": [
			{"symbol": "AAPL", "signal": "BUY", "confidence": 8,
			 "reasoning": "Breakout.", "target_price": 160.0,
			 "stop_loss": 145.0, "risk_reward_ratio": 2.0}
		],
		"trade_recommendations": [
			{"action": "buy", "symbol": "AAPL", "shares": 6,
			 "max_price": 155.0, "reasoning": "Momentum.", "confidence": 7}
		]
	}` + "\n```"

	a, err := parseAnalysis(content)
	assert.NoError(t, err)
	assert.Equal(t, Bullish, a.Condition)
	assert.Len(t, a.Stocks, 1)
	assert.Len(t, a.Recommendations, 1)
	// Actions are normalized to upper case.
	assert.Equal(t, "BUY", a.Recommendations[0].Action)
	assert.Equal(t, 6, a.Recommendations[0].Shares)
}

func TestParseAnalysisInvalidCondition(t *testing.T) {
	t.Parallel()

	_, err := parseAnalysis(`{"market_condition": "sideways", "market_summary": "?"}`)
	assert.Error(t, err)
}

func TestParseAnalysisNoRecommendations(t *testing.T) {
	t.Parallel()

	a, err := parseAnalysis(`{"market_condition": "neutral", "market_summary": "Flat."}`)
	assert.NoError(t, err)
	assert.NotNil(t, a.Recommendations)
	assert.Empty(t, a.Recommendations)
}

func TestParseAnalysisNotJSON(t *testing.T) {
	t.Parallel()

	_, err := parseAnalysis("I am unable to provide an analysis today.")
	assert.Error(t, err)
}
