package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DeepSeek is the AI-backed primary analysis source, speaking the
// chat-completions protocol.
type DeepSeek struct {
	client *resty.Client
	apiKey string
	model  string
}

const defaultEndpoint = "https://api.deepseek.com"

// NewDeepSeek builds a client. An empty endpoint uses the public API; the
// timeout bounds the whole request so a stalled provider can never block the
// fallback path.
func NewDeepSeek(apiKey, endpoint, model string, timeout time.Duration) *DeepSeek {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if model == "" {
		model = "deepseek-chat"
	}
	client := resty.New()
	client.SetBaseURL(endpoint)
	client.SetTimeout(timeout)
	client.SetAuthToken(apiKey)
	return &DeepSeek{client: client, apiKey: apiKey, model: model}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze asks the model for a market view and trade recommendations.
// Any transport, schema or parse failure is returned as an error; the caller
// treats all of them identically and falls back.
func (d *DeepSeek) Analyze(ctx context.Context, req Request) (*MarketAnalysis, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("deepseek: api key not configured")
	}

	body := map[string]any{
		"model": d.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a quantitative trading analyst specializing in risk-managed algorithmic trading."},
			{"role": "user", "content": buildPrompt(req)},
		},
		"temperature": 0.3,
		"max_tokens":  2000,
	}

	var cr chatResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&cr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("deepseek request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("deepseek http %d: %s", resp.StatusCode(), resp.String())
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("deepseek: empty choices")
	}

	return parseAnalysis(cr.Choices[0].Message.Content)
}

// parseAnalysis extracts and validates the JSON body of a model reply, which
// may be wrapped in prose or markdown fencing.
func parseAnalysis(content string) (*MarketAnalysis, error) {
	raw, err := ExtractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("deepseek response: %w", err)
	}

	var a MarketAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("parse deepseek response: %w", err)
	}

	a.Condition = Condition(strings.ToLower(string(a.Condition)))
	switch a.Condition {
	case Bullish, Bearish, Neutral, Volatile:
	default:
		return nil, fmt.Errorf("deepseek response: invalid market_condition %q", a.Condition)
	}

	for i := range a.Recommendations {
		a.Recommendations[i].Action = strings.ToUpper(strings.TrimSpace(a.Recommendations[i].Action))
	}
	if a.Recommendations == nil {
		a.Recommendations = []Recommendation{}
	}
	return &a, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following stocks for trading opportunities.\n\n")
	fmt.Fprintf(&b, "STOCKS TO ANALYZE: %s\n\n", strings.Join(req.Symbols, ", "))
	fmt.Fprintf(&b, "CURRENT PORTFOLIO:\n")
	fmt.Fprintf(&b, "- Total Value: $%.2f\n", req.Snapshot.TotalValue)
	fmt.Fprintf(&b, "- Cash Available: $%.2f\n", req.Snapshot.Cash)
	if len(req.Snapshot.Positions) == 0 {
		fmt.Fprintf(&b, "- Current Holdings: none\n")
	} else {
		fmt.Fprintf(&b, "- Current Holdings:\n")
		for _, pos := range req.Snapshot.Positions {
			fmt.Fprintf(&b, "  - %s: %.0f shares @ $%.2f avg (last $%.2f)\n",
				pos.Symbol, pos.Shares, pos.AvgPrice, pos.CurrentPrice)
		}
	}
	fmt.Fprintf(&b, "\nRISK PARAMETERS:\n")
	fmt.Fprintf(&b, "- Max position size: %.0f%% of portfolio value\n", 100*req.Policy.MaxPositionPct)
	fmt.Fprintf(&b, "- Minimum trade value: $%.2f\n", req.Policy.MinTradeValue)
	b.WriteString(`
Return your analysis as JSON with this structure:
{
  "market_condition": "bullish|bearish|neutral|volatile",
  "market_summary": "brief summary",
  "stock_analysis": [
    {"symbol": "AAPL", "signal": "BUY|SELL|HOLD", "confidence": 8,
     "reasoning": "...", "target_price": 160.00, "stop_loss": 145.00,
     "risk_reward_ratio": 2.5}
  ],
  "trade_recommendations": [
    {"action": "BUY", "symbol": "AAPL", "shares": 10, "max_price": 155.00,
     "reasoning": "...", "confidence": 7}
  ]
}

Focus on risk management and realistic position sizing.`)
	return b.String()
}
