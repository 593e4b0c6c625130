package risk

import "fmt"

// Decision is the structured verdict for a proposed trade. Rules are checked
// in a fixed order and the first failing rule wins; Reason is always human
// readable.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string
}

func deny(code, format string, args ...any) Decision {
	return Decision{Allowed: false, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Violation codes.
const (
	CodeOK               = "OK"
	CodePositionTooLarge = "POSITION_TOO_LARGE"
	CodeInsufficientCash = "INSUFFICIENT_CASH"
	CodeTradeTooSmall    = "TRADE_TOO_SMALL"
	CodeNoPosition       = "NO_POSITION"
	CodeNotEnoughShares  = "NOT_ENOUGH_SHARES"
	CodeUnknownAction    = "UNKNOWN_ACTION"
)

// Evaluate checks a proposed trade against the policy limits and the current
// ledger snapshot. It never errors; rejections carry a specific reason.
func Evaluate(p Policy, intent TradeIntent, acct AccountSnapshot) Decision {
	value := intent.Value()

	switch intent.Action {
	case "BUY":
		limit := p.MaxPositionPct * acct.TotalValue
		if value > limit {
			return deny(CodePositionTooLarge,
				"position size $%.2f exceeds %.0f%% limit ($%.2f)",
				value, 100*p.MaxPositionPct, limit)
		}
		if value > acct.Cash {
			return deny(CodeInsufficientCash,
				"insufficient cash: need $%.2f, have $%.2f", value, acct.Cash)
		}
		if value < p.MinTradeValue {
			return deny(CodeTradeTooSmall,
				"trade value $%.2f below minimum $%.2f", value, p.MinTradeValue)
		}

	case "SELL":
		if value < p.MinTradeValue {
			return deny(CodeTradeTooSmall,
				"sell value $%.2f below minimum $%.2f", value, p.MinTradeValue)
		}
		held, ok := acct.Holdings[intent.Symbol]
		if !ok {
			return deny(CodeNoPosition, "no %s position to sell", intent.Symbol)
		}
		if intent.Shares > held {
			return deny(CodeNotEnoughShares,
				"not enough shares: trying to sell %.0f, have %.0f", intent.Shares, held)
		}

	default:
		return deny(CodeUnknownAction, "unknown action: %q", intent.Action)
	}

	return Decision{Allowed: true, Code: CodeOK, Reason: "all risk checks passed"}
}
