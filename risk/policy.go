package risk

// Policy holds the fixed trading limits. Evaluation is pure: the policy never
// mutates state and never errors, it only renders verdicts.
type Policy struct {
	// MaxPositionPct caps a single buy at a fraction of the *current* total
	// portfolio value, so the limit tightens as losses accrue and loosens as
	// gains accrue.
	MaxPositionPct float64 // 0.10

	// MinTradeValue rejects dust trades in either direction.
	MinTradeValue float64 // 10.00
}

// Default returns the standard limits.
func Default() Policy {
	return Policy{
		MaxPositionPct: 0.10,
		MinTradeValue:  10.00,
	}
}

// TradeIntent is a proposed trade to be checked against the limits.
type TradeIntent struct {
	Action string // "BUY" or "SELL"
	Symbol string
	Shares float64
	Price  float64
}

// Value is the notional value of the proposed trade.
func (t TradeIntent) Value() float64 { return t.Shares * t.Price }

// AccountSnapshot is the ledger state the policy evaluates against.
type AccountSnapshot struct {
	Cash       float64
	TotalValue float64
	// Holdings maps symbol to shares currently held.
	Holdings map[string]float64
}
