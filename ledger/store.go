// Package ledger persists the trading account: cash balance, open positions
// and the append-only trade history. Stores are dumb: they hold whatever the
// accounting engine gives them and enforce no trading rules of their own.
package ledger

import "time"

// Action is the side of a trade.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Position is an open holding, keyed by symbol. Shares is always > 0 while
// the position exists; a fully sold position is deleted, never kept at zero.
type Position struct {
	Symbol       string
	Shares       float64
	AvgPrice     float64 // weighted-average cost basis, untouched by sells
	CurrentPrice float64 // last marked price, valuation only
}

// MarketValue is the position valued at the last marked price.
func (p Position) MarketValue() float64 {
	return p.Shares * p.CurrentPrice
}

// UnrealizedPnL is the paper gain or loss against cost basis.
func (p Position) UnrealizedPnL() float64 {
	return (p.CurrentPrice - p.AvgPrice) * p.Shares
}

// TradeRecord is one executed trade. Records are append-only and immutable
// once written.
type TradeRecord struct {
	TradeID   string
	Timestamp time.Time
	Symbol    string
	Action    Action
	Shares    float64
	Price     float64
	Reasoning string
}

// Store is the persistence contract for the account ledger.
//
// Every mutating call must durably write before returning, so a crash after
// a successful call can never lose the mutation. Load tolerates missing or
// corrupt state by reinitializing to the store's starting defaults; write
// failures are returned as errors because ledger consistency can no longer
// be guaranteed once a write is lost.
type Store interface {
	Load() (cash float64, positions map[string]Position, history []TradeRecord, err error)
	SaveCash(cash float64) error
	SavePositions(positions map[string]Position) error
	AppendTrade(rec TradeRecord) error
	RecentTrades(limit int) ([]TradeRecord, error)
	Close() error
}
