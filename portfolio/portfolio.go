// Package portfolio applies buy and sell operations to the ledger, maintains
// weighted-average cost basis and derives performance metrics.
package portfolio

import (
	"fmt"
	"time"

	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/pkg/id"
)

// Portfolio is the accounting engine. It owns an explicit store handle and is
// the only writer of cash and position state. Single-writer by design: no
// internal locking, callers serialize access per cycle.
type Portfolio struct {
	store          ledger.Store
	initialCapital float64

	cash      float64
	positions map[string]ledger.Position
}

// New loads the persisted ledger state through the given store.
func New(store ledger.Store, initialCapital float64) (*Portfolio, error) {
	cash, positions, _, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if positions == nil {
		positions = map[string]ledger.Position{}
	}
	return &Portfolio{
		store:          store,
		initialCapital: initialCapital,
		cash:           cash,
		positions:      positions,
	}, nil
}

// Buy purchases shares at price. Returns false with no mutation and no trade
// record when a precondition fails: shares and price must be positive and the
// cost must not exceed available cash. The cash check is a last-resort
// invariant guard; sizing limits belong to the risk policy.
//
// State is persisted before the in-memory ledger is updated, so a store error
// means no money moved.
func (p *Portfolio) Buy(symbol string, shares, price float64, reasoning string) (bool, error) {
	if symbol == "" || shares <= 0 || price <= 0 {
		return false, nil
	}
	cost := shares * price
	if cost > p.cash {
		return false, nil
	}

	pos, held := p.positions[symbol]
	if held {
		// Weighted-average cost basis across all accumulating buys.
		totalShares := pos.Shares + shares
		pos.AvgPrice = (pos.Shares*pos.AvgPrice + cost) / totalShares
		pos.Shares = totalShares
	} else {
		pos = ledger.Position{Symbol: symbol, Shares: shares, AvgPrice: price}
	}
	pos.CurrentPrice = price

	newPositions := p.copyPositions()
	newPositions[symbol] = pos

	rec := ledger.TradeRecord{
		TradeID:   id.New(),
		Timestamp: time.Now().UTC(),
		Symbol:    symbol,
		Action:    ledger.Buy,
		Shares:    shares,
		Price:     price,
		Reasoning: reasoning,
	}
	if err := p.persist(p.cash-cost, newPositions, rec); err != nil {
		return false, err
	}

	p.cash -= cost
	p.positions = newPositions
	return true, nil
}

// Sell disposes shares at price. Returns false with no mutation when there is
// no position or not enough shares. Selling the whole position deletes it;
// a partial sell leaves the cost basis untouched.
func (p *Portfolio) Sell(symbol string, shares, price float64, reasoning string) (bool, error) {
	if symbol == "" || shares <= 0 || price <= 0 {
		return false, nil
	}
	pos, held := p.positions[symbol]
	if !held || shares > pos.Shares {
		return false, nil
	}

	newPositions := p.copyPositions()
	if shares == pos.Shares {
		delete(newPositions, symbol)
	} else {
		pos.Shares -= shares
		pos.CurrentPrice = price
		newPositions[symbol] = pos
	}

	proceeds := shares * price
	rec := ledger.TradeRecord{
		TradeID:   id.New(),
		Timestamp: time.Now().UTC(),
		Symbol:    symbol,
		Action:    ledger.Sell,
		Shares:    shares,
		Price:     price,
		Reasoning: reasoning,
	}
	if err := p.persist(p.cash+proceeds, newPositions, rec); err != nil {
		return false, err
	}

	p.cash += proceeds
	p.positions = newPositions
	return true, nil
}

// MarkPrices updates the last observed price for each held symbol. Cash and
// cost basis are never touched; symbols not held are ignored.
func (p *Portfolio) MarkPrices(prices map[string]float64) error {
	newPositions := p.copyPositions()
	changed := false
	for symbol, price := range prices {
		pos, held := newPositions[symbol]
		if !held {
			continue
		}
		pos.CurrentPrice = price
		newPositions[symbol] = pos
		changed = true
	}
	if !changed {
		return nil
	}
	if err := p.store.SavePositions(newPositions); err != nil {
		return err
	}
	p.positions = newPositions
	return nil
}

// RealizedPnL is the gain locked in by a sell, computed against the cost
// basis at time of sale. A read-only derivation, not stored state.
func RealizedPnL(sellPrice, avgPrice, shares float64) float64 {
	return (sellPrice - avgPrice) * shares
}

// Cash returns the free cash available for trading.
func (p *Portfolio) Cash() float64 { return p.cash }

// InitialCapital returns the fixed starting capital metric base.
func (p *Portfolio) InitialCapital() float64 { return p.initialCapital }

// Position returns the open position for symbol, if any.
func (p *Portfolio) Position(symbol string) (ledger.Position, bool) {
	pos, ok := p.positions[symbol]
	return pos, ok
}

// Positions returns a copy of the open position set.
func (p *Portfolio) Positions() map[string]ledger.Position {
	return p.copyPositions()
}

// RecentTrades returns the last limit trades in chronological order.
func (p *Portfolio) RecentTrades(limit int) ([]ledger.TradeRecord, error) {
	return p.store.RecentTrades(limit)
}

func (p *Portfolio) copyPositions() map[string]ledger.Position {
	out := make(map[string]ledger.Position, len(p.positions))
	for k, v := range p.positions {
		out[k] = v
	}
	return out
}

// persist writes the post-trade state: cash, positions, then the trade
// record. Write-then-acknowledge: callers only commit in-memory state after
// this returns nil.
func (p *Portfolio) persist(cash float64, positions map[string]ledger.Position, rec ledger.TradeRecord) error {
	if err := p.store.SaveCash(cash); err != nil {
		return fmt.Errorf("persist trade %s: %w", rec.TradeID, err)
	}
	if err := p.store.SavePositions(positions); err != nil {
		return fmt.Errorf("persist trade %s: %w", rec.TradeID, err)
	}
	if err := p.store.AppendTrade(rec); err != nil {
		return fmt.Errorf("persist trade %s: %w", rec.TradeID, err)
	}
	return nil
}
