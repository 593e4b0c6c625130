package portfolio

import "github.com/rustyeddy/daytrader/ledger"

// Summary holds the derived performance metrics. Percentages are computed
// against the fixed initial capital, not against invested capital.
type Summary struct {
	Cash           float64
	Invested       float64
	MarketValue    float64
	TotalValue     float64
	TotalPnL       float64
	TotalReturn    float64
	TotalReturnPct float64
	InitialCapital float64
}

// Performance derives the current performance metrics from the ledger state.
func (p *Portfolio) Performance() Summary {
	var invested, marketValue, totalPnL float64
	for _, pos := range p.positions {
		invested += pos.Shares * pos.AvgPrice
		marketValue += pos.MarketValue()
		totalPnL += pos.UnrealizedPnL()
	}

	totalValue := p.cash + marketValue
	totalReturn := totalValue - p.initialCapital

	return Summary{
		Cash:           p.cash,
		Invested:       invested,
		MarketValue:    marketValue,
		TotalValue:     totalValue,
		TotalPnL:       totalPnL,
		TotalReturn:    totalReturn,
		TotalReturnPct: totalReturn / p.initialCapital * 100,
		InitialCapital: p.initialCapital,
	}
}

// Snapshot is a read-only view of the ledger used by the risk policy and the
// decision pipeline.
type Snapshot struct {
	Cash       float64
	TotalValue float64
	Positions  map[string]ledger.Position
}

// Snapshot captures the current cash, total portfolio value and positions.
func (p *Portfolio) Snapshot() Snapshot {
	marketValue := 0.0
	for _, pos := range p.positions {
		marketValue += pos.MarketValue()
	}
	return Snapshot{
		Cash:       p.cash,
		TotalValue: p.cash + marketValue,
		Positions:  p.copyPositions(),
	}
}
