package ledger

// Memory is an in-memory store for tests and dry runs. It satisfies the same
// durability contract trivially: nothing persists past the process.
type Memory struct {
	cash      float64
	positions map[string]Position
	history   []TradeRecord
}

func NewMemory(initialCash float64) *Memory {
	return &Memory{cash: initialCash, positions: map[string]Position{}}
}

func (m *Memory) Load() (float64, map[string]Position, []TradeRecord, error) {
	positions := make(map[string]Position, len(m.positions))
	for k, v := range m.positions {
		positions[k] = v
	}
	history := make([]TradeRecord, len(m.history))
	copy(history, m.history)
	return m.cash, positions, history, nil
}

func (m *Memory) SaveCash(cash float64) error {
	m.cash = cash
	return nil
}

func (m *Memory) SavePositions(positions map[string]Position) error {
	m.positions = make(map[string]Position, len(positions))
	for k, v := range positions {
		m.positions[k] = v
	}
	return nil
}

func (m *Memory) AppendTrade(rec TradeRecord) error {
	m.history = append(m.history, rec)
	return nil
}

func (m *Memory) RecentTrades(limit int) ([]TradeRecord, error) {
	if limit <= 0 || limit >= len(m.history) {
		out := make([]TradeRecord, len(m.history))
		copy(out, m.history)
		return out, nil
	}
	out := make([]TradeRecord, limit)
	copy(out, m.history[len(m.history)-limit:])
	return out, nil
}

func (m *Memory) Close() error { return nil }
