package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestFiles(t *testing.T) (*Files, string) {
	t.Helper()

	dir := t.TempDir()
	f, err := NewFiles(dir, 10000)
	assert.NoError(t, err)
	return f, dir
}

func TestFilesFreshInit(t *testing.T) {
	t.Parallel()

	f, dir := newTestFiles(t)

	// First use seeds the cash file and the trades header.
	assert.FileExists(t, filepath.Join(dir, "cash.json"))
	assert.FileExists(t, filepath.Join(dir, "trades.csv"))

	cash, positions, history, err := f.Load()
	assert.NoError(t, err)
	assert.InDelta(t, 10000.0, cash, 1e-9)
	assert.Empty(t, positions)
	assert.Empty(t, history)
}

func TestFilesRoundTrip(t *testing.T) {
	t.Parallel()

	f, dir := newTestFiles(t)

	assert.NoError(t, f.SaveCash(9100))
	assert.NoError(t, f.SavePositions(map[string]Position{
		"AAPL": {Symbol: "AAPL", Shares: 6, AvgPrice: 150, CurrentPrice: 160},
	}))
	assert.NoError(t, f.AppendTrade(TradeRecord{
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Symbol:    "AAPL",
		Action:    Buy,
		Shares:    6,
		Price:     150,
		Reasoning: "entry",
	}))

	// A second store over the same directory sees everything.
	f2, err := NewFiles(dir, 10000)
	assert.NoError(t, err)

	cash, positions, history, err := f2.Load()
	assert.NoError(t, err)
	assert.InDelta(t, 9100.0, cash, 1e-9)
	assert.Len(t, positions, 1)

	pos := positions["AAPL"]
	assert.InDelta(t, 6.0, pos.Shares, 1e-9)
	assert.InDelta(t, 150.0, pos.AvgPrice, 1e-9)
	assert.InDelta(t, 160.0, pos.CurrentPrice, 1e-9)

	assert.Len(t, history, 1)
	assert.Equal(t, Buy, history[0].Action)
	assert.Equal(t, "entry", history[0].Reasoning)
}

func TestFilesCorruptCashReinitializes(t *testing.T) {
	t.Parallel()

	f, dir := newTestFiles(t)
	assert.NoError(t, f.SaveCash(5000))

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "cash.json"), []byte("{not json"), 0o644))

	cash, _, _, err := f.Load()
	assert.NoError(t, err)
	assert.InDelta(t, 10000.0, cash, 1e-9)
}

func TestFilesCorruptPositionRowSkipped(t *testing.T) {
	t.Parallel()

	f, dir := newTestFiles(t)

	csv := "symbol,shares,avg_price,current_price,market_value,pnl\n" +
		"AAPL,6,150,160,960,60\n" +
		"MSFT,garbage,300,310,930,30\n"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio.csv"), []byte(csv), 0o644))

	_, positions, _, err := f.Load()
	assert.NoError(t, err)
	assert.Len(t, positions, 1)
	assert.Contains(t, positions, "AAPL")
}

func TestFilesRecentTradesLimit(t *testing.T) {
	t.Parallel()

	f, _ := newTestFiles(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		assert.NoError(t, f.AppendTrade(TradeRecord{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Symbol:    "AAPL",
			Action:    Buy,
			Shares:    float64(i + 1),
			Price:     150,
			Reasoning: "test",
		}))
	}

	recent, err := f.RecentTrades(2)
	assert.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.InDelta(t, 4.0, recent[0].Shares, 1e-9)
	assert.InDelta(t, 5.0, recent[1].Shares, 1e-9)
}
