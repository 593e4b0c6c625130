package ledger

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rustyeddy/daytrader/logger"
)

// Files persists the ledger as flat files in a directory: positions as CSV,
// trade history as append-only CSV, cash as a small JSON record. This is the
// legacy on-disk layout; field names and column order are stable across
// restarts.
type Files struct {
	dir         string
	initialCash float64
}

const (
	positionsFile = "portfolio.csv"
	tradesFile    = "trades.csv"
	cashFile      = "cash.json"
)

var positionsHeader = []string{"symbol", "shares", "avg_price", "current_price", "market_value", "pnl"}
var tradesHeader = []string{"timestamp", "symbol", "action", "shares", "price", "reasoning"}

type cashRecord struct {
	Cash        float64 `json:"cash"`
	LastUpdated string  `json:"last_updated"`
}

// NewFiles creates a file-backed store rooted at dir, creating the directory
// and empty data files on first use.
func NewFiles(dir string, initialCash float64) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	f := &Files{dir: dir, initialCash: initialCash}

	if _, err := os.Stat(f.path(cashFile)); os.IsNotExist(err) {
		logger.Info(context.Background(), "initializing fresh ledger", "dir", dir, "cash", initialCash)
		if err := f.SaveCash(initialCash); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(f.path(tradesFile)); os.IsNotExist(err) {
		if err := f.writeCSV(tradesFile, tradesHeader, nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Files) path(name string) string { return filepath.Join(f.dir, name) }

// Load reads the persisted ledger. A missing or corrupt file reinitializes
// that part of the state to its default instead of failing the caller; the
// recovery is logged so it can be told apart from a fresh install.
func (f *Files) Load() (float64, map[string]Position, []TradeRecord, error) {
	cash := f.loadCash()
	positions := f.loadPositions()
	history := f.loadTrades(0)
	return cash, positions, history, nil
}

func (f *Files) loadCash() float64 {
	data, err := os.ReadFile(f.path(cashFile))
	if err != nil {
		return f.initialCash
	}
	var rec cashRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Warn(context.Background(), "cash file corrupt, reinitializing",
			"file", f.path(cashFile), "error", err, "cash", f.initialCash)
		return f.initialCash
	}
	return rec.Cash
}

func (f *Files) loadPositions() map[string]Position {
	positions := map[string]Position{}

	file, err := os.Open(f.path(positionsFile))
	if err != nil {
		return positions
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil || len(rows) == 0 {
		if err != nil {
			logger.Warn(context.Background(), "positions file corrupt, reinitializing",
				"file", f.path(positionsFile), "error", err)
		}
		return positions
	}

	for _, row := range rows[1:] { // skip header
		if len(row) < 4 {
			continue
		}
		shares, err1 := strconv.ParseFloat(row[1], 64)
		avg, err2 := strconv.ParseFloat(row[2], 64)
		cur, err3 := strconv.ParseFloat(row[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			logger.Warn(context.Background(), "skipping corrupt position row", "row", row)
			continue
		}
		positions[row[0]] = Position{Symbol: row[0], Shares: shares, AvgPrice: avg, CurrentPrice: cur}
	}
	return positions
}

func (f *Files) loadTrades(limit int) []TradeRecord {
	file, err := os.Open(f.path(tradesFile))
	if err != nil {
		return nil
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil || len(rows) == 0 {
		if err != nil {
			logger.Warn(context.Background(), "trades file corrupt, history unavailable",
				"file", f.path(tradesFile), "error", err)
		}
		return nil
	}

	rows = rows[1:] // skip header
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	var out []TradeRecord
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, row[0])
		shares, err1 := strconv.ParseFloat(row[3], 64)
		price, err2 := strconv.ParseFloat(row[4], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, TradeRecord{
			Timestamp: ts,
			Symbol:    row[1],
			Action:    Action(row[2]),
			Shares:    shares,
			Price:     price,
			Reasoning: row[5],
		})
	}
	return out
}

func (f *Files) SaveCash(cash float64) error {
	data, err := json.Marshal(cashRecord{
		Cash:        cash,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("save cash: %w", err)
	}
	if err := os.WriteFile(f.path(cashFile), data, 0o644); err != nil {
		return fmt.Errorf("save cash: %w", err)
	}
	return nil
}

func (f *Files) SavePositions(positions map[string]Position) error {
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, []string{
			p.Symbol,
			fv(p.Shares),
			fv(p.AvgPrice),
			fv(p.CurrentPrice),
			fv(p.MarketValue()),
			fv(p.UnrealizedPnL()),
		})
	}
	if err := f.writeCSV(positionsFile, positionsHeader, rows); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}

func (f *Files) AppendTrade(rec TradeRecord) error {
	file, err := os.OpenFile(f.path(tradesFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append trade: %w", err)
	}

	w := csv.NewWriter(file)
	w.Write([]string{
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.Symbol,
		string(rec.Action),
		fv(rec.Shares),
		fv(rec.Price),
		rec.Reasoning,
	})
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("append trade: %w", err)
	}
	return file.Close()
}

func (f *Files) RecentTrades(limit int) ([]TradeRecord, error) {
	return f.loadTrades(limit), nil
}

func (f *Files) Close() error { return nil }

func (f *Files) writeCSV(name string, header []string, rows [][]string) error {
	file, err := os.Create(f.path(name))
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	w.Write(header)
	for _, row := range rows {
		w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func fv(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
