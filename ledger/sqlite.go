package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists the ledger in a single SQLite database file.
type SQLite struct {
	db          *sql.DB
	initialCash float64
}

// NewSQLite opens (or creates) the ledger database at path. A fresh database
// is initialized with the given starting cash.
func NewSQLite(path string, initialCash float64) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	// Seed the single cash row on first run only.
	_, err = db.Exec(`INSERT OR IGNORE INTO cash (id, cash, last_updated) VALUES (1, ?, ?)`,
		initialCash, time.Now().UTC())
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, initialCash: initialCash}, nil
}

func (s *SQLite) Load() (float64, map[string]Position, []TradeRecord, error) {
	cash := s.initialCash
	err := s.db.QueryRow(`SELECT cash FROM cash WHERE id = 1`).Scan(&cash)
	if err != nil && err != sql.ErrNoRows {
		return 0, nil, nil, fmt.Errorf("load cash: %w", err)
	}

	positions := map[string]Position{}
	rows, err := s.db.Query(`SELECT symbol, shares, avg_price, current_price FROM positions`)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("load positions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.Symbol, &p.Shares, &p.AvgPrice, &p.CurrentPrice); err != nil {
			return 0, nil, nil, fmt.Errorf("load positions: %w", err)
		}
		positions[p.Symbol] = p
	}
	if err := rows.Err(); err != nil {
		return 0, nil, nil, fmt.Errorf("load positions: %w", err)
	}

	history, err := s.listTrades(`SELECT trade_id, timestamp, symbol, action, shares, price, reasoning
		FROM trades ORDER BY trade_id ASC`)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("load trades: %w", err)
	}

	return cash, positions, history, nil
}

func (s *SQLite) SaveCash(cash float64) error {
	_, err := s.db.Exec(`UPDATE cash SET cash = ?, last_updated = ? WHERE id = 1`,
		cash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save cash: %w", err)
	}
	return nil
}

// SavePositions replaces the position table with the given set, atomically.
func (s *SQLite) SavePositions(positions map[string]Position) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM positions`); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	for _, p := range positions {
		_, err := tx.Exec(`INSERT INTO positions
			(symbol, shares, avg_price, current_price, market_value, pnl)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.Symbol, p.Shares, p.AvgPrice, p.CurrentPrice, p.MarketValue(), p.UnrealizedPnL())
		if err != nil {
			return fmt.Errorf("save position %s: %w", p.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}

func (s *SQLite) AppendTrade(rec TradeRecord) error {
	_, err := s.db.Exec(`INSERT INTO trades
		(trade_id, timestamp, symbol, action, shares, price, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.TradeID, rec.Timestamp, rec.Symbol, string(rec.Action),
		rec.Shares, rec.Price, rec.Reasoning)
	if err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}

// RecentTrades returns the last limit trades in chronological order.
func (s *SQLite) RecentTrades(limit int) ([]TradeRecord, error) {
	recs, err := s.listTrades(`SELECT trade_id, timestamp, symbol, action, shares, price, reasoning
		FROM trades ORDER BY trade_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent trades: %w", err)
	}
	// Reverse back to insertion order.
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

func (s *SQLite) listTrades(query string, args ...any) ([]TradeRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var action string
		if err := rows.Scan(&rec.TradeID, &rec.Timestamp, &rec.Symbol, &action,
			&rec.Shares, &rec.Price, &rec.Reasoning); err != nil {
			return nil, err
		}
		rec.Action = Action(action)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
