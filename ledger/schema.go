// ledger/schema.go
package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS cash (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	cash REAL NOT NULL,
	last_updated DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	symbol TEXT PRIMARY KEY,
	shares REAL NOT NULL,
	avg_price REAL NOT NULL,
	current_price REAL NOT NULL,
	market_value REAL NOT NULL,
	pnl REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	timestamp DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	shares REAL NOT NULL,
	price REAL NOT NULL,
	reasoning TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
`
