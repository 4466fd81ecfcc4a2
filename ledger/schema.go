package ledger

const schema = `
CREATE TABLE IF NOT EXISTS spot_trades (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	coin TEXT NOT NULL,
	type TEXT NOT NULL,
	amount REAL NOT NULL,
	price_per_coin REAL NOT NULL,
	total_cost_usd REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_spot_trades_coin ON spot_trades(coin);

CREATE TABLE IF NOT EXISTS futures_positions (
	id TEXT PRIMARY KEY,
	coin_id TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	margin REAL NOT NULL,
	leverage REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS futures_wallet (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	balance REAL NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO futures_wallet (id, balance) VALUES (1, 0);
`
