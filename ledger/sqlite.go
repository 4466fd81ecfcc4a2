package ledger

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/traderlab/cryptofolio/futures"
	"github.com/traderlab/cryptofolio/market"
	"github.com/traderlab/cryptofolio/portfolio"
)

// SQLite is the Store implementation backed by a local SQLite file.
// Dates are stored as YYYY-MM-DD text; ids are ULID strings.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the ledger database at path
// and ensures the schema and the singleton wallet row exist.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) ListTrades(ctx context.Context) ([]portfolio.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, coin, type, amount, price_per_coin, total_cost_usd
		FROM spot_trades ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var trades []portfolio.Trade
	for rows.Next() {
		var t portfolio.Trade
		var date, typ string
		if err := rows.Scan(&t.ID, &date, &t.Coin, &typ, &t.Amount, &t.PricePerCoin, &t.TotalCostUSD); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		if t.Date, err = market.ParseDay(date); err != nil {
			return nil, fmt.Errorf("trade %s: bad date %q: %w", t.ID, date, err)
		}
		t.Type = portfolio.TradeType(typ)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLite) InsertTrade(ctx context.Context, t portfolio.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spot_trades
		(id, date, coin, type, amount, price_per_coin, total_cost_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, market.FormatDay(t.Date), t.Coin, string(t.Type),
		t.Amount, t.PricePerCoin, t.TotalCostUSD,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM spot_trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trade %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete trade %s: not found", id)
	}
	return nil
}

func (s *SQLite) ClearTrades(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM spot_trades`); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}
	return nil
}

func (s *SQLite) ListPositions(ctx context.Context) ([]futures.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, coin_id, direction, entry_price, margin, leverage
		FROM futures_positions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []futures.Position
	for rows.Next() {
		var p futures.Position
		var dir string
		if err := rows.Scan(&p.ID, &p.CoinID, &dir, &p.EntryPrice, &p.Margin, &p.Leverage); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.Direction = futures.Direction(dir)
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *SQLite) InsertPosition(ctx context.Context, p futures.Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO futures_positions
		(id, coin_id, direction, entry_price, margin, leverage)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.CoinID, string(p.Direction), p.EntryPrice, p.Margin, p.Leverage,
	)
	if err != nil {
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

func (s *SQLite) DeletePosition(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM futures_positions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete position %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete position %s: not found", id)
	}
	return nil
}

func (s *SQLite) ClearPositions(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM futures_positions`); err != nil {
		return fmt.Errorf("clear positions: %w", err)
	}
	return nil
}

func (s *SQLite) WalletBalance(ctx context.Context) (float64, error) {
	var balance float64
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM futures_wallet WHERE id = 1`).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("read wallet balance: %w", err)
	}
	return balance, nil
}

func (s *SQLite) SetWalletBalance(ctx context.Context, balance float64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE futures_wallet SET balance = ? WHERE id = 1`, balance); err != nil {
		return fmt.Errorf("write wallet balance: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
