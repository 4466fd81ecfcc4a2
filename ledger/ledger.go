// Package ledger persists spot trades, futures positions, and the
// futures wallet balance.
package ledger

import (
	"context"

	"github.com/traderlab/cryptofolio/futures"
	"github.com/traderlab/cryptofolio/portfolio"
)

// Store is the full persistence contract. The wallet balance is a
// single record; its updates assume one writer with last-write-wins
// semantics (no transaction or version token guards the record).
type Store interface {
	ListTrades(ctx context.Context) ([]portfolio.Trade, error)
	InsertTrade(ctx context.Context, t portfolio.Trade) error
	DeleteTrade(ctx context.Context, id string) error
	ClearTrades(ctx context.Context) error

	futures.Store

	Close() error
}
