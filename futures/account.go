package futures

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/traderlab/cryptofolio/pkg/id"
)

var (
	// ErrInsufficientMargin rejects an Open whose margin exceeds the
	// wallet balance.
	ErrInsufficientMargin = errors.New("futures: insufficient wallet balance for margin")

	// ErrInsufficientFunds rejects a Withdraw larger than the balance.
	ErrInsufficientFunds = errors.New("futures: insufficient wallet balance")

	// ErrPositionNotFound rejects a Close of an unknown position id.
	ErrPositionNotFound = errors.New("futures: position not found")
)

// Store is the slice of the ledger the wallet state machine needs.
// The sqlite implementation lives in the ledger package.
//
// The wallet is a single balance record. Transitions here assume a
// single writer with last-write-wins semantics; nothing guards the
// read-modify-write sequence against a concurrent writer.
type Store interface {
	ListPositions(ctx context.Context) ([]Position, error)
	InsertPosition(ctx context.Context, p Position) error
	DeletePosition(ctx context.Context, id string) error
	ClearPositions(ctx context.Context) error

	WalletBalance(ctx context.Context) (float64, error)
	SetWalletBalance(ctx context.Context, balance float64) error
}

// Account drives the wallet state machine over a Store. All state
// lives in the store; Account itself is stateless.
type Account struct {
	store Store
}

func NewAccount(store Store) *Account {
	return &Account{store: store}
}

// OpenRequest carries the user-supplied parameters for opening a
// position. Margin is derived, never supplied.
type OpenRequest struct {
	CoinID     string
	Direction  Direction
	SizeUSD    float64
	Leverage   float64
	EntryPrice float64
}

func (r OpenRequest) validate() error {
	if strings.TrimSpace(r.CoinID) == "" {
		return fmt.Errorf("open position: coin id is required")
	}
	if r.Direction != Long && r.Direction != Short {
		return fmt.Errorf("open position: invalid direction %q", r.Direction)
	}
	if r.SizeUSD <= 0 {
		return fmt.Errorf("open position: size must be positive, got %v", r.SizeUSD)
	}
	if r.Leverage < MinLeverage || r.Leverage > MaxLeverage {
		return fmt.Errorf("open position: leverage must be in [%d,%d], got %v", MinLeverage, MaxLeverage, r.Leverage)
	}
	if r.EntryPrice <= 0 {
		return fmt.Errorf("open position: entry price must be positive, got %v", r.EntryPrice)
	}
	return nil
}

// Open validates the request, checks margin against the wallet, and
// creates the position. The margin debit and the position insert are
// one logical transaction: the position is inserted first, and a
// failing debit rolls it back with a compensating delete, so no code
// path leaves the wallet debited without a position.
func (a *Account) Open(ctx context.Context, req OpenRequest) (Position, error) {
	if err := req.validate(); err != nil {
		return Position{}, err
	}

	margin := req.SizeUSD / req.Leverage

	balance, err := a.store.WalletBalance(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("open position: read wallet: %w", err)
	}
	if balance < margin {
		return Position{}, fmt.Errorf("open position: need %.2f margin, wallet has %.2f: %w",
			margin, balance, ErrInsufficientMargin)
	}

	pos := Position{
		ID:         id.New(),
		CoinID:     strings.ToLower(strings.TrimSpace(req.CoinID)),
		Direction:  req.Direction,
		EntryPrice: req.EntryPrice,
		Margin:     margin,
		Leverage:   req.Leverage,
	}

	if err := a.store.InsertPosition(ctx, pos); err != nil {
		return Position{}, fmt.Errorf("open position: insert: %w", err)
	}
	if err := a.store.SetWalletBalance(ctx, balance-margin); err != nil {
		// Roll the insert back so wallet and positions stay consistent.
		if derr := a.store.DeletePosition(ctx, pos.ID); derr != nil {
			return Position{}, fmt.Errorf("open position: debit failed (%v) and rollback failed: %w", err, derr)
		}
		return Position{}, fmt.Errorf("open position: debit wallet: %w", err)
	}
	return pos, nil
}

// CloseResult reports what a Close did.
type CloseResult struct {
	Position Position
	Metrics  Metrics
	CashBack float64
}

// Close realizes a position at livePrice and returns its cash to the
// wallet. Cash back is margin plus P/L, floored at zero: margin is the
// maximum at-risk capital, so losses beyond it are capped, never
// collected. The credit is written first; a failing delete restores
// the prior balance.
func (a *Account) Close(ctx context.Context, positionID string, livePrice float64) (CloseResult, error) {
	positions, err := a.store.ListPositions(ctx)
	if err != nil {
		return CloseResult{}, fmt.Errorf("close position: list: %w", err)
	}

	var pos Position
	found := false
	for _, p := range positions {
		if p.ID == positionID {
			pos, found = p, true
			break
		}
	}
	if !found {
		return CloseResult{}, fmt.Errorf("close position %q: %w", positionID, ErrPositionNotFound)
	}

	m, err := Compute(pos, livePrice)
	if err != nil {
		return CloseResult{}, fmt.Errorf("close position %q: %w", positionID, err)
	}
	cashBack := math.Max(0, pos.Margin+m.PnLUSD)

	balance, err := a.store.WalletBalance(ctx)
	if err != nil {
		return CloseResult{}, fmt.Errorf("close position: read wallet: %w", err)
	}
	if err := a.store.SetWalletBalance(ctx, balance+cashBack); err != nil {
		return CloseResult{}, fmt.Errorf("close position: credit wallet: %w", err)
	}
	if err := a.store.DeletePosition(ctx, pos.ID); err != nil {
		if rerr := a.store.SetWalletBalance(ctx, balance); rerr != nil {
			return CloseResult{}, fmt.Errorf("close position: delete failed (%v) and rollback failed: %w", err, rerr)
		}
		return CloseResult{}, fmt.Errorf("close position: delete: %w", err)
	}

	return CloseResult{Position: pos, Metrics: m, CashBack: cashBack}, nil
}

// Deposit adds cash to the wallet.
func (a *Account) Deposit(ctx context.Context, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deposit: amount must be positive, got %v", amount)
	}
	balance, err := a.store.WalletBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("deposit: read wallet: %w", err)
	}
	next := balance + amount
	if err := a.store.SetWalletBalance(ctx, next); err != nil {
		return 0, fmt.Errorf("deposit: write wallet: %w", err)
	}
	return next, nil
}

// Withdraw removes cash from the wallet. Fails before any mutation if
// the amount exceeds the balance.
func (a *Account) Withdraw(ctx context.Context, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("withdraw: amount must be positive, got %v", amount)
	}
	balance, err := a.store.WalletBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("withdraw: read wallet: %w", err)
	}
	if amount > balance {
		return 0, fmt.Errorf("withdraw: %.2f exceeds balance %.2f: %w", amount, balance, ErrInsufficientFunds)
	}
	next := balance - amount
	if err := a.store.SetWalletBalance(ctx, next); err != nil {
		return 0, fmt.Errorf("withdraw: write wallet: %w", err)
	}
	return next, nil
}

// ClearAll deletes every position and zeroes the wallet. Irreversible;
// exists for full resets only.
func (a *Account) ClearAll(ctx context.Context) error {
	if err := a.store.ClearPositions(ctx); err != nil {
		return fmt.Errorf("clear futures: positions: %w", err)
	}
	if err := a.store.SetWalletBalance(ctx, 0); err != nil {
		return fmt.Errorf("clear futures: wallet: %w", err)
	}
	return nil
}
