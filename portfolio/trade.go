package portfolio

import (
	"fmt"
	"strings"
	"time"

	"github.com/traderlab/cryptofolio/market"
	"github.com/traderlab/cryptofolio/pkg/id"
)

// TradeType distinguishes purchases from disposals.
type TradeType string

const (
	Buy  TradeType = "Buy"
	Sell TradeType = "Sell"
)

// ParseTradeType parses a user-supplied trade type, case-insensitively.
func ParseTradeType(s string) (TradeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return "", fmt.Errorf("invalid trade type %q (want Buy or Sell)", s)
}

// Trade is one spot ledger entry. Immutable once created; the only
// mutation the system performs on a trade is deletion.
//
// TotalCostUSD is fixed at creation time as Amount * PricePerCoin and
// never recomputed afterwards.
type Trade struct {
	ID           string
	Date         time.Time // calendar day, UTC midnight
	Coin         string    // free-form id, stored lower-case
	Type         TradeType
	Amount       float64
	PricePerCoin float64
	TotalCostUSD float64
}

// NewTrade validates the user-supplied fields and builds a trade with a
// fresh id and a fixed total cost. The coin id is lower-cased; no
// registry validates it beyond being non-empty.
func NewTrade(date time.Time, coin string, typ TradeType, amount, pricePerCoin float64) (Trade, error) {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		return Trade{}, fmt.Errorf("new trade: coin id is required")
	}
	if typ != Buy && typ != Sell {
		return Trade{}, fmt.Errorf("new trade: invalid type %q", typ)
	}
	if amount <= 0 {
		return Trade{}, fmt.Errorf("new trade: amount must be positive, got %v", amount)
	}
	if pricePerCoin < 0 {
		return Trade{}, fmt.Errorf("new trade: price per coin must not be negative, got %v", pricePerCoin)
	}

	return Trade{
		ID:           id.New(),
		Date:         market.DayOf(date),
		Coin:         coin,
		Type:         typ,
		Amount:       amount,
		PricePerCoin: pricePerCoin,
		TotalCostUSD: amount * pricePerCoin,
	}, nil
}

// SignedAmount is the trade's effect on holdings: positive for a Buy,
// negative for a Sell.
func (t Trade) SignedAmount() float64 {
	if t.Type == Sell {
		return -t.Amount
	}
	return t.Amount
}
