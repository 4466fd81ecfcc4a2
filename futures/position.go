package futures

import (
	"errors"
	"fmt"
	"strings"
)

// Direction of a leveraged position.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// ParseDirection parses a user-supplied direction, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	}
	return "", fmt.Errorf("invalid direction %q (want Long or Short)", s)
}

// Leverage bounds accepted on open.
const (
	MinLeverage = 1
	MaxLeverage = 250
)

// ErrZeroEntryPrice is returned by Compute when a position somehow
// carries a zero entry price. Entry prices are validated positive at
// open time, so hitting this indicates corrupt stored data.
var ErrZeroEntryPrice = errors.New("futures: entry price is zero")

// Position is one open leveraged position backed by margin debited
// from the futures wallet. Margin is fixed at open time as
// size_usd / leverage and never re-derived.
type Position struct {
	ID         string
	CoinID     string
	Direction  Direction
	EntryPrice float64
	Margin     float64
	Leverage   float64
}

// Metrics are the derived per-position figures under a given live
// price.
type Metrics struct {
	LivePrice        float64
	SizeUSD          float64
	SizeCoins        float64
	LiquidationPrice float64
	PnLUSD           float64
	PnLPercent       float64
}

// Compute derives the position's size, liquidation threshold and P/L
// under livePrice. Pure.
//
// The model is simplified isolated margin: the liquidation price is
// where the loss equals the full margin. The system only reports the
// threshold; it never auto-closes at it. No funding, fees, or partial
// liquidation.
func Compute(p Position, livePrice float64) (Metrics, error) {
	if p.EntryPrice == 0 {
		return Metrics{}, ErrZeroEntryPrice
	}

	m := Metrics{LivePrice: livePrice}
	m.SizeUSD = p.Margin * p.Leverage
	m.SizeCoins = m.SizeUSD / p.EntryPrice

	switch p.Direction {
	case Short:
		m.LiquidationPrice = p.EntryPrice * (1 + 1/p.Leverage)
		m.PnLUSD = (p.EntryPrice - livePrice) * m.SizeCoins
	default: // Long
		m.LiquidationPrice = p.EntryPrice * (1 - 1/p.Leverage)
		m.PnLUSD = (livePrice - p.EntryPrice) * m.SizeCoins
	}

	if p.Margin != 0 {
		m.PnLPercent = m.PnLUSD / p.Margin * 100
	}
	return m, nil
}
