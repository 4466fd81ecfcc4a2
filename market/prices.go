package market

import (
	"context"
	"time"
)

// PricePoint is a single daily price sample for a coin, in USD.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceProvider is the contract the core depends on for pricing. The
// reference implementation lives in the coingecko package; tests supply
// fakes.
//
// LivePrices returns current USD prices for the requested coin ids.
// Coins missing from the result are treated as unpriced (price 0)
// downstream, never as an error.
//
// DailyHistory returns up to days daily price samples for one coin,
// oldest first, one sample per calendar day.
type PriceProvider interface {
	LivePrices(ctx context.Context, coins []string) (map[string]float64, error)
	DailyHistory(ctx context.Context, coin string, days int) ([]PricePoint, error)
}
