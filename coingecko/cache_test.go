package coingecko

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traderlab/cryptofolio/market"
)

// countingProvider counts upstream calls.
type countingProvider struct {
	liveCalls    int
	historyCalls int
	prices       map[string]float64
	points       []market.PricePoint
}

func (p *countingProvider) LivePrices(ctx context.Context, coins []string) (map[string]float64, error) {
	p.liveCalls++
	return p.prices, nil
}

func (p *countingProvider) DailyHistory(ctx context.Context, coin string, days int) ([]market.PricePoint, error) {
	p.historyCalls++
	return p.points, nil
}

func TestCachedLivePrices(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{prices: map[string]float64{"bitcoin": 100}}
	c := Cached(inner, 30*time.Second, 5*time.Minute)

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()

	for range 3 {
		prices, err := c.LivePrices(ctx, []string{"bitcoin"})
		require.NoError(t, err)
		assert.InDelta(t, 100, prices["bitcoin"], 1e-9)
	}
	assert.Equal(t, 1, inner.liveCalls, "fresh entries served from cache")

	// Expire and refetch.
	now = now.Add(31 * time.Second)
	_, err := c.LivePrices(ctx, []string{"bitcoin"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.liveCalls)
}

func TestCachedLiveKeyIsOrderInsensitive(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{prices: map[string]float64{}}
	c := Cached(inner, time.Minute, time.Minute)

	ctx := context.Background()
	_, err := c.LivePrices(ctx, []string{"eth", "Bitcoin"})
	require.NoError(t, err)
	_, err = c.LivePrices(ctx, []string{"bitcoin", "ETH"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.liveCalls)
}

func TestCachedHistoryKeyedByDays(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{}
	c := Cached(inner, time.Minute, time.Minute)
	ctx := context.Background()

	_, err := c.DailyHistory(ctx, "bitcoin", 30)
	require.NoError(t, err)
	_, err = c.DailyHistory(ctx, "bitcoin", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.historyCalls)

	// A different day count is a different request.
	_, err = c.DailyHistory(ctx, "bitcoin", 60)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.historyCalls)
}

func TestCachedReturnsCopies(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{prices: map[string]float64{"bitcoin": 100}}
	c := Cached(inner, time.Minute, time.Minute)
	ctx := context.Background()

	first, err := c.LivePrices(ctx, []string{"bitcoin"})
	require.NoError(t, err)
	first["bitcoin"] = -1 // caller mutation must not poison the cache

	second, err := c.LivePrices(ctx, []string{"bitcoin"})
	require.NoError(t, err)
	assert.InDelta(t, 100, second["bitcoin"], 1e-9)
}
