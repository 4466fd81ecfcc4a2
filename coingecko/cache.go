package coingecko

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/traderlab/cryptofolio/market"
)

// CachedProvider is a read-through TTL cache in front of a
// market.PriceProvider. It belongs to the collaborator layer: the core
// engines stay pure and simply receive whatever (possibly stale)
// prices the cache hands the caller. A stale price means a stale
// valuation, never an error.
type CachedProvider struct {
	inner      market.PriceProvider
	liveTTL    time.Duration
	historyTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	live    map[string]liveEntry
	history map[string]historyEntry
}

type liveEntry struct {
	prices  map[string]float64
	fetched time.Time
}

type historyEntry struct {
	points  []market.PricePoint
	fetched time.Time
}

var _ market.PriceProvider = (*CachedProvider)(nil)

// Cached wraps provider with per-request TTL caching. Live prices stay
// fresh for liveTTL (tens of seconds is the intended order), history
// responses for historyTTL (minutes).
func Cached(provider market.PriceProvider, liveTTL, historyTTL time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:      provider,
		liveTTL:    liveTTL,
		historyTTL: historyTTL,
		now:        time.Now,
		live:       make(map[string]liveEntry),
		history:    make(map[string]historyEntry),
	}
}

func liveKey(coins []string) string {
	ids := make([]string, 0, len(coins))
	for _, c := range coins {
		ids = append(ids, strings.ToLower(strings.TrimSpace(c)))
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

func (c *CachedProvider) LivePrices(ctx context.Context, coins []string) (map[string]float64, error) {
	key := liveKey(coins)

	c.mu.Lock()
	if e, ok := c.live[key]; ok && c.now().Sub(e.fetched) < c.liveTTL {
		out := make(map[string]float64, len(e.prices))
		for k, v := range e.prices {
			out[k] = v
		}
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	prices, err := c.inner.LivePrices(ctx, coins)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.live[key] = liveEntry{prices: prices, fetched: c.now()}
	c.mu.Unlock()

	out := make(map[string]float64, len(prices))
	for k, v := range prices {
		out[k] = v
	}
	return out, nil
}

func (c *CachedProvider) DailyHistory(ctx context.Context, coin string, days int) ([]market.PricePoint, error) {
	key := fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(coin)), days)

	c.mu.Lock()
	if e, ok := c.history[key]; ok && c.now().Sub(e.fetched) < c.historyTTL {
		points := make([]market.PricePoint, len(e.points))
		copy(points, e.points)
		c.mu.Unlock()
		return points, nil
	}
	c.mu.Unlock()

	points, err := c.inner.DailyHistory(ctx, coin, days)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.history[key] = historyEntry{points: points, fetched: c.now()}
	c.mu.Unlock()

	out := make([]market.PricePoint, len(points))
	copy(out, points)
	return out, nil
}
