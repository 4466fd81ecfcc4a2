package futures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traderlab/cryptofolio/market"
)

func TestSummarizeAggregates(t *testing.T) {
	t.Parallel()

	positions := []Position{
		{ID: "a", CoinID: "bitcoin", Direction: Long, EntryPrice: 100, Margin: 100, Leverage: 10},
		{ID: "b", CoinID: "eth", Direction: Short, EntryPrice: 50, Margin: 200, Leverage: 5},
	}
	prices := map[string]float64{"bitcoin": 110, "eth": 45}

	s := Summarize(positions, 1000, prices)
	require.Len(t, s.Positions, 2)

	// bitcoin long: (110-100)*10 = +100; eth short: (50-45)*20 = +100.
	assert.InDelta(t, 300, s.MarginUsed, 1e-9)
	assert.InDelta(t, 200, s.TotalPnL, 1e-9)
	assert.InDelta(t, 1000+300+200, s.Equity, 1e-9)
	assert.Empty(t, s.Conditions)
}

func TestSummarizeMissingPrice(t *testing.T) {
	t.Parallel()

	positions := []Position{
		{ID: "a", CoinID: "obscure", Direction: Long, EntryPrice: 10, Margin: 10, Leverage: 2},
	}

	s := Summarize(positions, 0, map[string]float64{})
	require.Len(t, s.Positions, 1)

	// Marked at 0: the long shows its full notional as loss.
	assert.InDelta(t, -20, s.Positions[0].PnLUSD, 1e-9)
	require.Len(t, s.Conditions, 1)
	assert.Equal(t, market.CondMissingPrice, s.Conditions[0].Kind)
}

func TestSummarizeSkipsCorruptPosition(t *testing.T) {
	t.Parallel()

	positions := []Position{
		{ID: "ok", CoinID: "eth", Direction: Long, EntryPrice: 10, Margin: 10, Leverage: 2},
		{ID: "bad", CoinID: "eth", Direction: Long, EntryPrice: 0, Margin: 10, Leverage: 2},
	}

	s := Summarize(positions, 100, map[string]float64{"eth": 10})
	require.Len(t, s.Positions, 1)
	assert.Equal(t, "ok", s.Positions[0].ID)
	assert.InDelta(t, 10, s.MarginUsed, 1e-9, "corrupt position excluded from aggregates")

	require.Len(t, s.Conditions, 1)
	assert.Equal(t, market.CondCorruptPosition, s.Conditions[0].Kind)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil, 42, nil)
	assert.Empty(t, s.Positions)
	assert.Zero(t, s.MarginUsed)
	assert.Zero(t, s.TotalPnL)
	assert.InDelta(t, 42, s.Equity, 1e-9)
}

func TestFuturesCoins(t *testing.T) {
	t.Parallel()

	positions := []Position{
		{CoinID: "eth"}, {CoinID: "bitcoin"}, {CoinID: "eth"},
	}
	assert.Equal(t, []string{"bitcoin", "eth"}, Coins(positions))
}
