package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTradeComputesTotalCostOnce(t *testing.T) {
	t.Parallel()

	tr, err := NewTrade(time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC), "Bitcoin", Buy, 0.5, 60000)
	require.NoError(t, err)

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "bitcoin", tr.Coin, "coin ids are lower-cased")
	assert.InDelta(t, 30000, tr.TotalCostUSD, 1e-9)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), tr.Date, "dates carry no time component")
}

func TestNewTradeValidation(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		coin   string
		typ    TradeType
		amount float64
		price  float64
	}{
		{"empty coin", "", Buy, 1, 1},
		{"blank coin", "   ", Buy, 1, 1},
		{"zero amount", "btc", Buy, 0, 1},
		{"negative amount", "btc", Sell, -1, 1},
		{"negative price", "btc", Buy, 1, -0.01},
		{"bad type", "btc", TradeType("Hold"), 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTrade(day, tc.coin, tc.typ, tc.amount, tc.price)
			assert.Error(t, err)
		})
	}

	// Zero price is allowed: airdrops cost nothing.
	_, err := NewTrade(day, "btc", Buy, 1, 0)
	assert.NoError(t, err)
}

func TestParseTradeType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]TradeType{
		"buy": Buy, "Buy": Buy, "BUY": Buy,
		"sell": Sell, " Sell ": Sell,
	} {
		got, err := ParseTradeType(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTradeType("hodl")
	assert.Error(t, err)
}

func TestSignedAmount(t *testing.T) {
	t.Parallel()

	b := mustTrade(t, "btc", Buy, 2, 10)
	s := mustTrade(t, "btc", Sell, 2, 10)

	assert.Equal(t, 2.0, b.SignedAmount())
	assert.Equal(t, -2.0, s.SignedAmount())
}
