package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewClient()
	assert.Equal(t, PublicURL, c.baseURL)
	assert.NotNil(t, c.httpClient)
	assert.Empty(t, c.apiKey)
}

func TestLivePrices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "secret", r.Header.Get("x-cg-demo-api-key"))

		fmt.Fprint(w, `{"bitcoin":{"usd":64000.5},"ethereum":{"usd":3000}}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithAPIKey("secret"))

	prices, err := c.LivePrices(context.Background(), []string{"Ethereum", "bitcoin"})
	require.NoError(t, err)

	assert.InDelta(t, 64000.5, prices["bitcoin"], 1e-9)
	assert.InDelta(t, 3000, prices["ethereum"], 1e-9)
}

func TestLivePricesUnknownCoinAbsent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CoinGecko silently omits unknown ids.
		fmt.Fprint(w, `{"bitcoin":{"usd":100}}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	prices, err := c.LivePrices(context.Background(), []string{"bitcoin", "notacoin"})
	require.NoError(t, err)

	_, ok := prices["notacoin"]
	assert.False(t, ok, "unknown coins are absent, not zero-filled, at this layer")
}

func TestLivePricesEmptyInput(t *testing.T) {
	t.Parallel()

	c := NewClient(WithBaseURL("http://127.0.0.1:0")) // must not be hit
	prices, err := c.LivePrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestLivePricesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"status":{"error_message":"rate limited"}}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	_, err := c.LivePrices(context.Background(), []string{"bitcoin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestDailyHistory(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "30", r.URL.Query().Get("days"))

		// Hourly granularity: two samples on day1, one on day2.
		fmt.Fprintf(w, `{"prices":[[%d,100],[%d,120],[%d,200]]}`,
			day1.Add(3*time.Hour).UnixMilli(),
			day1.Add(15*time.Hour).UnixMilli(),
			day2.Add(1*time.Hour).UnixMilli(),
		)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	points, err := c.DailyHistory(context.Background(), "Bitcoin", 30)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, day1, points[0].Date)
	assert.InDelta(t, 110, points[0].Price, 1e-9, "same-day samples collapse to the mean")
	assert.Equal(t, day2, points[1].Date)
	assert.InDelta(t, 200, points[1].Price, 1e-9)
}

func TestDailyHistoryValidation(t *testing.T) {
	t.Parallel()

	c := NewClient(WithBaseURL("http://127.0.0.1:0"))

	_, err := c.DailyHistory(context.Background(), "", 10)
	assert.Error(t, err)

	_, err = c.DailyHistory(context.Background(), "bitcoin", 0)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ping", r.URL.Path)
		fmt.Fprint(w, `{"gecko_says":"(V3) To the Moon!"}`)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	assert.NoError(t, c.Ping(context.Background()))
}
