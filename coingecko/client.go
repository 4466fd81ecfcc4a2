// Package coingecko implements market.PriceProvider against the
// CoinGecko public API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/traderlab/cryptofolio/market"
)

// PublicURL is the base URL of CoinGecko's free public API.
const PublicURL = "https://api.coingecko.com"

// Client is a CoinGecko API client. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ market.PriceProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host, used by tests and
// by the pro API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAPIKey attaches a demo/pro API key to every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// NewClient creates a CoinGecko client against the public API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: PublicURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks API reachability.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		GeckoSays string `json:"gecko_says"`
	}
	return c.getJSON(ctx, "/api/v3/ping", nil, &out)
}

// LivePrices returns the current USD price for each requested coin id.
// Coins CoinGecko does not know are simply absent from the result; the
// caller treats them as unpriced.
func (c *Client) LivePrices(ctx context.Context, coins []string) (map[string]float64, error) {
	if len(coins) == 0 {
		return map[string]float64{}, nil
	}

	ids := make([]string, 0, len(coins))
	for _, coin := range coins {
		ids = append(ids, strings.ToLower(strings.TrimSpace(coin)))
	}
	sort.Strings(ids)

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", "usd")

	// {"bitcoin": {"usd": 64123.5}, ...}
	var raw map[string]map[string]float64
	if err := c.getJSON(ctx, "/api/v3/simple/price", params, &raw); err != nil {
		return nil, fmt.Errorf("live prices: %w", err)
	}

	prices := make(map[string]float64, len(raw))
	for coin, quotes := range raw {
		prices[coin] = quotes["usd"]
	}
	return prices, nil
}

// marketChart is the shape of /coins/{id}/market_chart: rows of
// [unix-milliseconds, value].
type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// DailyHistory returns one USD price per calendar day for the last
// days days, oldest first. CoinGecko switches to hourly granularity
// for short ranges; same-day samples are collapsed to their arithmetic
// mean, which is the authoritative daily price.
func (c *Client) DailyHistory(ctx context.Context, coin string, days int) ([]market.PricePoint, error) {
	coin = strings.ToLower(strings.TrimSpace(coin))
	if coin == "" {
		return nil, fmt.Errorf("daily history: coin id is required")
	}
	if days <= 0 {
		return nil, fmt.Errorf("daily history: days must be positive, got %d", days)
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", fmt.Sprintf("%d", days))

	var chart marketChart
	path := fmt.Sprintf("/api/v3/coins/%s/market_chart", url.PathEscape(coin))
	if err := c.getJSON(ctx, path, params, &chart); err != nil {
		return nil, fmt.Errorf("daily history for %s: %w", coin, err)
	}

	// Collapse intraday samples to a per-day mean.
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, row := range chart.Prices {
		ts := time.UnixMilli(int64(row[0])).UTC()
		day := market.DayOf(ts)
		sums[day] += row[1]
		counts[day]++
	}

	points := make([]market.PricePoint, 0, len(sums))
	for day, sum := range sums {
		points = append(points, market.PricePoint{
			Date:  day,
			Price: sum / float64(counts[day]),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	apiURL := c.baseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
