// Package history reconstructs the day-by-day value of the spot
// portfolio from the trade ledger and daily price history.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/traderlab/cryptofolio/market"
	"github.com/traderlab/cryptofolio/portfolio"
)

// Point is one day of the portfolio value series.
type Point struct {
	Date       time.Time
	TotalValue float64
}

// Build reconstructs the portfolio value for every calendar day from
// the earliest trade through today, inclusive. It is a pure fold:
// identical trades and identical provider responses yield an identical
// series.
//
// Per coin, the day's holdings are the cumulative sum of signed trade
// amounts up to that day, and the day's price is the most recent known
// sample (forward fill; 0 before the first sample). The day's total is
// the sum of holdings times price across coins.
//
// A coin whose history fetch fails contributes 0 to every day and is
// reported as a condition, not an error. Holdings are allowed to go
// negative when Sells precede their Buys; that too is a reported
// condition, never clamped.
func Build(ctx context.Context, trades []portfolio.Trade, provider market.PriceProvider, today time.Time) ([]Point, []market.Condition, error) {
	if len(trades) == 0 {
		return nil, nil, nil
	}

	today = market.DayOf(today)
	start := market.DayOf(trades[0].Date)
	for _, t := range trades[1:] {
		if d := market.DayOf(t.Date); d.Before(start) {
			start = d
		}
	}
	if start.After(today) {
		return nil, nil, fmt.Errorf("history: earliest trade %s is after today %s",
			market.FormatDay(start), market.FormatDay(today))
	}

	// +2 is intentional slack for the provider's inclusive/exclusive
	// boundary and timezone skew.
	days := market.DaysBetween(start, today) + 2
	coins := portfolio.Coins(trades)

	var conditions []market.Condition

	// One price per coin per day, collapsed by arithmetic mean when the
	// provider returns intraday samples.
	prices := make(map[string]map[time.Time]float64, len(coins))
	for _, coin := range coins {
		samples, err := provider.DailyHistory(ctx, coin, days)
		if err != nil {
			conditions = append(conditions, market.Condition{
				Kind:   market.CondHistoryUnavailable,
				Coin:   coin,
				Detail: err.Error(),
			})
			continue
		}
		prices[coin] = collapseDaily(samples)
	}

	// Net signed amount per coin per day.
	changes := make(map[string]map[time.Time]float64, len(coins))
	for _, t := range trades {
		day := market.DayOf(t.Date)
		if changes[t.Coin] == nil {
			changes[t.Coin] = make(map[time.Time]float64)
		}
		changes[t.Coin][day] += t.SignedAmount()
	}

	n := market.DaysBetween(start, today) + 1
	series := make([]Point, 0, n)

	held := make(map[string]float64, len(coins))
	last := make(map[string]float64, len(coins))
	flagged := make(map[string]bool, len(coins))

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		var total float64
		for _, coin := range coins {
			held[coin] += changes[coin][day]
			if held[coin] < -portfolio.Epsilon && !flagged[coin] {
				conditions = append(conditions, market.Condition{
					Kind:   market.CondNegativeHoldings,
					Coin:   coin,
					Detail: fmt.Sprintf("first negative on %s", market.FormatDay(day)),
				})
				flagged[coin] = true
			}

			if p, ok := prices[coin][day]; ok {
				last[coin] = p
			}
			total += held[coin] * last[coin]
		}
		series = append(series, Point{Date: day, TotalValue: total})
	}

	return series, conditions, nil
}

// collapseDaily reduces price samples to one per calendar day by
// arithmetic mean. The mean, not the first or last sample, is the
// authoritative daily price when a source reports intraday ticks.
func collapseDaily(samples []market.PricePoint) map[time.Time]float64 {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, s := range samples {
		day := market.DayOf(s.Date)
		sums[day] += s.Price
		counts[day]++
	}

	out := make(map[time.Time]float64, len(sums))
	for day, sum := range sums {
		out[day] = sum / float64(counts[day])
	}
	return out
}
