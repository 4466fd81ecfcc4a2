package portfolio

import (
	"sort"

	"github.com/traderlab/cryptofolio/market"
)

// Epsilon is the dust threshold: coins whose net holdings fall at or
// below it are dropped from the summary.
const Epsilon = 1e-6

// Holding is one row of the spot portfolio summary.
type Holding struct {
	Coin         string
	Holdings     float64
	AvgBuyPrice  float64
	LivePrice    float64
	CurrentValue float64
	UnrealizedPL float64
}

// Summary is the full spot valuation: per-coin rows sorted by coin id,
// portfolio totals, and any data-quality conditions encountered.
type Summary struct {
	Holdings   []Holding
	TotalValue float64
	TotalPL    float64
	Conditions []market.Condition
}

// coinTotals accumulates the per-coin sums the valuation needs.
type coinTotals struct {
	buyAmount  float64
	buyCost    float64
	sellAmount float64
}

// Summarize derives the current spot portfolio from the trade ledger
// and a live price map. Pure: identical inputs yield identical output.
//
// Net holdings per coin are total Buy amount minus total Sell amount.
// The average buy price is the cost-weighted mean over Buy trades only;
// Sells never alter it (average-cost accounting, not FIFO/LIFO). Coins
// whose net holdings are at or below Epsilon are dropped. A coin absent
// from prices is valued at price 0 and reported as a condition.
func Summarize(trades []Trade, prices map[string]float64) Summary {
	byCoin := make(map[string]*coinTotals)
	for _, t := range trades {
		ct := byCoin[t.Coin]
		if ct == nil {
			ct = &coinTotals{}
			byCoin[t.Coin] = ct
		}
		switch t.Type {
		case Buy:
			ct.buyAmount += t.Amount
			ct.buyCost += t.TotalCostUSD
		case Sell:
			ct.sellAmount += t.Amount
		}
	}

	var s Summary
	for coin, ct := range byCoin {
		if ct.buyAmount == 0 && ct.sellAmount > 0 {
			// Sells with no Buys at all: average cost is undefined.
			s.Conditions = append(s.Conditions, market.Condition{
				Kind: market.CondSellWithoutBuy,
				Coin: coin,
			})
		}

		held := ct.buyAmount - ct.sellAmount
		if held <= Epsilon {
			continue
		}

		avg := 0.0
		if ct.buyAmount > 0 {
			avg = ct.buyCost / ct.buyAmount
		}

		live, priced := prices[coin]
		if !priced || live == 0 {
			live = 0
			s.Conditions = append(s.Conditions, market.Condition{
				Kind: market.CondMissingPrice,
				Coin: coin,
			})
		}

		value := held * live
		row := Holding{
			Coin:         coin,
			Holdings:     held,
			AvgBuyPrice:  avg,
			LivePrice:    live,
			CurrentValue: value,
			UnrealizedPL: value - held*avg,
		}
		s.Holdings = append(s.Holdings, row)
		s.TotalValue += row.CurrentValue
		s.TotalPL += row.UnrealizedPL
	}

	sort.Slice(s.Holdings, func(i, j int) bool {
		return s.Holdings[i].Coin < s.Holdings[j].Coin
	})
	sort.Slice(s.Conditions, func(i, j int) bool {
		if s.Conditions[i].Coin != s.Conditions[j].Coin {
			return s.Conditions[i].Coin < s.Conditions[j].Coin
		}
		return s.Conditions[i].Kind < s.Conditions[j].Kind
	})
	return s
}

// Coins returns the distinct coin ids present in the ledger, sorted.
func Coins(trades []Trade) []string {
	seen := make(map[string]struct{})
	for _, t := range trades {
		seen[t.Coin] = struct{}{}
	}
	coins := make([]string, 0, len(seen))
	for c := range seen {
		coins = append(coins, c)
	}
	sort.Strings(coins)
	return coins
}
