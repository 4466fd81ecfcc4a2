package futures

import (
	"sort"

	"github.com/traderlab/cryptofolio/market"
)

// PositionView is one open position with its derived metrics, ready
// for display.
type PositionView struct {
	Position
	Metrics
}

// AccountSummary aggregates the futures side of the portfolio.
//
// Equity is wallet balance plus deployed margin plus unrealized P/L:
// the cash the trader would hold if every position closed at the live
// price, ignoring the liquidation floor.
type AccountSummary struct {
	WalletBalance float64
	MarginUsed    float64
	TotalPnL      float64
	Equity        float64
	Positions     []PositionView
	Conditions    []market.Condition
}

// Summarize derives per-position metrics and account aggregates from
// the open positions, the wallet balance and a live price map. Pure.
// A position whose coin has no live price is marked at price 0 and
// reported as a condition.
func Summarize(positions []Position, walletBalance float64, prices map[string]float64) AccountSummary {
	s := AccountSummary{WalletBalance: walletBalance}

	for _, p := range positions {
		live, priced := prices[p.CoinID]
		if !priced || live == 0 {
			live = 0
			s.Conditions = append(s.Conditions, market.Condition{
				Kind: market.CondMissingPrice,
				Coin: p.CoinID,
			})
		}

		m, err := Compute(p, live)
		if err != nil {
			// Corrupt stored position; report and skip rather than halt.
			s.Conditions = append(s.Conditions, market.Condition{
				Kind:   market.CondCorruptPosition,
				Coin:   p.CoinID,
				Detail: err.Error(),
			})
			continue
		}

		s.MarginUsed += p.Margin
		s.TotalPnL += m.PnLUSD
		s.Positions = append(s.Positions, PositionView{Position: p, Metrics: m})
	}

	s.Equity = s.WalletBalance + s.MarginUsed + s.TotalPnL

	sort.Slice(s.Positions, func(i, j int) bool {
		return s.Positions[i].ID < s.Positions[j].ID
	})
	return s
}

// Coins returns the distinct coin ids across positions, sorted.
func Coins(positions []Position) []string {
	seen := make(map[string]struct{})
	for _, p := range positions {
		seen[p.CoinID] = struct{}{}
	}
	coins := make([]string, 0, len(seen))
	for c := range seen {
		coins = append(coins, c)
	}
	sort.Strings(coins)
	return coins
}
