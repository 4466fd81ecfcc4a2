package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/traderlab/cryptofolio/futures"
	"github.com/traderlab/cryptofolio/market"
	"github.com/traderlab/cryptofolio/portfolio"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the combined spot and futures portfolio snapshot",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// fetchLivePrices fetches live prices for coins, degrading to an empty
// map (everything unpriced) when the provider is unreachable.
func fetchLivePrices(ctx context.Context, a *app, coins []string) map[string]float64 {
	if len(coins) == 0 {
		return map[string]float64{}
	}
	prices, err := a.provider.LivePrices(ctx, coins)
	if err != nil {
		a.log.WithError(err).Warn("live prices unavailable, valuing at 0")
		return map[string]float64{}
	}
	return prices
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()

	trades, err := a.store.ListTrades(ctx)
	if err != nil {
		a.log.WithError(err).Warn("ledger unreadable, showing empty spot portfolio")
	}
	positions, err := a.store.ListPositions(ctx)
	if err != nil {
		a.log.WithError(err).Warn("ledger unreadable, showing no futures positions")
	}
	balance, err := a.store.WalletBalance(ctx)
	if err != nil {
		a.log.WithError(err).Warn("wallet unreadable, assuming 0 balance")
	}

	coins := map[string]struct{}{}
	for _, c := range portfolio.Coins(trades) {
		coins[c] = struct{}{}
	}
	for _, c := range futures.Coins(positions) {
		coins[c] = struct{}{}
	}
	all := make([]string, 0, len(coins))
	for c := range coins {
		all = append(all, c)
	}

	prices := fetchLivePrices(ctx, a, all)

	spot := portfolio.Summarize(trades, prices)
	fut := futures.Summarize(positions, balance, prices)

	printSpot(spot)
	fmt.Println()
	printFutures(fut)
	fmt.Println()

	grand := spot.TotalValue + fut.Equity
	totalPL := spot.TotalPL + fut.TotalPnL
	fmt.Printf("Total combined equity (spot + futures): $%.2f (P/L $%.2f)\n", grand, totalPL)

	printConditions(append(spot.Conditions, fut.Conditions...))
	return nil
}

func printSpot(s portfolio.Summary) {
	if len(s.Holdings) == 0 {
		fmt.Println("Spot portfolio is empty.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tHOLDINGS\tAVG BUY\tLIVE\tVALUE\tP/L")
	for _, h := range s.Holdings {
		fmt.Fprintf(w, "%s\t%.8f\t$%.4f\t$%.4f\t$%.2f\t$%.2f\n",
			h.Coin, h.Holdings, h.AvgBuyPrice, h.LivePrice, h.CurrentValue, h.UnrealizedPL)
	}
	w.Flush()
	fmt.Printf("Total spot value: $%.2f (P/L $%.2f)\n", s.TotalValue, s.TotalPL)
}

func printFutures(s futures.AccountSummary) {
	fmt.Printf("Futures wallet balance: $%.2f\n", s.WalletBalance)
	if len(s.Positions) == 0 {
		fmt.Println("No open futures positions.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOIN\tDIR\tSIZE\tMARGIN\tLEV\tENTRY\tLIVE\tP/L\tP/L%\tLIQ")
	for _, p := range s.Positions {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t$%.2f\t%.0fx\t$%.4f\t$%.4f\t$%.2f\t%.2f%%\t$%.4f\n",
			p.ID, p.CoinID, p.Direction, p.SizeUSD, p.Margin, p.Leverage,
			p.EntryPrice, p.Metrics.LivePrice, p.PnLUSD, p.PnLPercent, p.LiquidationPrice)
	}
	w.Flush()
	fmt.Printf("Margin deployed: $%.2f  Unrealized P/L: $%.2f  Equity: $%.2f\n",
		s.MarginUsed, s.TotalPnL, s.Equity)
}

func printConditions(conds []market.Condition) {
	for _, c := range conds {
		fmt.Printf("note: %s\n", c)
	}
}
