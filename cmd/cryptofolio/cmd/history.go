package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/traderlab/cryptofolio/history"
	"github.com/traderlab/cryptofolio/market"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Reconstruct the daily spot portfolio value",
	Long: `Rebuild the day-by-day total value of the spot portfolio from the
first trade through today, using daily price history from CoinGecko.

Days without a price sample inherit the most recent known price; days
before the first sample are valued at 0.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyCSV bool

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyCSV, "csv", false, "emit date,value CSV instead of a table")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()

	trades, err := a.store.ListTrades(ctx)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Println("Trade ledger is empty; nothing to chart.")
		return nil
	}

	series, conds, err := history.Build(ctx, trades, a.provider, time.Now())
	if err != nil {
		return err
	}

	if historyCSV {
		fmt.Println("date,total_value")
		for _, p := range series {
			fmt.Printf("%s,%.2f\n", market.FormatDay(p.Date), p.TotalValue)
		}
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTOTAL VALUE")
		for _, p := range series {
			fmt.Fprintf(w, "%s\t$%.2f\n", market.FormatDay(p.Date), p.TotalValue)
		}
		w.Flush()
	}

	printConditions(conds)
	return nil
}
