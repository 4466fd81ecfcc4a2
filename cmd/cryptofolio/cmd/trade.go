package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/traderlab/cryptofolio/market"
	"github.com/traderlab/cryptofolio/portfolio"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Manage the spot trade ledger",
	Long: `Log, list and delete spot trades.

Examples:
  cryptofolio trade add --coin bitcoin --type buy --amount 0.5 --price 64000
  cryptofolio trade add --coin eth --type sell --amount 2 --price 3000 --date 2024-03-01
  cryptofolio trade list
  cryptofolio trade delete <trade-id>
  cryptofolio trade clear`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new spot trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all spot trades",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a spot trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var tradeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every spot trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeClear,
}

var (
	tradeDate   string
	tradeCoin   string
	tradeType   string
	tradeAmount float64
	tradePrice  float64
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeListCmd)
	tradeCmd.AddCommand(tradeDeleteCmd)
	tradeCmd.AddCommand(tradeClearCmd)

	tradeAddCmd.Flags().StringVar(&tradeDate, "date", "", "trade date as YYYY-MM-DD (default today)")
	tradeAddCmd.Flags().StringVar(&tradeCoin, "coin", "", "coin id, e.g. bitcoin (required)")
	tradeAddCmd.Flags().StringVar(&tradeType, "type", "", "Buy or Sell (required)")
	tradeAddCmd.Flags().Float64Var(&tradeAmount, "amount", 0, "amount of coin (required)")
	tradeAddCmd.Flags().Float64Var(&tradePrice, "price", 0, "price per coin in USD (required)")
	tradeAddCmd.MarkFlagRequired("coin")
	tradeAddCmd.MarkFlagRequired("type")
	tradeAddCmd.MarkFlagRequired("amount")
	tradeAddCmd.MarkFlagRequired("price")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	typ, err := portfolio.ParseTradeType(tradeType)
	if err != nil {
		return err
	}

	date := time.Now().UTC()
	if tradeDate != "" {
		if date, err = market.ParseDay(tradeDate); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	trade, err := portfolio.NewTrade(date, tradeCoin, typ, tradeAmount, tradePrice)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.InsertTrade(cmd.Context(), trade); err != nil {
		return err
	}

	fmt.Printf("Logged %s %v %s @ $%.4f (total $%.2f) as %s\n",
		trade.Type, trade.Amount, trade.Coin, trade.PricePerCoin, trade.TotalCostUSD, trade.ID)
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	trades, err := a.store.ListTrades(cmd.Context())
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Println("Trade ledger is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCOIN\tTYPE\tAMOUNT\tPRICE\tTOTAL")
	for _, t := range trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.8f\t$%.4f\t$%.2f\n",
			t.ID, market.FormatDay(t.Date), t.Coin, t.Type, t.Amount, t.PricePerCoin, t.TotalCostUSD)
	}
	return w.Flush()
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.DeleteTrade(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted trade %s\n", args[0])
	return nil
}

func runTradeClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.ClearTrades(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Cleared all spot trades.")
	return nil
}
