package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/traderlab/cryptofolio/futures"
)

var futuresCmd = &cobra.Command{
	Use:   "futures",
	Short: "Manage leveraged futures positions and the margin wallet",
	Long: `Open and close leveraged positions against the virtual margin wallet.

Opening a position debits margin (size / leverage) from the wallet.
Closing credits back margin plus realized P/L, floored at zero: losses
beyond margin are capped, never collected.

Examples:
  cryptofolio futures deposit 1000
  cryptofolio futures open --coin bitcoin --direction long --size 1000 --leverage 10 --entry 64000
  cryptofolio futures list
  cryptofolio futures close <position-id>
  cryptofolio futures withdraw 250
  cryptofolio futures clear`,
}

var futuresOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a leveraged position",
	Args:  cobra.NoArgs,
	RunE:  runFuturesOpen,
}

var futuresCloseCmd = &cobra.Command{
	Use:   "close <position-id>",
	Short: "Close a position at the live price",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuturesClose,
}

var futuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open positions with live metrics",
	Args:  cobra.NoArgs,
	RunE:  runFuturesList,
}

var futuresDepositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Deposit cash into the margin wallet",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuturesDeposit,
}

var futuresWithdrawCmd = &cobra.Command{
	Use:   "withdraw <amount>",
	Short: "Withdraw cash from the margin wallet",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuturesWithdraw,
}

var futuresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all positions and zero the wallet",
	Args:  cobra.NoArgs,
	RunE:  runFuturesClear,
}

var (
	futCoin      string
	futDirection string
	futSize      float64
	futLeverage  float64
	futEntry     float64
)

func init() {
	rootCmd.AddCommand(futuresCmd)
	futuresCmd.AddCommand(futuresOpenCmd)
	futuresCmd.AddCommand(futuresCloseCmd)
	futuresCmd.AddCommand(futuresListCmd)
	futuresCmd.AddCommand(futuresDepositCmd)
	futuresCmd.AddCommand(futuresWithdrawCmd)
	futuresCmd.AddCommand(futuresClearCmd)

	futuresOpenCmd.Flags().StringVar(&futCoin, "coin", "", "coin id, e.g. bitcoin (required)")
	futuresOpenCmd.Flags().StringVar(&futDirection, "direction", "", "Long or Short (required)")
	futuresOpenCmd.Flags().Float64Var(&futSize, "size", 0, "position size in USD (required)")
	futuresOpenCmd.Flags().Float64Var(&futLeverage, "leverage", 1, "leverage, 1 to 250")
	futuresOpenCmd.Flags().Float64Var(&futEntry, "entry", 0, "entry price in USD (required)")
	futuresOpenCmd.MarkFlagRequired("coin")
	futuresOpenCmd.MarkFlagRequired("direction")
	futuresOpenCmd.MarkFlagRequired("size")
	futuresOpenCmd.MarkFlagRequired("entry")
}

func runFuturesOpen(cmd *cobra.Command, args []string) error {
	direction, err := futures.ParseDirection(futDirection)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	acct := futures.NewAccount(a.store)
	pos, err := acct.Open(cmd.Context(), futures.OpenRequest{
		CoinID:     futCoin,
		Direction:  direction,
		SizeUSD:    futSize,
		Leverage:   futLeverage,
		EntryPrice: futEntry,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Opened %s %s: size $%.2f, margin $%.2f at %.0fx, entry $%.4f, id %s\n",
		pos.Direction, pos.CoinID, futSize, pos.Margin, pos.Leverage, pos.EntryPrice, pos.ID)
	return nil
}

func runFuturesClose(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()

	positions, err := a.store.ListPositions(ctx)
	if err != nil {
		return err
	}
	var coin string
	for _, p := range positions {
		if p.ID == args[0] {
			coin = p.CoinID
			break
		}
	}
	if coin == "" {
		return fmt.Errorf("close position %q: %w", args[0], futures.ErrPositionNotFound)
	}

	// Closing realizes P/L, so a price is required; refuse rather than
	// settle against a zero sentinel.
	prices, err := a.provider.LivePrices(ctx, []string{coin})
	if err != nil {
		return fmt.Errorf("cannot close %s without a live price for %s: %w", args[0], coin, err)
	}
	live, ok := prices[coin]
	if !ok || live == 0 {
		return fmt.Errorf("cannot close %s: no live price for %s", args[0], coin)
	}

	acct := futures.NewAccount(a.store)
	res, err := acct.Close(ctx, args[0], live)
	if err != nil {
		return err
	}

	fmt.Printf("Closed %s at $%.4f: P/L $%.2f, cash back $%.2f\n",
		res.Position.ID, live, res.Metrics.PnLUSD, res.CashBack)
	return nil
}

func runFuturesList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()

	positions, err := a.store.ListPositions(ctx)
	if err != nil {
		return err
	}
	balance, err := a.store.WalletBalance(ctx)
	if err != nil {
		return err
	}

	prices := fetchLivePrices(ctx, a, futures.Coins(positions))
	s := futures.Summarize(positions, balance, prices)

	printFutures(s)
	printConditions(s.Conditions)
	return nil
}

func parseAmountArg(arg string) (float64, error) {
	amount, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", arg)
	}
	return amount, nil
}

func runFuturesDeposit(cmd *cobra.Command, args []string) error {
	amount, err := parseAmountArg(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	balance, err := futures.NewAccount(a.store).Deposit(cmd.Context(), amount)
	if err != nil {
		return err
	}
	fmt.Printf("Deposited $%.2f, wallet balance $%.2f\n", amount, balance)
	return nil
}

func runFuturesWithdraw(cmd *cobra.Command, args []string) error {
	amount, err := parseAmountArg(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	balance, err := futures.NewAccount(a.store).Withdraw(cmd.Context(), amount)
	if err != nil {
		return err
	}
	fmt.Printf("Withdrew $%.2f, wallet balance $%.2f\n", amount, balance)
	return nil
}

func runFuturesClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := futures.NewAccount(a.store).ClearAll(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Cleared all futures positions and reset the wallet to $0.")
	return nil
}
