package market

import "fmt"

// ConditionKind classifies a non-fatal data-quality finding.
type ConditionKind string

const (
	// CondMissingPrice flags a coin with no live price; its value is
	// computed with a price of 0.
	CondMissingPrice ConditionKind = "missing-price"

	// CondSellWithoutBuy flags a coin whose ledger has Sell trades but
	// no Buy trades, leaving its average buy price undefined (reported
	// as 0).
	CondSellWithoutBuy ConditionKind = "sell-without-buy"

	// CondNegativeHoldings flags a day on which cumulative holdings for
	// a coin go negative during history reconstruction. The value is
	// kept as-is, never clamped.
	CondNegativeHoldings ConditionKind = "negative-holdings"

	// CondHistoryUnavailable flags a coin whose daily price history
	// could not be fetched; it contributes 0 to every day's total.
	CondHistoryUnavailable ConditionKind = "history-unavailable"

	// CondCorruptPosition flags a stored futures position whose
	// metrics cannot be derived (e.g. a zero entry price); it is
	// skipped from aggregates.
	CondCorruptPosition ConditionKind = "corrupt-position"
)

// Condition is a reportable data-quality finding. Conditions never halt
// a computation; they accompany the degenerate value the engine
// produced so the display layer can surface them.
type Condition struct {
	Kind   ConditionKind
	Coin   string
	Detail string
}

func (c Condition) String() string {
	if c.Detail == "" {
		return fmt.Sprintf("%s: %s", c.Kind, c.Coin)
	}
	return fmt.Sprintf("%s: %s (%s)", c.Kind, c.Coin, c.Detail)
}
