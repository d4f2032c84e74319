package output

import (
	"github.com/shopspring/decimal"

	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// FormatCurrency renders an amount in rupees with Indian digit grouping.
func FormatCurrency(amount money.Money) string { return "₹" + amount.Grouped() }

// FormatPercentage renders a percentage value with 2 decimals.
func FormatPercentage(percent decimal.Decimal) string { return percent.StringFixed(2) + "%" }

// FormatRate renders a fraction (0.0624) as a percentage (6.24%).
func FormatRate(fraction decimal.Decimal) string { return FormatPercentage(fraction.Shift(2)) }
