package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount with dot thousands separators and,
// when there are cents, a comma decimal part.
// Example: 15000.5 -> "$ 15.000,50"
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	integerPart, decimalPart := parts[0], parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	formatted := "$ " + sign + strings.Join(groups, ".")
	if decimalPart != "00" {
		formatted += "," + decimalPart
	}
	return formatted
}
