package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// NotAvailable marks a statistic with no value, e.g. a mode with no gaps.
const NotAvailable = "N/A"

// FormatMoney formats a currency amount, e.g. 1234.5 -> "$1,234.50".
func FormatMoney(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatCount formats an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatDecimal formats with two decimals.
func FormatDecimal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatOptionalSeconds formats a nullable statistic.
func FormatOptionalSeconds(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatDecimal(*v)
}
