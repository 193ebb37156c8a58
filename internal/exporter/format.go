package exporter

import (
	"fmt"
	"strings"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// FormatCurrency renders an amount as a dollar string with thousands
// separators, e.g. 1234567.8 -> "$1,234,567.80".
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := "$" + b.String() + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a fraction as a percentage, e.g. 0.156 -> "15.60%"
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
