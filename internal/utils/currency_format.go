package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders amount as Brazilian reais, e.g. 1234.5 -> "R$ 1.234,50".
func FormatBRL(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return sign + "R$ " + grouped.String() + "," + frac
}
