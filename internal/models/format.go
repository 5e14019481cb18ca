package models

import (
	"strconv"
	"strings"
)

// FormatXOF renders an amount the way the storefront shows prices: "10 000 FCFA"
func FormatXOF(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + " FCFA"
}
