package web

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders an amount the way vi-VN locales do: "." groups
// thousands, "," separates up to three fraction digits. 45000 → "45.000".
func FormatPrice(d decimal.Decimal) string {
	d = d.Round(3)
	neg := d.IsNegative()
	s := d.Abs().String()

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
