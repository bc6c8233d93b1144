package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as pounds with thousands separators, e.g. £12,345.67
func FormatMoney(amount float64) string {
	return FormatMoneyDecimal(decimal.NewFromFloat(amount))
}

// FormatMoneyDecimal formats a decimal amount as pounds to two places.
func FormatMoneyDecimal(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixedBank(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "£" + b.String() + "." + frac
}

// FormatPct formats a percentage value to two places, e.g. 4.75%
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}
