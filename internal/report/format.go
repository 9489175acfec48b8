package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatEUR renders an amount as a Euro string with two decimals and a
// comma separator, e.g. "€12,34". This is the single currency policy of
// the app; callers never format amounts themselves.
func FormatEUR(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.Replace(s, ".", ",", 1)
	if neg {
		return "-€" + s
	}
	return "€" + s
}
