package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount parses "1.234,56" style amounts, rounded to cents.
// "-588,74" -> -588.74, "10,00" -> 10.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}
