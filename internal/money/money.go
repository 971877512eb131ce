// Package money formats and parses shop prices.
//
// Prices are carried as decimal.Decimal everywhere. Totals are never rounded
// internally; rounding to two places happens only when a price is rendered.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency prefix used when none is configured.
const DefaultSymbol = "£"

func init() {
	// Stored carts and catalogs hold prices as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Format renders d with the given currency symbol and exactly two decimals.
func Format(symbol string, d decimal.Decimal) string {
	return symbol + Fixed(d)
}

// Fixed renders d with exactly two decimals and no symbol.
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Parse reads a user supplied amount. A leading currency symbol and
// surrounding whitespace are ignored.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, DefaultSymbol)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Sum adds amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
