package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FilterCriteria narrows the catalog. The zero value matches everything.
type FilterCriteria struct {
	// Category is a registry key or AllCategories. Empty means all.
	Category string `json:"category"`

	// SearchTerm is matched case-insensitively as a substring of name,
	// description and category name. Surrounding whitespace is ignored.
	SearchTerm string `json:"searchTerm,omitempty"`

	MinPrice decimal.Decimal `json:"minPrice"`

	// MaxPrice is unbounded when not Valid.
	MaxPrice decimal.NullDecimal `json:"maxPrice"`

	InStockOnly bool `json:"inStockOnly,omitempty"`
}

// DefaultCriteria returns criteria that match every product.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Category: AllCategories}
}

// ParsePriceBounds converts raw user input into price bounds.
//
// Unset or unparsable input falls back to the defaults: 0 for the minimum
// and unbounded for the maximum. A maximum of zero is treated as unset, so
// "0" in the max box never hides the whole catalog.
func ParsePriceBounds(minRaw, maxRaw string) (decimal.Decimal, decimal.NullDecimal) {
	min := decimal.Zero
	if d, err := decimal.NewFromString(strings.TrimSpace(minRaw)); err == nil {
		min = d
	}

	var max decimal.NullDecimal
	if d, err := decimal.NewFromString(strings.TrimSpace(maxRaw)); err == nil && !d.IsZero() {
		max = decimal.NewNullDecimal(d)
	}
	return min, max
}

// SortMode orders the filtered catalog.
type SortMode string

const (
	SortDefault   SortMode = "default"
	SortNameAsc   SortMode = "name-asc"
	SortNameDesc  SortMode = "name-desc"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// SortModes lists the accepted modes.
var SortModes = []SortMode{SortDefault, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

// ParseSortMode accepts one of SortModes. Empty input is SortDefault.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortDefault, nil
	}
	for _, m := range SortModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}
