package catalog

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category
	Count int `json:"count"`
}

// CategoryCounts returns a count for every registry category, in registry
// order, including empty ones. Products in unknown categories are ignored.
func CategoryCounts(products []Product) []CategoryCount {
	n := make(map[string]int, len(categories))
	for _, p := range products {
		n[p.Category]++
	}

	out := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryCount{Category: c, Count: n[c.Key]})
	}
	return out
}

// Stats summarizes stock levels for the admin dashboard.
type Stats struct {
	Total      int `json:"total"`
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

// StockStats counts products by stock status.
func StockStats(products []Product) Stats {
	s := Stats{Total: len(products)}
	for _, p := range products {
		if p.InStock() {
			s.InStock++
		} else {
			s.OutOfStock++
		}
	}
	return s
}
