package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func product(id, name, category, price string, stock StockStatus) Product {
	return Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       decimal.RequireFromString(price),
		StockStatus: stock,
	}
}

// fixtureCatalog is a small mixed catalog in load order.
func fixtureCatalog() []Product {
	return []Product{
		product("p1", "Rice", "pantry", "5.00", InStock),
		product("p2", "plantain", "fresh-produce", "1.50", InStock),
		product("p3", "Palm Oil", "pantry", "7.25", OutOfStock),
		product("p4", "Goat Meat", "meat-poultry", "12.00", InStock),
		product("p5", "Ábara Mix", "pantry", "3.10", InStock),
		{
			ID: "p6", Name: "Shea Butter", Category: "health-beauty",
			Price: decimal.RequireFromString("6.00"), StockStatus: InStock,
			Description: "Raw unrefined butter",
		},
	}
}

// numberedCatalog returns n in-stock pantry products named item-01...
func numberedCatalog(n int) []Product {
	out := make([]Product, n)
	for i := range out {
		out[i] = product(fmt.Sprintf("p%d", i+1), fmt.Sprintf("item-%02d", i+1), "pantry", "1.00", InStock)
	}
	return out
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
