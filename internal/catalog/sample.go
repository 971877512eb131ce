package catalog

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// SampleSize is the number of products Sample generates.
const SampleSize = 61

var sampleNames = map[string][]string{
	"fresh-produce": {"Plantain", "Yam", "Cassava", "African Spinach", "Okra", "Garden Eggs"},
	"meat-poultry":  {"Goat Meat", "Chicken Thighs", "Turkey Wings", "Cow Foot", "Beef Tripe"},
	"seafood":       {"Tilapia Fish", "Mackerel", "Dried Fish", "Crayfish", "Prawns"},
	"dairy-eggs":    {"Peak Milk", "Butter", "Yogurt", "Cheese", "Fresh Eggs"},
	"bakery":        {"African Bread", "Meat Pie", "Chin Chin", "Puff Puff Mix", "Doughnuts"},
	"frozen-foods":  {"Frozen Yam", "Ice Cream", "Frozen Vegetables", "Frozen Fish", "Samosas"},
	"beverages":     {"Malt Drink", "Palm Wine", "Zobo Drink", "Ginger Beer", "African Tea"},
	"snacks":        {"Plantain Chips", "Groundnuts", "Cashew Nuts", "Coconut Candy", "Biscuits"},
	"pantry":        {"Jollof Rice Mix", "Palm Oil", "Egusi Seeds", "Locust Beans", "Crayfish Powder"},
	"health-beauty": {"Shea Butter", "Black Soap", "African Body Lotion", "Hair Cream", "Face Cream"},
	"household":     {"Detergent", "Floor Cleaner", "Dishwashing Liquid", "Air Freshener", "Sponges"},
	"baby-products": {"Baby Formula", "Diapers", "Baby Wipes", "Baby Food", "Baby Lotion"},
}

var sampleUnits = []string{"1kg", "500g", "250g", "1L", "500ml", "100g", "2kg"}

// Sample builds the placeholder catalog served when no products are stored.
//
// Products are numbered product-1 onwards in registry order. Prices fall in
// [1, 21) and roughly one in ten items is out of stock. The same seed always
// yields the same catalog.
func Sample(seed uint64) []Product {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]Product, 0, SampleSize)
	id := 1
	for _, c := range categories {
		for _, name := range sampleNames[c.Key] {
			price := decimal.NewFromFloat(r.Float64()*20 + 1).Round(2)

			stock := InStock
			if r.Float64() <= 0.1 {
				stock = OutOfStock
			}

			out = append(out, Product{
				ID:           fmt.Sprintf("product-%d", id),
				Name:         name,
				Category:     c.Key,
				CategoryName: c.Name,
				Price:        price,
				Unit:         sampleUnits[r.IntN(len(sampleUnits))],
				StockStatus:  stock,
				Image:        DefaultImage,
				Description:  fmt.Sprintf("Authentic %s from Africa", name),
			})
			id++
		}
	}
	return out
}
