package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/storefront/internal/money"
)

// StockStatus is the availability label stored with a product.
type StockStatus string

const (
	InStock    StockStatus = "In Stock"
	OutOfStock StockStatus = "Out of Stock"
)

// Valid reports whether s is one of the two known labels.
func (s StockStatus) Valid() bool {
	return s == InStock || s == OutOfStock
}

// DefaultImage is shown for products stored without an image.
const DefaultImage = "images/placeholder-product.jpg"

// ProductsKey is the store key holding the product list.
const ProductsKey = "adminProducts"

// ErrProductNotFound is returned when an id does not match any product.
var ErrProductNotFound = errors.New("product not found")

// Product is one catalog entry. ID never changes once assigned.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	CategoryName string          `json:"categoryName,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit,omitempty"`
	StockStatus  StockStatus     `json:"stockStatus"`
	Image        string          `json:"image,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    *time.Time      `json:"createdAt,omitempty"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.StockStatus == InStock
}

// PriceLabel renders the price for display, e.g. "£5.00".
func (p Product) PriceLabel(symbol string) string {
	return money.Format(symbol, p.Price)
}

// ImageOrDefault returns the product image, or DefaultImage when unset.
func (p Product) ImageOrDefault() string {
	if p.Image == "" {
		return DefaultImage
	}
	return p.Image
}

// Find returns the product with the given id.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
