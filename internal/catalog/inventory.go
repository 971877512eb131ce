package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roach88/storefront/internal/store"
)

// ErrInvalidProduct is returned when a draft misses a required field.
var ErrInvalidProduct = errors.New("invalid product")

// IDGenerator mints product ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator produces time-sortable ids of the form "product-<uuid>".
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return "product-" + uuid.Must(uuid.NewV7()).String()
}

// Clock supplies creation timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Draft holds the editable fields of a product.
type Draft struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Unit        string
	StockStatus StockStatus
	Description string
	Image       string
}

// Validate requires a name, a known category and a positive price.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if d.Category == "" {
		missing = append(missing, "category")
	}
	if !d.Price.IsPositive() {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required fields missing: %s", ErrInvalidProduct, strings.Join(missing, ", "))
	}
	if !IsCategory(d.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, d.Category)
	}
	if d.StockStatus != "" && !d.StockStatus.Valid() {
		return fmt.Errorf("%w: unknown stock status %q", ErrInvalidProduct, d.StockStatus)
	}
	return nil
}

// Inventory is the admin view of the product list: create, edit, delete,
// export and import, all persisted through the store adapter.
type Inventory struct {
	list   *store.List[Product]
	ids    IDGenerator
	clock  Clock
	logger *slog.Logger
}

// NewInventory creates an Inventory over backend. Nil ids or clock use the
// production implementations.
func NewInventory(backend store.Backend, ids IDGenerator, clock Clock, logger *slog.Logger) *Inventory {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{
		list:   store.NewList[Product](backend, logger),
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// List returns the stored products in insertion order.
func (inv *Inventory) List(ctx context.Context) []Product {
	return inv.list.Load(ctx, ProductsKey)
}

// Get returns one product by id.
func (inv *Inventory) Get(ctx context.Context, id string) (Product, error) {
	p, ok := Find(inv.List(ctx), id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, nil
}

// Create validates d, assigns an id and creation time, and appends it.
func (inv *Inventory) Create(ctx context.Context, d Draft) (Product, error) {
	if err := d.Validate(); err != nil {
		return Product{}, err
	}

	now := inv.clock.Now().UTC()
	p := Product{ID: inv.ids.Generate(), CreatedAt: &now}
	apply(&p, d)
	p.Image = p.ImageOrDefault()

	products, err := inv.list.LoadStrict(ctx, ProductsKey)
	if err != nil {
		return Product{}, err
	}
	products = append(products, p)
	if err := inv.list.Save(ctx, ProductsKey, products); err != nil {
		return Product{}, fmt.Errorf("save products: %w", err)
	}
	inv.logger.Info("product created", "id", p.ID, "name", p.Name)
	return p, nil
}

// Update merges d into the product with the given id. The id and creation
// time never change; the image is kept when d has none.
func (inv *Inventory) Update(ctx context.Context, id string, d Draft) (Product, error) {
	if err := d.Validate(); err != nil {
		return Product{}, err
	}

	products, err := inv.list.LoadStrict(ctx, ProductsKey)
	if err != nil {
		return Product{}, err
	}
	i := slices.IndexFunc(products, func(p Product) bool { return p.ID == id })
	if i < 0 {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	apply(&products[i], d)
	if err := inv.list.Save(ctx, ProductsKey, products); err != nil {
		return Product{}, fmt.Errorf("save products: %w", err)
	}
	inv.logger.Info("product updated", "id", id)
	return products[i], nil
}

// Delete removes the product with the given id.
func (inv *Inventory) Delete(ctx context.Context, id string) error {
	products, err := inv.list.LoadStrict(ctx, ProductsKey)
	if err != nil {
		return err
	}
	n := len(products)
	products = slices.DeleteFunc(products, func(p Product) bool { return p.ID == id })
	if len(products) == n {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	if err := inv.list.Save(ctx, ProductsKey, products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	inv.logger.Info("product deleted", "id", id)
	return nil
}

// Export returns the product list as indented JSON and the suggested
// download name.
func (inv *Inventory) Export(ctx context.Context) ([]byte, string, error) {
	data, err := json.MarshalIndent(inv.List(ctx), "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode products: %w", err)
	}
	return data, ExportName(inv.clock.Now()), nil
}

// ExportName is the file name used for an export taken at t.
func ExportName(t time.Time) string {
	return "skye-products-" + t.UTC().Format(time.DateOnly) + ".json"
}

// Import replaces the product list with raw after schema validation.
// Category names are filled from the registry.
func (inv *Inventory) Import(ctx context.Context, name string, raw []byte) (int, error) {
	if err := Validate(name, raw); err != nil {
		return 0, err
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return 0, fmt.Errorf("decode %s: %w", name, err)
	}
	for i := range products {
		products[i].CategoryName = CategoryName(products[i].Category)
	}

	if err := inv.list.Save(ctx, ProductsKey, products); err != nil {
		return 0, fmt.Errorf("save products: %w", err)
	}
	inv.logger.Info("products imported", "source", name, "count", len(products))
	return len(products), nil
}

func apply(p *Product, d Draft) {
	p.Name = strings.TrimSpace(d.Name)
	p.Category = d.Category
	p.CategoryName = CategoryName(d.Category)
	p.Price = d.Price
	p.Unit = strings.TrimSpace(d.Unit)
	p.StockStatus = d.StockStatus
	if p.StockStatus == "" {
		p.StockStatus = InStock
	}
	p.Description = strings.TrimSpace(d.Description)
	if d.Image != "" {
		p.Image = d.Image
	}
}
