// Package cart owns the shopper's cart: an ordered list of line items keyed
// by product id, persisted in full after every mutation.
//
// The engine is not safe for concurrent use. It is owned by a single
// session and driven from one goroutine.
package cart

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/roach88/storefront/internal/money"
)

// StorageKey is the store key the cart is persisted under.
const StorageKey = "skyeCart"

// DefaultImage is recorded for items added without an image.
const DefaultImage = "images/placeholder-product.jpg"

// LineItem is one product in the cart. Name, price, image and unit are a
// snapshot taken when the product was first added.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Unit     string          `json:"unit"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price × quantity, unrounded.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Addition describes the product being added.
type Addition struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image string
	Unit  string
}

// Repository loads and saves the cart. *store.List[LineItem] implements it.
type Repository interface {
	Load(ctx context.Context, key string) []LineItem
	Save(ctx context.Context, key string, items []LineItem) error
}

// Engine holds the cart in memory and writes it through to a Repository.
type Engine struct {
	repo   Repository
	key    string
	items  []LineItem
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithKey overrides StorageKey.
func WithKey(key string) Option {
	return func(e *Engine) { e.key = key }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Open rehydrates the cart from repo. Stored rows that break the cart's
// invariants are repaired: non-positive quantities are dropped and
// duplicate ids are merged into the first row.
func Open(ctx context.Context, repo Repository, opts ...Option) *Engine {
	e := &Engine{repo: repo, key: StorageKey, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	stored := repo.Load(ctx, e.key)
	e.items = make([]LineItem, 0, len(stored))
	for _, item := range stored {
		if item.ID == "" || item.Quantity < 1 {
			e.logger.Warn("dropping invalid cart row", "id", item.ID, "quantity", item.Quantity)
			continue
		}
		if i := e.index(item.ID); i >= 0 {
			e.logger.Warn("merging duplicate cart row", "id", item.ID)
			e.items[i].Quantity = addQuantity(e.items[i].Quantity, item.Quantity)
			continue
		}
		e.items = append(e.items, item)
	}
	return e
}

// Add increments the line for a.ID, or appends a new line with quantity 1.
// An existing line keeps its original snapshot.
func (e *Engine) Add(ctx context.Context, a Addition) Change {
	if i := e.index(a.ID); i >= 0 {
		e.items[i].Quantity = addQuantity(e.items[i].Quantity, 1)
		e.persist(ctx)
		return Change{Kind: Incremented, Item: e.items[i]}
	}

	item := LineItem{
		ID:       a.ID,
		Name:     a.Name,
		Price:    a.Price,
		Image:    a.Image,
		Unit:     a.Unit,
		Quantity: 1,
	}
	if item.Image == "" {
		item.Image = DefaultImage
	}
	e.items = append(e.items, item)
	e.persist(ctx)
	return Change{Kind: Added, Item: item}
}

// Remove deletes the line for id. Removing an absent id is a no-op.
func (e *Engine) Remove(ctx context.Context, id string) Change {
	i := e.index(id)
	if i < 0 {
		return Change{Kind: Unchanged, Item: LineItem{ID: id}}
	}

	removed := e.items[i]
	e.items = slices.Delete(e.items, i, i+1)
	e.persist(ctx)
	return Change{Kind: Removed, Item: removed}
}

// UpdateQuantity adds delta to the line for id. A resulting quantity of
// zero or less removes the line. Absent ids are a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, id string, delta int) Change {
	i := e.index(id)
	if i < 0 {
		return Change{Kind: Unchanged, Item: LineItem{ID: id}}
	}
	if delta == 0 {
		return Change{Kind: Unchanged, Item: e.items[i]}
	}

	q := addQuantity(e.items[i].Quantity, delta)
	if q <= 0 {
		return e.Remove(ctx, id)
	}
	if q == e.items[i].Quantity {
		return Change{Kind: Unchanged, Item: e.items[i]}
	}

	e.items[i].Quantity = q
	e.persist(ctx)
	return Change{Kind: Updated, Item: e.items[i]}
}

// addQuantity returns q+delta, saturating at math.MaxInt. Quantities are
// always positive, so only the upper bound can overflow.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return q + delta
}

// Clear empties the cart. Confirmation is the caller's concern.
func (e *Engine) Clear(ctx context.Context) Change {
	if len(e.items) == 0 {
		return Change{Kind: Unchanged}
	}
	e.items = e.items[:0]
	e.persist(ctx)
	return Change{Kind: Cleared}
}

// Total is the exact sum of line subtotals. Round only for display.
func (e *Engine) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// FormattedTotal renders Total with symbol and two decimals.
func (e *Engine) FormattedTotal(symbol string) string {
	return money.Format(symbol, e.Total())
}

// ItemCount is the sum of quantities.
func (e *Engine) ItemCount() int {
	n := 0
	for _, item := range e.items {
		n += item.Quantity
	}
	return n
}

// Len is the number of distinct lines.
func (e *Engine) Len() int { return len(e.items) }

// Empty reports whether the cart has no lines.
func (e *Engine) Empty() bool { return len(e.items) == 0 }

// Lines returns a copy of the lines in display order.
func (e *Engine) Lines() []LineItem {
	return slices.Clone(e.items)
}

// Get returns the line for id.
func (e *Engine) Get(id string) (LineItem, bool) {
	if i := e.index(id); i >= 0 {
		return e.items[i], true
	}
	return LineItem{}, false
}

func (e *Engine) index(id string) int {
	return slices.IndexFunc(e.items, func(item LineItem) bool { return item.ID == id })
}

// persist writes the whole cart. Failures are logged; the in-memory cart
// stays authoritative.
func (e *Engine) persist(ctx context.Context) {
	if err := e.repo.Save(ctx, e.key, e.items); err != nil {
		e.logger.Warn("cart not persisted", "key", e.key, "lines", len(e.items), "error", err)
	}
}
