package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/catalog"
)

// ProductSource yields the full product list. *catalog.Source implements it.
type ProductSource interface {
	Products(ctx context.Context) []catalog.Product
}

// Config holds the presentation settings of a session.
type Config struct {
	PageSize int
	Locale   language.Tag
	Checkout cart.CheckoutConfig
	Logger   *slog.Logger
}

// Result reports what a command did. Change is set for cart mutations and
// Checkout for a successful checkout.
type Result struct {
	Intent   Intent         `json:"intent"`
	Notice   string         `json:"notice,omitempty"`
	Change   *cart.Change   `json:"change,omitempty"`
	Checkout *cart.Checkout `json:"checkout,omitempty"`
}

// View is the rendered state of the catalog page.
type View struct {
	catalog.Result
	Criteria catalog.FilterCriteria `json:"criteria"`
	Sort     catalog.SortMode       `json:"sort"`
	Window   catalog.Window         `json:"window"`
}

type handler func(ctx context.Context, args Args) (Result, error)

// Session is one shopper's storefront state.
type Session struct {
	cart     *cart.Engine
	source   ProductSource
	products []catalog.Product

	criteria catalog.FilterCriteria
	sort     catalog.SortMode
	page     int

	pageSize int
	locale   language.Tag
	checkout cart.CheckoutConfig
	logger   *slog.Logger

	handlers map[Intent]handler
}

// New creates a session over an opened cart and loads the product list.
func New(ctx context.Context, engine *cart.Engine, source ProductSource, cfg Config) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = catalog.DefaultPageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Checkout == (cart.CheckoutConfig{}) {
		cfg.Checkout = cart.DefaultCheckoutConfig()
	}

	s := &Session{
		cart:     engine,
		source:   source,
		criteria: catalog.DefaultCriteria(),
		sort:     catalog.SortDefault,
		page:     1,
		pageSize: cfg.PageSize,
		locale:   cfg.Locale,
		checkout: cfg.Checkout,
		logger:   cfg.Logger,
	}
	s.handlers = map[Intent]handler{
		IntentAddItem:        s.addItem,
		IntentRemoveItem:     s.removeItem,
		IntentUpdateQuantity: s.updateQuantity,
		IntentClearCart:      s.clearCart,
		IntentCheckout:       s.checkoutCart,
		IntentFilterCategory: s.filterCategory,
		IntentSearch:         s.search,
		IntentPriceRange:     s.priceRange,
		IntentInStockOnly:    s.inStockOnly,
		IntentSort:           s.setSort,
		IntentPage:           s.goToPage,
		IntentNextPage:       s.nextPage,
		IntentPrevPage:       s.prevPage,
		IntentClearFilters:   s.clearFilters,
		IntentReload:         s.reload,
	}
	s.products = source.Products(ctx)
	return s
}

// Dispatch runs the handler for cmd.Intent. A returned error means the
// command was rejected and no state changed.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	h, ok := s.handlers[cmd.Intent]
	if !ok {
		return Result{}, newError(ErrCodeUnknownIntent, "unknown intent %q", cmd.Intent)
	}

	res, err := h(ctx, cmd.Args)
	if err != nil {
		s.logger.Debug("command rejected", "intent", cmd.Intent, "error", err)
		return Result{}, err
	}
	res.Intent = cmd.Intent
	s.logger.Debug("command applied", "intent", cmd.Intent, "notice", res.Notice)
	return res, nil
}

// Query returns the pipeline query for the current state.
func (s *Session) Query() catalog.Query {
	return catalog.Query{
		Criteria: s.criteria,
		Sort:     s.sort,
		Page:     s.page,
		PageSize: s.pageSize,
		Locale:   s.locale,
	}
}

// View runs the pipeline over the current product list.
func (s *Session) View() View {
	res := catalog.Apply(s.products, s.Query())
	return View{
		Result:   res,
		Criteria: s.criteria,
		Sort:     s.sort,
		Window:   res.Window(),
	}
}

// Cart returns the session's cart engine.
func (s *Session) Cart() *cart.Engine { return s.cart }

// Products returns the loaded product list.
func (s *Session) Products() []catalog.Product { return s.products }

// CheckoutConfig returns the checkout settings in use.
func (s *Session) CheckoutConfig() cart.CheckoutConfig { return s.checkout }

func (s *Session) totalPages() int {
	return catalog.TotalPages(len(catalog.Filter(s.products, s.criteria)), s.pageSize)
}

func (s *Session) addItem(ctx context.Context, args Args) (Result, error) {
	if args.ProductID == "" {
		return Result{}, newError(ErrCodeInvalidArgs, "product_id is required")
	}
	p, ok := catalog.Find(s.products, args.ProductID)
	if !ok {
		return Result{}, newError(ErrCodeUnknownProduct, "product %q not found", args.ProductID)
	}
	if !p.InStock() {
		return Result{}, newError(ErrCodeOutOfStock, "%s is out of stock", p.Name)
	}

	change := s.cart.Add(ctx, cart.Addition{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		Unit:  p.Unit,
	})
	return Result{Notice: change.Notice(), Change: &change}, nil
}

func (s *Session) removeItem(ctx context.Context, args Args) (Result, error) {
	if args.ProductID == "" {
		return Result{}, newError(ErrCodeInvalidArgs, "product_id is required")
	}
	change := s.cart.Remove(ctx, args.ProductID)
	return Result{Notice: change.Notice(), Change: &change}, nil
}

func (s *Session) updateQuantity(ctx context.Context, args Args) (Result, error) {
	if args.ProductID == "" {
		return Result{}, newError(ErrCodeInvalidArgs, "product_id is required")
	}
	change := s.cart.UpdateQuantity(ctx, args.ProductID, args.Delta)
	return Result{Notice: change.Notice(), Change: &change}, nil
}

func (s *Session) clearCart(ctx context.Context, _ Args) (Result, error) {
	if s.cart.Empty() {
		change := cart.Change{Kind: cart.Unchanged}
		return Result{Notice: "Cart is already empty", Change: &change}, nil
	}
	change := s.cart.Clear(ctx)
	return Result{Notice: change.Notice(), Change: &change}, nil
}

func (s *Session) checkoutCart(_ context.Context, _ Args) (Result, error) {
	out, err := s.cart.Checkout(s.checkout)
	if errors.Is(err, cart.ErrEmptyCart) {
		return Result{}, newError(ErrCodeEmptyCart, "Your cart is empty!")
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Notice: "Redirecting to WhatsApp...", Checkout: &out}, nil
}

func (s *Session) filterCategory(_ context.Context, args Args) (Result, error) {
	category := args.Category
	if category == "" {
		category = catalog.AllCategories
	}
	if category != catalog.AllCategories && !catalog.IsCategory(category) {
		return Result{}, newError(ErrCodeInvalidArgs, "unknown category %q", category)
	}
	s.criteria.Category = category
	s.page = 1
	return Result{}, nil
}

func (s *Session) search(_ context.Context, args Args) (Result, error) {
	s.criteria.SearchTerm = strings.TrimSpace(args.Term)
	s.page = 1
	return Result{}, nil
}

func (s *Session) priceRange(_ context.Context, args Args) (Result, error) {
	s.criteria.MinPrice, s.criteria.MaxPrice = catalog.ParsePriceBounds(args.MinPrice, args.MaxPrice)
	s.page = 1
	return Result{}, nil
}

func (s *Session) inStockOnly(_ context.Context, args Args) (Result, error) {
	s.criteria.InStockOnly = args.InStockOnly
	s.page = 1
	return Result{}, nil
}

// setSort keeps the current page.
func (s *Session) setSort(_ context.Context, args Args) (Result, error) {
	mode, err := catalog.ParseSortMode(args.Sort)
	if err != nil {
		return Result{}, newError(ErrCodeInvalidArgs, "%v", err)
	}
	s.sort = mode
	return Result{}, nil
}

func (s *Session) goToPage(_ context.Context, args Args) (Result, error) {
	if args.Page < 1 {
		return Result{}, newError(ErrCodeInvalidArgs, "page must be at least 1, got %d", args.Page)
	}
	s.page = args.Page
	return Result{}, nil
}

func (s *Session) nextPage(_ context.Context, _ Args) (Result, error) {
	if s.page < s.totalPages() {
		s.page++
	}
	return Result{}, nil
}

func (s *Session) prevPage(_ context.Context, _ Args) (Result, error) {
	if s.page > 1 {
		s.page--
	}
	return Result{}, nil
}

func (s *Session) clearFilters(_ context.Context, _ Args) (Result, error) {
	s.criteria = catalog.DefaultCriteria()
	s.sort = catalog.SortDefault
	s.page = 1
	return Result{}, nil
}

// reload re-reads the product list. A page left past the end by a
// shrinking catalog goes back to 1.
func (s *Session) reload(ctx context.Context, _ Args) (Result, error) {
	s.products = s.source.Products(ctx)
	if s.page > s.totalPages() {
		s.page = 1
	}
	s.logger.Info("catalog reloaded", "products", len(s.products))
	return Result{}, nil
}
