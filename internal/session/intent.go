package session

// Intent names a user action.
type Intent string

const (
	IntentAddItem        Intent = "Cart.addItem"
	IntentRemoveItem     Intent = "Cart.removeItem"
	IntentUpdateQuantity Intent = "Cart.updateQuantity"
	IntentClearCart      Intent = "Cart.clear"
	IntentCheckout       Intent = "Cart.checkout"

	IntentFilterCategory Intent = "Catalog.filterCategory"
	IntentSearch         Intent = "Catalog.search"
	IntentPriceRange     Intent = "Catalog.priceRange"
	IntentInStockOnly    Intent = "Catalog.inStockOnly"
	IntentSort           Intent = "Catalog.sort"
	IntentPage           Intent = "Catalog.page"
	IntentNextPage       Intent = "Catalog.nextPage"
	IntentPrevPage       Intent = "Catalog.prevPage"
	IntentClearFilters   Intent = "Catalog.clearFilters"
	IntentReload         Intent = "Catalog.reload"
)

// Args carries the parameters of a command. Each intent reads only the
// fields it needs.
type Args struct {
	ProductID   string `json:"product_id,omitempty" yaml:"product_id,omitempty"`
	Delta       int    `json:"delta,omitempty" yaml:"delta,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Term        string `json:"term,omitempty" yaml:"term,omitempty"`
	MinPrice    string `json:"min_price,omitempty" yaml:"min_price,omitempty"`
	MaxPrice    string `json:"max_price,omitempty" yaml:"max_price,omitempty"`
	InStockOnly bool   `json:"in_stock_only,omitempty" yaml:"in_stock_only,omitempty"`
	Sort        string `json:"sort,omitempty" yaml:"sort,omitempty"`
	Page        int    `json:"page,omitempty" yaml:"page,omitempty"`
}

// Command is one intent with its arguments.
type Command struct {
	Intent Intent `json:"intent" yaml:"intent"`
	Args   Args   `json:"args" yaml:"args"`
}

// Intents lists every intent the dispatch table accepts.
func Intents() []Intent {
	return []Intent{
		IntentAddItem, IntentRemoveItem, IntentUpdateQuantity, IntentClearCart, IntentCheckout,
		IntentFilterCategory, IntentSearch, IntentPriceRange, IntentInStockOnly, IntentSort,
		IntentPage, IntentNextPage, IntentPrevPage, IntentClearFilters, IntentReload,
	}
}
