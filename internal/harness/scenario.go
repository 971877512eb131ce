package harness

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/session"
)

// Scenario defines a storefront scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Catalog seeds the stored product list. When empty the sample catalog
	// for SampleSeed is served.
	Catalog    []ProductFixture `yaml:"catalog,omitempty"`
	SampleSeed uint64           `yaml:"sample_seed,omitempty"`

	// Cart seeds the stored cart before the session opens.
	Cart []LineFixture `yaml:"cart,omitempty"`

	// PageSize overrides catalog.DefaultPageSize.
	PageSize int `yaml:"page_size,omitempty"`

	// Locale drives name ordering. Defaults to en-GB.
	Locale string `yaml:"locale,omitempty"`

	// Setup steps run before the flow and must all succeed. They are not
	// traced.
	Setup []Step `yaml:"setup,omitempty"`

	Flow []FlowStep `yaml:"flow"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ProductFixture is a catalog product. Price is a decimal string.
type ProductFixture struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Price       string `yaml:"price"`
	Unit        string `yaml:"unit,omitempty"`
	OutOfStock  bool   `yaml:"out_of_stock,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// LineFixture is a stored cart line. Price is a decimal string.
type LineFixture struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Unit     string `yaml:"unit,omitempty"`
	Quantity int    `yaml:"quantity"`
}

// Step is one intent invocation.
type Step struct {
	Invoke session.Intent `yaml:"invoke"`
	Args   session.Args   `yaml:"args,omitempty"`
}

// FlowStep is a traced step with an optional expectation.
type FlowStep struct {
	Invoke session.Intent `yaml:"invoke"`
	Args   session.Args   `yaml:"args,omitempty"`
	Expect *ExpectClause  `yaml:"expect,omitempty"`
}

// ExpectClause checks the outcome of a single step. Unset fields are not
// checked.
type ExpectClause struct {
	// Case is CaseOK or a session error code.
	Case      string `yaml:"case,omitempty"`
	Notice    string `yaml:"notice,omitempty"`
	CartTotal string `yaml:"cart_total,omitempty"`
	ItemCount *int   `yaml:"item_count,omitempty"`
	ViewTotal *int   `yaml:"view_total,omitempty"`
	Page      *int   `yaml:"page,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Intent is used by trace_contains and trace_count.
	Intent string `yaml:"intent,omitempty"`

	// Case optionally narrows trace_contains.
	Case string `yaml:"case,omitempty"`

	Count   int      `yaml:"count,omitempty"`
	Intents []string `yaml:"intents,omitempty"`

	// Total is a decimal string for cart_total.
	Total string `yaml:"total,omitempty"`

	// Lines is the expected line count for cart_lines.
	Lines int `yaml:"lines,omitempty"`

	// ProductID and Quantity are used by cart_contains.
	ProductID string `yaml:"product_id,omitempty"`
	Quantity  int    `yaml:"quantity,omitempty"`

	// Items is the expected visible product ids for view_items.
	Items []string `yaml:"items,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertCartTotal     = "cart_total"
	AssertCartLines     = "cart_lines"
	AssertCartContains  = "cart_contains"
	AssertViewTotal     = "view_total"
	AssertViewItems     = "view_items"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow must contain at least one step")
	}
	if s.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative")
	}

	for i, p := range s.Catalog {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("catalog[%d]: id and name are required", i)
		}
		if _, err := decimal.NewFromString(p.Price); err != nil {
			return fmt.Errorf("catalog[%d]: invalid price %q", i, p.Price)
		}
	}
	for i, l := range s.Cart {
		if l.ID == "" {
			return fmt.Errorf("cart[%d]: id is required", i)
		}
		if _, err := decimal.NewFromString(l.Price); err != nil {
			return fmt.Errorf("cart[%d]: invalid price %q", i, l.Price)
		}
	}
	for i, step := range s.Setup {
		if step.Invoke == "" {
			return fmt.Errorf("setup[%d]: invoke is required", i)
		}
	}
	for i, step := range s.Flow {
		if step.Invoke == "" {
			return fmt.Errorf("flow[%d]: invoke is required", i)
		}
		if step.Expect != nil && step.Expect.CartTotal != "" {
			if _, err := decimal.NewFromString(step.Expect.CartTotal); err != nil {
				return fmt.Errorf("flow[%d]: invalid cart_total %q", i, step.Expect.CartTotal)
			}
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(a Assertion, index int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Intent == "" {
			return fmt.Errorf("assertions[%d]: intent is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Intents) == 0 {
			return fmt.Errorf("assertions[%d]: intents list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Intent == "" {
			return fmt.Errorf("assertions[%d]: intent is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertCartTotal:
		if _, err := decimal.NewFromString(a.Total); err != nil {
			return fmt.Errorf("assertions[%d]: invalid total %q for cart_total", index, a.Total)
		}
	case AssertCartLines, AssertViewTotal:
		if a.Lines < 0 || a.Count < 0 {
			return fmt.Errorf("assertions[%d]: counts must be non-negative", index)
		}
	case AssertCartContains:
		if a.ProductID == "" {
			return fmt.Errorf("assertions[%d]: product_id is required for cart_contains", index)
		}
	case AssertViewItems:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// products converts the catalog fixtures.
func (s *Scenario) products() []catalog.Product {
	out := make([]catalog.Product, 0, len(s.Catalog))
	for _, f := range s.Catalog {
		stock := catalog.InStock
		if f.OutOfStock {
			stock = catalog.OutOfStock
		}
		out = append(out, catalog.Product{
			ID:          f.ID,
			Name:        f.Name,
			Category:    f.Category,
			Price:       decimal.RequireFromString(f.Price),
			Unit:        f.Unit,
			StockStatus: stock,
			Description: f.Description,
		})
	}
	return out
}

// lines converts the cart fixtures.
func (s *Scenario) lines() []cart.LineItem {
	out := make([]cart.LineItem, 0, len(s.Cart))
	for _, f := range s.Cart {
		out = append(out, cart.LineItem{
			ID:       f.ID,
			Name:     f.Name,
			Price:    decimal.RequireFromString(f.Price),
			Image:    cart.DefaultImage,
			Unit:     f.Unit,
			Quantity: f.Quantity,
		})
	}
	return out
}
