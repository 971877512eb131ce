package cart

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/storefront/internal/money"
)

// ErrEmptyCart is returned when checking out a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutConfig holds the store-facing parts of the checkout message.
type CheckoutConfig struct {
	StoreName      string `yaml:"store_name" json:"storeName"`
	Contact        string `yaml:"contact" json:"contact"`
	CurrencySymbol string `yaml:"currency_symbol" json:"currencySymbol"`
	BaseURL        string `yaml:"base_url" json:"baseUrl"`
}

// DefaultCheckoutConfig targets the SKYE store's WhatsApp number.
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		StoreName:      "SKYE African Supermarket",
		Contact:        "441908040384",
		CurrencySymbol: money.DefaultSymbol,
		BaseURL:        "https://wa.me/",
	}
}

// Checkout is a composed order message and the link that hands it off.
type Checkout struct {
	Message string          `json:"message"`
	URL     string          `json:"url"`
	Total   decimal.Decimal `json:"total"`
}

// ComposeCheckout renders the order message for lines and builds the
// hand-off URL. It does not mutate or clear the cart.
func ComposeCheckout(lines []LineItem, cfg CheckoutConfig) (Checkout, error) {
	if len(lines) == 0 {
		return Checkout{}, ErrEmptyCart
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", cfg.StoreName)
	b.WriteString("I would like to order the following items:\n\n")

	subtotals := make([]decimal.Decimal, len(lines))
	for i, line := range lines {
		sub := line.Subtotal()
		subtotals[i] = sub

		fmt.Fprintf(&b, "%d. %s", i+1, line.Name)
		if line.Unit != "" {
			fmt.Fprintf(&b, " (%s)", line.Unit)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Quantity: %d\n", line.Quantity)
		fmt.Fprintf(&b, "   Price: %s\n\n", money.Format(cfg.CurrencySymbol, sub))
	}

	total := money.Sum(subtotals...)
	fmt.Fprintf(&b, "*Total: %s*\n\n", money.Format(cfg.CurrencySymbol, total))
	b.WriteString("Please confirm availability and delivery details.\n")
	b.WriteString("Thank you!")

	msg := b.String()
	return Checkout{
		Message: msg,
		URL:     cfg.BaseURL + cfg.Contact + "?text=" + encodeText(msg),
		Total:   total,
	}, nil
}

// Checkout composes the message for the engine's current lines.
func (e *Engine) Checkout(cfg CheckoutConfig) (Checkout, error) {
	return ComposeCheckout(e.items, cfg)
}

// encodeText percent-encodes s for a query value, spaces as %20.
func encodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
