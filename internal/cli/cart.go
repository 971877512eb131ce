package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/money"
	"github.com/roach88/storefront/internal/session"
)

// CartView is the cart as reported by the cart commands.
type CartView struct {
	Lines      []cart.LineItem `json:"lines"`
	ItemCount  int             `json:"itemCount"`
	Total      string          `json:"total"`
	TotalLabel string          `json:"totalLabel"`
}

// CartResult is a cart mutation outcome with the cart after it.
type CartResult struct {
	Result session.Result `json:"result"`
	Cart   CartView       `json:"cart"`
}

func cartView(e *cart.Engine, symbol string) CartView {
	return CartView{
		Lines:      e.Lines(),
		ItemCount:  e.ItemCount(),
		Total:      money.Fixed(e.Total()),
		TotalLabel: e.FormattedTotal(symbol),
	}
}

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		Long: `Manage the persisted shopping cart.

The cart lives in the local database and survives between runs.

Examples:
  storefront cart add product-3
  storefront cart qty product-3 2
  storefront cart checkout`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show cart contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(cmd, rootOpts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartCommand(cmd, rootOpts, session.Command{
				Intent: session.IntentAddItem,
				Args:   session.Args{ProductID: args[0]},
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartCommand(cmd, rootOpts, session.Command{
				Intent: session.IntentRemoveItem,
				Args:   session.Args{ProductID: args[0]},
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "qty <product-id> <delta>",
		Short: "Change a line quantity by delta",
		Long: `Change a line quantity by delta. A line that drops to zero or
below is removed.

Examples:
  storefront cart qty product-3 1
  storefront cart qty product-3 -- -1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid delta %q: must be an integer", args[1]))
			}
			return runCartCommand(cmd, rootOpts, session.Command{
				Intent: session.IntentUpdateQuantity,
				Args:   session.Args{ProductID: args[0], Delta: delta},
			})
		},
	})
	cmd.AddCommand(newCartClearCommand(rootOpts))
	cmd.AddCommand(&cobra.Command{
		Use:   "checkout",
		Short: "Compose the WhatsApp order message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartCheckout(cmd, rootOpts)
		},
	})

	return cmd
}

func runCartShow(cmd *cobra.Command, opts *RootOptions) error {
	out := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	return withApp(ctx, opts, func(a *app) error {
		s := a.openSession(ctx)
		view := cartView(s.Cart(), a.cfg.Checkout.CurrencySymbol)
		return out.Success(view, func(w io.Writer) {
			renderCart(w, view, a.cfg.Checkout.CurrencySymbol)
		})
	})
}

func runCartCommand(cmd *cobra.Command, opts *RootOptions, c session.Command) error {
	out := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	return withApp(ctx, opts, func(a *app) error {
		s := a.openSession(ctx)
		res, err := s.Dispatch(ctx, c)
		if err != nil {
			return out.Fail(err)
		}

		symbol := a.cfg.Checkout.CurrencySymbol
		data := CartResult{Result: res, Cart: cartView(s.Cart(), symbol)}
		return out.Success(data, func(w io.Writer) {
			if res.Notice != "" {
				fmt.Fprintln(w, res.Notice)
			}
			fmt.Fprintf(w, "Cart: %d item(s), total %s\n", data.Cart.ItemCount, data.Cart.TotalLabel)
		})
	})
}

func renderCart(w io.Writer, view CartView, symbol string) {
	if len(view.Lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range view.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			l.ID, l.Name, money.Format(symbol, l.Price), l.Quantity, money.Format(symbol, l.Subtotal()))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nItems: %d\nTotal: %s\n", view.ItemCount, view.TotalLabel)
}

// CartClearOptions holds flags for the cart clear command.
type CartClearOptions struct {
	*RootOptions
	Yes bool
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Yes && !confirm(cmd, "Are you sure you want to clear your cart?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cart left unchanged.")
				return nil
			}
			return runCartCommand(cmd, rootOpts, session.Command{Intent: session.IntentClearCart})
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on the command's input. Anything but
// "y" or "yes" declines.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func runCartCheckout(cmd *cobra.Command, opts *RootOptions) error {
	out := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	return withApp(ctx, opts, func(a *app) error {
		s := a.openSession(ctx)
		res, err := s.Dispatch(ctx, session.Command{Intent: session.IntentCheckout})
		if err != nil {
			return out.Fail(err)
		}
		return out.Success(res.Checkout, func(w io.Writer) {
			fmt.Fprintln(w, res.Checkout.Message)
			fmt.Fprintln(w)
			fmt.Fprintln(w, res.Checkout.URL)
		})
	})
}
