package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/session"
)

// CatalogListOptions holds flags for the catalog list command.
type CatalogListOptions struct {
	*RootOptions
	Category string
	Search   string
	Min      string
	Max      string
	InStock  bool
	Sort     string
	Page     int
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the product catalog",
	}
	cmd.AddCommand(newCatalogListCommand(rootOpts))
	cmd.AddCommand(newCatalogCategoriesCommand(rootOpts))
	return cmd
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products with filters, sorting and paging",
		Long: `List one page of the catalog.

Filters combine: category, search term (name, description or category
name), price bounds and stock. A max price of 0 means no upper bound.

Examples:
  storefront catalog list --category grains --sort price-asc
  storefront catalog list --search rice --in-stock
  storefront catalog list --min 2 --max 10 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "category key, or \"all\"")
	cmd.Flags().StringVar(&opts.Search, "search", "", "search term")
	cmd.Flags().StringVar(&opts.Min, "min", "", "minimum price")
	cmd.Flags().StringVar(&opts.Max, "max", "", "maximum price (0 for none)")
	cmd.Flags().BoolVar(&opts.InStock, "in-stock", false, "only products in stock")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "default|name-asc|name-desc|price-asc|price-desc")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")

	return cmd
}

// listCommands turns the changed flags into session commands. Paging goes
// last since every filter resets to page 1.
func listCommands(cmd *cobra.Command, opts *CatalogListOptions) []session.Command {
	var cmds []session.Command
	add := func(intent session.Intent, args session.Args) {
		cmds = append(cmds, session.Command{Intent: intent, Args: args})
	}

	flags := cmd.Flags()
	if flags.Changed("category") {
		add(session.IntentFilterCategory, session.Args{Category: opts.Category})
	}
	if flags.Changed("search") {
		add(session.IntentSearch, session.Args{Term: opts.Search})
	}
	if flags.Changed("min") || flags.Changed("max") {
		add(session.IntentPriceRange, session.Args{MinPrice: opts.Min, MaxPrice: opts.Max})
	}
	if flags.Changed("in-stock") {
		add(session.IntentInStockOnly, session.Args{InStockOnly: opts.InStock})
	}
	if flags.Changed("sort") {
		add(session.IntentSort, session.Args{Sort: opts.Sort})
	}
	if flags.Changed("page") {
		add(session.IntentPage, session.Args{Page: opts.Page})
	}
	return cmds
}

func runCatalogList(cmd *cobra.Command, opts *CatalogListOptions) error {
	out := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	return withApp(ctx, opts.RootOptions, func(a *app) error {
		s := a.openSession(ctx)
		if _, err := dispatchAll(ctx, s, listCommands(cmd, opts)); err != nil {
			return out.Fail(err)
		}

		view := s.View()
		symbol := a.cfg.Checkout.CurrencySymbol
		return out.Success(view, func(w io.Writer) {
			renderView(w, view, symbol)
		})
	})
}

func renderView(w io.Writer, view session.View, symbol string) {
	if view.Empty() {
		fmt.Fprintln(w, "No products found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range view.Items {
		stock := "in stock"
		if !p.InStock() {
			stock = "out of stock"
		}
		name := p.Name
		if p.Unit != "" {
			name += " (" + p.Unit + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, name, catalog.DisplayCategory(p), p.PriceLabel(symbol), stock)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nPage %d of %d (%d products)\n", view.Page, view.TotalPages, view.Total)
}

func newCatalogCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show product counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			return withApp(ctx, rootOpts, func(a *app) error {
				counts := catalog.CategoryCounts(a.source.Products(ctx))
				return out.Success(counts, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "KEY\tNAME\tPRODUCTS")
					for _, c := range counts {
						fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Key, c.Name, c.Count)
					}
					_ = tw.Flush()
				})
			})
		},
	}
}
