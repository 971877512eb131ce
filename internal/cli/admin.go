package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/money"
)

// ProductFlags holds the editable product fields for admin add and update.
type ProductFlags struct {
	*RootOptions
	Name        string
	Category    string
	Price       string
	Unit        string
	Stock       string
	Description string
	Image       string
}

func (f *ProductFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "", "product name")
	cmd.Flags().StringVar(&f.Category, "category", "", "category key")
	cmd.Flags().StringVar(&f.Price, "price", "", "price, e.g. 4.99")
	cmd.Flags().StringVar(&f.Unit, "unit", "", "unit label, e.g. 1kg")
	cmd.Flags().StringVar(&f.Stock, "stock", "in", "stock status (in|out)")
	cmd.Flags().StringVar(&f.Description, "description", "", "product description")
	cmd.Flags().StringVar(&f.Image, "image", "", "image path or URL")
}

// draft overlays the changed flags on base.
func (f *ProductFlags) draft(cmd *cobra.Command, base catalog.Draft) (catalog.Draft, error) {
	flags := cmd.Flags()
	d := base
	if flags.Changed("name") {
		d.Name = f.Name
	}
	if flags.Changed("category") {
		d.Category = f.Category
	}
	if flags.Changed("price") {
		price, err := money.Parse(f.Price)
		if err != nil {
			return catalog.Draft{}, fmt.Errorf("%w: %v", catalog.ErrInvalidProduct, err)
		}
		d.Price = price
	}
	if flags.Changed("unit") {
		d.Unit = f.Unit
	}
	if flags.Changed("stock") || d.StockStatus == "" {
		status, err := parseStock(f.Stock)
		if err != nil {
			return catalog.Draft{}, err
		}
		d.StockStatus = status
	}
	if flags.Changed("description") {
		d.Description = f.Description
	}
	if flags.Changed("image") {
		d.Image = f.Image
	}
	return d, nil
}

func parseStock(s string) (catalog.StockStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "in-stock", strings.ToLower(string(catalog.InStock)):
		return catalog.InStock, nil
	case "out", "out-of-stock", strings.ToLower(string(catalog.OutOfStock)):
		return catalog.OutOfStock, nil
	default:
		return "", fmt.Errorf("%w: unknown stock status %q (use in or out)", catalog.ErrInvalidProduct, s)
	}
}

func draftOf(p catalog.Product) catalog.Draft {
	return catalog.Draft{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Unit:        p.Unit,
		StockStatus: p.StockStatus,
		Description: p.Description,
		Image:       p.Image,
	}
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	Stock      catalog.Stats           `json:"stock"`
	Categories []catalog.CategoryCount `json:"categories"`
	Backend    string                  `json:"backend"`
	Revision   int                     `json:"revision"`
}

// NewAdminCommand creates the admin command group.
func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer the product list",
		Long: `Create, edit, delete, export and import stored products.

Writes go to the remote store when it is reachable and to the local
database otherwise.`,
	}

	cmd.AddCommand(newAdminListCommand(rootOpts))
	cmd.AddCommand(newAdminAddCommand(rootOpts))
	cmd.AddCommand(newAdminUpdateCommand(rootOpts))
	cmd.AddCommand(newAdminDeleteCommand(rootOpts))
	cmd.AddCommand(newAdminStatsCommand(rootOpts))
	cmd.AddCommand(newAdminExportCommand(rootOpts))
	cmd.AddCommand(newAdminImportCommand(rootOpts))
	return cmd
}

func newAdminListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			return withApp(ctx, rootOpts, func(a *app) error {
				products := a.inventory.List(ctx)
				if products == nil {
					products = []catalog.Product{}
				}
				return out.Success(products, func(w io.Writer) {
					renderProducts(w, products, a.cfg.Checkout.CurrencySymbol)
				})
			})
		},
	}
}

func renderProducts(w io.Writer, products []catalog.Product, symbol string) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No stored products.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tUNIT\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, catalog.DisplayCategory(p), p.PriceLabel(symbol), p.Unit, p.StockStatus)
	}
	_ = tw.Flush()
}

func newAdminAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &ProductFlags{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Long: `Create a product. Name, category and a positive price are required.

Examples:
  storefront admin add --name "Ofada Rice" --category pantry --price 6.50 --unit 2kg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			d, err := flags.draft(cmd, catalog.Draft{})
			if err != nil {
				return out.Fail(err)
			}
			return withApp(ctx, rootOpts, func(a *app) error {
				p, err := a.inventory.Create(ctx, d)
				if err != nil {
					return out.Fail(err)
				}
				return out.Success(p, func(w io.Writer) {
					fmt.Fprintf(w, "Product added: %s (%s)\n", p.Name, p.ID)
				})
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newAdminUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &ProductFlags{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Edit a product",
		Long: `Edit a product. Only the given flags change; the id and creation
time are kept.

Examples:
  storefront admin update product-3 --price 5.25 --stock out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			return withApp(ctx, rootOpts, func(a *app) error {
				existing, err := a.inventory.Get(ctx, args[0])
				if err != nil {
					return out.Fail(err)
				}
				d, err := flags.draft(cmd, draftOf(existing))
				if err != nil {
					return out.Fail(err)
				}
				p, err := a.inventory.Update(ctx, args[0], d)
				if err != nil {
					return out.Fail(err)
				}
				return out.Success(p, func(w io.Writer) {
					fmt.Fprintf(w, "Product updated: %s (%s)\n", p.Name, p.ID)
				})
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newAdminDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			return withApp(ctx, rootOpts, func(a *app) error {
				if err := a.inventory.Delete(ctx, args[0]); err != nil {
					return out.Fail(err)
				}
				return out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Product deleted: %s\n", args[0])
				})
			})
		},
	}
}

func newAdminStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stock and category counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			return withApp(ctx, rootOpts, func(a *app) error {
				products := a.inventory.List(ctx)
				rev, err := a.local.Revision(ctx, catalog.ProductsKey)
				if err != nil {
					return out.Fail(err)
				}
				stats := AdminStats{
					Stock:      catalog.StockStats(products),
					Categories: catalog.CategoryCounts(products),
					Backend:    a.products.Active(ctx).Name(),
					Revision:   rev,
				}
				return out.Success(stats, func(w io.Writer) {
					fmt.Fprintf(w, "Products:     %d\n", stats.Stock.Total)
					fmt.Fprintf(w, "In stock:     %d\n", stats.Stock.InStock)
					fmt.Fprintf(w, "Out of stock: %d\n", stats.Stock.OutOfStock)
					fmt.Fprintf(w, "Backend:      %s\n", stats.Backend)
					fmt.Fprintf(w, "Revision:     %d\n\n", stats.Revision)

					tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "CATEGORY\tPRODUCTS")
					for _, c := range stats.Categories {
						fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
					}
					_ = tw.Flush()
				})
			})
		},
	}
}

// AdminExportOptions holds flags for the admin export command.
type AdminExportOptions struct {
	*RootOptions
	Output string
}

func newAdminExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdminExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products to a JSON file",
		Long: `Export the stored products as JSON. Without -o the file is named
skye-products-<date>.json in the current directory. Use "-o -" for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			return withApp(ctx, rootOpts, func(a *app) error {
				data, name, err := a.inventory.Export(ctx)
				if err != nil {
					return out.Fail(err)
				}
				if opts.Output == "-" {
					_, err := cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}

				path := opts.Output
				if path == "" {
					path = name
				}
				if err := os.WriteFile(path, data, 0644); err != nil {
					return WrapExitError(ExitCommandError, "failed to write export", err)
				}
				return out.Success(map[string]string{"file": path}, func(w io.Writer) {
					fmt.Fprintf(w, "Exported products to %s\n", path)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file")
	return cmd
}

func newAdminImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace products from a JSON file",
		Long: `Replace the stored product list with the contents of a JSON export.
The file is validated before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ctx := commandContext(cmd)

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read import file", err)
			}
			return withApp(ctx, rootOpts, func(a *app) error {
				n, err := a.inventory.Import(ctx, filepath.Base(args[0]), raw)
				if err != nil {
					return out.Fail(err)
				}
				return out.Success(map[string]int{"imported": n}, func(w io.Writer) {
					fmt.Fprintf(w, "Imported %d products\n", n)
				})
			})
		},
	}
}
