// Package catalog models the storefront's products and derives the visible
// catalog page from them.
//
// The pipeline is a pure function: given the full product list and a Query
// it filters by category, search term, price range and stock, stable-sorts,
// and slices out one page. Re-running it from scratch on every criteria
// change is expected; catalogs are small.
//
// Inventory and Source sit on top of the store adapter. Inventory is the
// admin surface (create, update, delete, export, import); Source is the
// read path used by shoppers, falling back to a generated sample catalog
// when nothing is stored.
package catalog
