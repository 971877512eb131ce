// Package session holds one shopper's storefront state and routes user
// intents to the cart engine and catalog pipeline.
//
// A Session is the explicit state object: the cart, the loaded product
// list, and the current filter, sort and page. Dispatch maps a Command to
// its handler through a fixed table; rendering is left to the caller,
// which reads View after each command.
//
// Session is not safe for concurrent use. Loop serialises callers from
// many goroutines (HTTP handlers, the search debounce timer) through a
// FIFO queue drained by a single goroutine.
package session
