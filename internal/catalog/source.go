package catalog

import (
	"context"
	"log/slog"

	"github.com/roach88/storefront/internal/store"
)

// Source yields the full product list for the storefront.
//
// Stored products are read through the backend on every call; when nothing
// is stored the deterministic sample catalog is served instead.
type Source struct {
	list   *store.List[Product]
	seed   uint64
	logger *slog.Logger
}

// NewSource creates a Source over backend.
func NewSource(backend store.Backend, seed uint64, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		list:   store.NewList[Product](backend, logger),
		seed:   seed,
		logger: logger,
	}
}

// Products returns the catalog in load order.
func (s *Source) Products(ctx context.Context) []Product {
	products := s.list.Load(ctx, ProductsKey)
	if len(products) == 0 {
		s.logger.Debug("no stored products, serving sample catalog", "seed", s.seed)
		return Sample(s.seed)
	}
	return products
}
