// Package httpapi exposes a storefront session over JSON HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.GetCatalog)
		r.Get("/catalog/categories", h.GetCategories)
		r.Get("/cart", h.GetCart)
		r.Post("/cart/checkout", h.Checkout)
		r.Post("/commands", h.Dispatch)
		r.Post("/search-input", h.SearchInput)
	})

	return r
}
