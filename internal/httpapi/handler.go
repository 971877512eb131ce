package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/money"
	"github.com/roach88/storefront/internal/session"
)

type Handler struct {
	loop   *session.Loop
	logger *slog.Logger
}

func NewHandler(loop *session.Loop, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{loop: loop, logger: logger}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type cartResponse struct {
	Lines      []cart.LineItem `json:"lines"`
	ItemCount  int             `json:"itemCount"`
	Total      decimal.Decimal `json:"total"`
	TotalLabel string          `json:"totalLabel"`
}

type commandResponse struct {
	Result session.Result `json:"result"`
	Cart   cartResponse   `json:"cart"`
}

type categoriesResponse struct {
	Categories []catalog.CategoryCount `json:"categories"`
	Stock      catalog.Stats           `json:"stock"`
}

type searchInputRequest struct {
	Term string `json:"term"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	var view session.View
	if err := h.loop.Inspect(r.Context(), func(s *session.Session) {
		view = s.View()
	}); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	var resp categoriesResponse
	if err := h.loop.Inspect(r.Context(), func(s *session.Session) {
		products := s.Products()
		resp = categoriesResponse{
			Categories: catalog.CategoryCounts(products),
			Stock:      catalog.StockStats(products),
		}
	}); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	var resp cartResponse
	if err := h.loop.Inspect(r.Context(), func(s *session.Session) {
		resp = newCartResponse(s)
	}); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var cmd session.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Code: "BAD_REQUEST", Message: "invalid JSON body"}})
		return
	}
	if cmd.Intent == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Code: "BAD_REQUEST", Message: "intent is required"}})
		return
	}
	h.submit(w, r, cmd)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, session.Command{Intent: session.IntentCheckout})
}

// SearchInput accepts keystroke-level search input. The search is applied
// after the debounce period, so the response carries no result.
func (h *Handler) SearchInput(w http.ResponseWriter, r *http.Request) {
	var req searchInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Code: "BAD_REQUEST", Message: "invalid JSON body"}})
		return
	}
	h.loop.Type(req.Term)
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, cmd session.Command) {
	res, err := h.loop.Submit(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := commandResponse{Result: res}
	if err := h.loop.Inspect(r.Context(), func(s *session.Session) {
		resp.Cart = newCartResponse(s)
	}); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var se *session.Error
	switch {
	case errors.As(err, &se):
		writeJSON(w, statusFor(se.Code), errorBody{Error: errorDetail{Code: string(se.Code), Message: se.Message}})
	case errors.Is(err, session.ErrLoopClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: errorDetail{Code: "UNAVAILABLE", Message: "storefront is shutting down"}})
	default:
		h.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{Code: "INTERNAL", Message: "internal error"}})
	}
}

func statusFor(code session.ErrorCode) int {
	switch code {
	case session.ErrCodeUnknownProduct:
		return http.StatusNotFound
	case session.ErrCodeOutOfStock, session.ErrCodeEmptyCart:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func newCartResponse(s *session.Session) cartResponse {
	engine := s.Cart()
	return cartResponse{
		Lines:      engine.Lines(),
		ItemCount:  engine.ItemCount(),
		Total:      engine.Total(),
		TotalLabel: money.Format(s.CheckoutConfig().CurrencySymbol, engine.Total()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
