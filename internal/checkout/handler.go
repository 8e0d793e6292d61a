// internal/checkout/handler.go
package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"cravebakery/internal/cart"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  Service
	sessions *cart.Sessions
}

func NewHandler(service Service, sessions *cart.Sessions) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Routes mounts the checkout endpoint on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/checkout", h.handleCheckout)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := cart.SessionID(r)
	if sessionID == "" {
		http.Error(w, "missing X-Session-ID header", http.StatusBadRequest)
		return
	}

	store, err := h.sessions.Store(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	order, err := h.service.Execute(r.Context(), store)
	if err != nil {
		var notFound *ProductNotFoundError
		var insufficient *InsufficientStockError
		switch {
		case errors.Is(err, ErrEmptyCart):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrRateLimited):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		case errors.As(err, &notFound), errors.As(err, &insufficient):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}
