// internal/cart/handler.go
package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"cravebakery/internal/catalog"
	"cravebakery/internal/clients"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	sessions *Sessions
	catalog  *clients.CatalogClient
}

func NewHandler(sessions *Sessions, catalogClient *clients.CatalogClient) *Handler {
	return &Handler{sessions: sessions, catalog: catalogClient}
}

// Routes mounts the cart endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.handleGetCart)
		r.Delete("/", h.handleClearCart)
		r.Post("/items", h.handleAddItem)
		r.Post("/items/{id}/increment", h.handleIncrement)
		r.Post("/items/{id}/decrement", h.handleDecrement)
	})
}

// SessionID extracts the storefront session key from the request.
func SessionID(r *http.Request) string {
	return r.Header.Get("X-Session-ID")
}

func (h *Handler) sessionStore(w http.ResponseWriter, r *http.Request) (Store, bool) {
	sessionID := SessionID(r)
	if sessionID == "" {
		http.Error(w, "missing X-Session-ID header", http.StatusBadRequest)
		return nil, false
	}

	store, err := h.sessions.Store(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return store, true
}

type cartView struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

func viewOf(store Store) cartView {
	items := store.Snapshot()
	total := 0.0
	for _, item := range items {
		total += item.Subtotal()
	}
	return cartView{Items: items, Total: total}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionStore(w, r)
	if !ok {
		return
	}

	json.NewEncoder(w).Encode(viewOf(store))
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionStore(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	// Resolve the product first; the store only holds snapshots.
	product, err := h.catalog.FetchProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	snapshot := ProductSnapshot{
		Name:  product.Name,
		Price: product.Price,
		Image: product.ImageURL,
	}
	if err := store.AddItem(r.Context(), req.ProductID, req.Quantity, snapshot); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(viewOf(store))
}

func (h *Handler) changeQuantity(w http.ResponseWriter, r *http.Request, delta int) {
	store, ok := h.sessionStore(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if err := store.ChangeQuantity(r.Context(), id, delta); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(viewOf(store))
}

func (h *Handler) handleIncrement(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, +1)
}

func (h *Handler) handleDecrement(w http.ResponseWriter, r *http.Request) {
	h.changeQuantity(w, r, -1)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionStore(w, r)
	if !ok {
		return
	}

	if err := store.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
