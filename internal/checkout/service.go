// internal/checkout/service.go
package checkout

import (
	"context"
	"time"

	"cravebakery/internal/cart"
	"cravebakery/internal/catalog"

	"github.com/google/uuid"
)

// Gateway is the slice of the product catalog the coordinator needs:
// fresh reads for validation and the two stock-write paths.
type Gateway interface {
	FetchProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
}

// Recorder records best-effort analytics events. Failures are swallowed by
// the coordinator, never surfaced as checkout failures.
type Recorder interface {
	Record(ctx context.Context, event string, payload interface{}) error
}

// Order is the ephemeral result of a successful checkout. It is serialized
// into the outbound message and an analytics event, never persisted.
type Order struct {
	OrderID     string          `json:"order_id"`
	PlacedAt    time.Time       `json:"placed_at"`
	LineItems   []cart.LineItem `json:"line_items"`
	Total       float64         `json:"total"`
	Message     string          `json:"message"`
	WhatsAppURL string          `json:"whatsapp_url"`
}

// Service defines the interface for the checkout coordinator.
type Service interface {
	// Validate re-checks every line item against current catalog state.
	// All-or-nothing: the first failing item aborts the whole checkout.
	Validate(ctx context.Context, items []cart.LineItem) error

	// Execute runs the full checkout sequence against the given cart store:
	// validate, decrement stock, record analytics, build the outbound order
	// message, clear the cart, notify.
	Execute(ctx context.Context, store cart.Store) (*Order, error)
}
