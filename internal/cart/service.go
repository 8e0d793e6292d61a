// internal/cart/service.go
package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store owns all cart mutation logic for a single persisted cart slot.
// Invalid inputs (non-positive quantity on a new add, unknown product on
// ChangeQuantity) are silently ignored; only persistence failures are
// surfaced, since swallowing those would desynchronize the rendered cart
// from its durable snapshot.
type Store interface {
	// AddItem accumulates quantity onto an existing line item, or creates
	// one from the snapshot. After a successful call the line item's
	// quantity is at least one.
	AddItem(ctx context.Context, productID uuid.UUID, quantity int, snapshot ProductSnapshot) error

	// ChangeQuantity adjusts a line item by delta, typically +1 or -1.
	// Quantities that would drop to zero or below remove the line item.
	ChangeQuantity(ctx context.Context, productID uuid.UUID, delta int) error

	// Clear empties the cart unconditionally.
	Clear(ctx context.Context) error

	// Snapshot returns a defensive copy of the current line items, ordered
	// by name for stable rendering. Mutating it does not affect the store.
	Snapshot() []LineItem

	// OnChange registers an observer invoked after every persisted mutation.
	OnChange(fn func())
}
