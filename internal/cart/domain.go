// internal/cart/domain.go
package cart

import (
	"github.com/google/uuid"
)

// LineItem is one product entry in the cart. Name, price and image are a
// snapshot captured when the item was added; they are not live-synced to
// later catalog changes.
type LineItem struct {
	ProductID uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"qty"`
	Image     string    `json:"image"`
}

// Subtotal is the line's price times quantity.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// ProductSnapshot carries the denormalized product fields the caller resolved
// from the catalog before adding to the cart. The store itself never fetches.
type ProductSnapshot struct {
	Name  string
	Price float64
	Image string
}
