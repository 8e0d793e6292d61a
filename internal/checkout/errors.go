// internal/checkout/errors.go
package checkout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart   = errors.New("cart is empty, nothing to checkout")
	ErrRateLimited = errors.New("too many checkout attempts, slow down")
)

// ProductNotFoundError means a line item references a product that no longer
// exists in the catalog. The checkout aborts and the cart is left untouched.
type ProductNotFoundError struct {
	ProductID uuid.UUID
	Name      string
}

func (e *ProductNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("product %q is no longer available", e.Name)
	}
	return fmt.Sprintf("product %s is no longer available", e.ProductID)
}

// InsufficientStockError means a line item requests more than the catalog
// currently has. The message carries the shortfall for the user.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// RemoteUpdateError means the stock decrement failed on both the atomic path
// and the fallback. It is logged, not returned: the checkout still reports
// success, a tolerated inconsistency inherited from the original design.
type RemoteUpdateError struct {
	ProductID uuid.UUID
	Atomic    error
	Fallback  error
}

func (e *RemoteUpdateError) Error() string {
	return fmt.Sprintf("stock update failed for product %s: atomic: %v, fallback: %v", e.ProductID, e.Atomic, e.Fallback)
}
