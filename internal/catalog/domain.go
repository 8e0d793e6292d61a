// internal/catalog/domain.go
package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a bakery item in the storefront catalog. Stock is nil for
// products whose inventory is not tracked; those never sell out.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Stock       *int      `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      string    `json:"status"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductAddedEvent is published when a new product is added.
type ProductAddedEvent struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Price    float64   `json:"price"`
	Stock    *int      `json:"stock"`
}

// ProductUpdatedEvent is published when product fields change.
type ProductUpdatedEvent struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Price    float64   `json:"price"`
	Stock    *int      `json:"stock"`
}

// StockDecrementedEvent is published when checkout reduces tracked stock.
type StockDecrementedEvent struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// StockSetEvent is published when stock is written outright. The storefront's
// non-atomic fallback path lands here, so these events flag the weaker
// guarantee in the log.
type StockSetEvent struct {
	ID       uuid.UUID `json:"id"`
	NewStock int       `json:"new_stock"`
}

// ProductRemovedEvent is published when a product is retired.
type ProductRemovedEvent struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
