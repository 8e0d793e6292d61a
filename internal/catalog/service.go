// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the catalog service.
type Service interface {
	AddProduct(ctx context.Context, name, description, category string, price float64, stock *int, imageURL string) (*Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, name, description, category string, price float64, stock *int, imageURL string) (*Product, error)
	RemoveProduct(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
}
