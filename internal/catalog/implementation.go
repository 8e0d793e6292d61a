// internal/catalog/implementation.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cravebakery/pkg/eventstore"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	eventStore *eventstore.EventStore
	db         *sql.DB
}

// NewService creates a new catalog service instance.
func NewService(es *eventstore.EventStore, db *sql.DB) Service {
	return &service{
		eventStore: es,
		db:         db,
	}
}

// AddProduct creates a new product in the catalog.
func (s *service) AddProduct(ctx context.Context, name, description, category string, price float64, stock *int, imageURL string) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if price < 0 {
		return nil, fmt.Errorf("product price must be non-negative")
	}
	if stock != nil && *stock < 0 {
		return nil, fmt.Errorf("product stock must be non-negative")
	}

	id := uuid.New()
	eventData := ProductAddedEvent{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
		Stock:    stock,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "product",
		EventType:     "ProductAdded",
		EventData:     jsonData,
		Version:       1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "product", 0, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	product := &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		Stock:       stock,
		ImageURL:    imageURL,
		Status:      "active",
		Version:     1,
	}
	if err := s.insertProductIntoReadModel(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	return product, nil
}

func (s *service) insertProductIntoReadModel(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (id, name, description, category, price, stock, image_url, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query, product.ID, product.Name, product.Description, product.Category, product.Price, nullableInt(product.Stock), product.ImageURL, product.Status, product.Version)
	return err
}

// GetProduct retrieves a product from the catalog by its ID.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := `
		SELECT id, name, description, category, price, stock, image_url, status, version, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	product := &Product{}
	var stock sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Price,
		&stock,
		&product.ImageURL,
		&product.Status,
		&product.Version,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product from read model: %w", err)
	}
	if stock.Valid {
		v := int(stock.Int64)
		product.Stock = &v
	}

	return product, nil
}

// ListProducts returns all active products ordered by name.
func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	query := `
		SELECT id, name, description, category, price, stock, image_url, status, version, created_at, updated_at
		FROM products
		WHERE status = 'active'
		ORDER BY name ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product := &Product{}
		var stock sql.NullInt64
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Category,
			&product.Price,
			&stock,
			&product.ImageURL,
			&product.Status,
			&product.Version,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if stock.Valid {
			v := int(stock.Int64)
			product.Stock = &v
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// UpdateProduct replaces the editable fields of a product.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, name, description, category string, price float64, stock *int, imageURL string) (*Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	eventData := ProductUpdatedEvent{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
		Stock:    stock,
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "product",
		EventType:     "ProductUpdated",
		EventData:     jsonData,
		Version:       product.Version + 1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "product", product.Version, []eventstore.Event{event}); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, stock = $5, image_url = $6, version = version + 1, updated_at = NOW()
		WHERE id = $7 AND version = $8
	`
	_, err = s.db.ExecContext(ctx, query, name, description, category, price, nullableInt(stock), imageURL, id, product.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update read model: %w", err)
	}

	return s.GetProduct(ctx, id)
}

// RemoveProduct marks a product as retired.
func (s *service) RemoveProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	eventData := ProductRemovedEvent{
		ID:     id,
		Status: "retired",
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "product",
		EventType:     "ProductRemoved",
		EventData:     jsonData,
		Version:       product.Version + 1,
	}

	if err := s.eventStore.AppendEvents(ctx, id, "product", product.Version, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE products
		SET status = 'retired', version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`
	_, err = s.db.ExecContext(ctx, query, id, product.Version)
	return err
}

// DecrementStock reduces tracked stock by amount in a single statement, so
// concurrent checkouts cannot oversell through this path. Untracked stock
// (NULL) is a successful no-op.
func (s *service) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("decrement amount must be positive")
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if product.Status != "active" {
		return ErrProductNotFound
	}
	if product.Stock == nil {
		return nil
	}
	if *product.Stock < amount {
		return ErrInsufficientStock
	}

	// The append goes first, like every other writer here: losing the
	// version race must surface before stock changes, not after.
	eventData := StockDecrementedEvent{ID: id, Amount: amount}
	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "product",
		EventType:     "StockDecremented",
		EventData:     jsonData,
		Version:       product.Version + 1,
	}
	if err := s.eventStore.AppendEvents(ctx, id, "product", product.Version, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE products
		SET stock = stock - $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND stock >= $2 AND version = $3
	`
	result, err := s.db.ExecContext(ctx, query, id, amount, product.Version)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// SetStock writes an absolute stock value. This backs the storefront's
// read-then-write fallback, which is not safe under concurrent checkouts;
// the distinct StockSet event keeps that visible in the log.
func (s *service) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	if stock < 0 {
		return fmt.Errorf("stock must be non-negative")
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	eventData := StockSetEvent{ID: id, NewStock: stock}
	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   id,
		AggregateType: "product",
		EventType:     "StockSet",
		EventData:     jsonData,
		Version:       product.Version + 1,
	}
	if err := s.eventStore.AppendEvents(ctx, id, "product", product.Version, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	query := `
		UPDATE products
		SET stock = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`
	_, err = s.db.ExecContext(ctx, query, stock, id, product.Version)
	return err
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
