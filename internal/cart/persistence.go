// internal/cart/persistence.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Persistence is the durable slot a cart snapshot round-trips through. The
// snapshot is a JSON mapping of product id to line item; Load of a slot that
// was never written returns an empty mapping.
type Persistence interface {
	Save(ctx context.Context, items map[uuid.UUID]LineItem) error
	Load(ctx context.Context) (map[uuid.UUID]LineItem, error)
}

// PersistenceError wraps a failed slot read or write. Cart mutations surface
// it instead of swallowing it, otherwise the rendered cart and the durable
// snapshot drift apart.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cart persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MemoryPersistence keeps the serialized snapshot in process memory. It still
// marshals through JSON so tests exercise the same round-trip as Redis.
type MemoryPersistence struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (m *MemoryPersistence) Save(_ context.Context, items map[uuid.UUID]LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemoryPersistence) Load(_ context.Context) (map[uuid.UUID]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return map[uuid.UUID]LineItem{}, nil
	}

	var items map[uuid.UUID]LineItem
	if err := json.Unmarshal(m.data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return items, nil
}
