// internal/cart/implementation.go
package cart

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// store implements the Store interface.
type store struct {
	mu          sync.Mutex
	items       map[uuid.UUID]LineItem
	persistence Persistence
	observers   []func()
}

// NewStore creates a cart store bound to a persistence slot, restoring any
// previously persisted snapshot. A missing slot yields an empty cart.
func NewStore(ctx context.Context, p Persistence) (Store, error) {
	items, err := p.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	if items == nil {
		items = make(map[uuid.UUID]LineItem)
	}
	return &store{
		items:       items,
		persistence: p,
	}, nil
}

func (s *store) AddItem(ctx context.Context, productID uuid.UUID, quantity int, snapshot ProductSnapshot) error {
	if quantity <= 0 {
		return nil
	}

	s.mu.Lock()

	if item, ok := s.items[productID]; ok {
		item.Quantity += quantity
		s.items[productID] = item
	} else {
		s.items[productID] = LineItem{
			ProductID: productID,
			Name:      snapshot.Name,
			Price:     snapshot.Price,
			Quantity:  quantity,
			Image:     snapshot.Image,
		}
	}

	return s.persistAndNotify(ctx)
}

func (s *store) ChangeQuantity(ctx context.Context, productID uuid.UUID, delta int) error {
	s.mu.Lock()

	item, ok := s.items[productID]
	if !ok {
		s.mu.Unlock()
		return nil
	}

	item.Quantity += delta
	if item.Quantity <= 0 {
		delete(s.items, productID)
	} else {
		s.items[productID] = item
	}

	return s.persistAndNotify(ctx)
}

func (s *store) Clear(ctx context.Context) error {
	s.mu.Lock()

	s.items = make(map[uuid.UUID]LineItem)
	return s.persistAndNotify(ctx)
}

func (s *store) Snapshot() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ProductID.String() < items[j].ProductID.String()
	})
	return items
}

func (s *store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// persistAndNotify writes the snapshot, releases s.mu, then fires observers.
// Callers acquire s.mu and must not unlock it themselves. Observers run
// outside the lock so they can read the cart back through Snapshot.
func (s *store) persistAndNotify(ctx context.Context) error {
	err := s.persistence.Save(ctx, s.items)
	observers := append(([]func())(nil), s.observers...)
	s.mu.Unlock()

	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	for _, fn := range observers {
		fn()
	}
	return nil
}
