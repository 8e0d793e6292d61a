package checkout

import (
	"context"
	"sync"

	"cravebakery/internal/catalog"
	"cravebakery/internal/notify"

	"github.com/google/uuid"
)

// stubGateway implements Gateway for testing.
type stubGateway struct {
	mu           sync.Mutex
	products     map[uuid.UUID]*catalog.Product
	decrementErr error
	setStockErr  error
	onDecrement  func()

	decrements []decrementCall
	setCalls   []setStockCall
}

type decrementCall struct {
	ProductID uuid.UUID
	Amount    int
}

type setStockCall struct {
	ProductID uuid.UUID
	Stock     int
}

func newStubGateway() *stubGateway {
	return &stubGateway{products: make(map[uuid.UUID]*catalog.Product)}
}

func (g *stubGateway) addProduct(name string, price float64, stock *int) uuid.UUID {
	id := uuid.New()
	g.products[id] = &catalog.Product{
		ID:     id,
		Name:   name,
		Price:  price,
		Stock:  stock,
		Status: "active",
	}
	return id
}

func (g *stubGateway) FetchProduct(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	product, ok := g.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (g *stubGateway) DecrementStock(_ context.Context, id uuid.UUID, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.onDecrement != nil {
		g.onDecrement()
	}
	if g.decrementErr != nil {
		return g.decrementErr
	}
	product, ok := g.products[id]
	if !ok {
		return catalog.ErrProductNotFound
	}
	if product.Stock != nil {
		if *product.Stock < amount {
			return catalog.ErrInsufficientStock
		}
		newStock := *product.Stock - amount
		product.Stock = &newStock
	}
	g.decrements = append(g.decrements, decrementCall{ProductID: id, Amount: amount})
	return nil
}

func (g *stubGateway) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.setStockErr != nil {
		return g.setStockErr
	}
	product, ok := g.products[id]
	if !ok {
		return catalog.ErrProductNotFound
	}
	product.Stock = &stock
	g.setCalls = append(g.setCalls, setStockCall{ProductID: id, Stock: stock})
	return nil
}

// stubRecorder implements Recorder for testing.
type stubRecorder struct {
	mu     sync.Mutex
	err    error
	events []recordedEvent
}

type recordedEvent struct {
	Event   string
	Payload interface{}
}

func (r *stubRecorder) Record(_ context.Context, event string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, recordedEvent{Event: event, Payload: payload})
	return nil
}

// stubSink implements notify.Sink for testing.
type stubSink struct {
	mu            sync.Mutex
	notifications []sinkNotification
}

type sinkNotification struct {
	Message  string
	Severity notify.Severity
}

func (s *stubSink) Notify(message string, severity notify.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, sinkNotification{Message: message, Severity: severity})
}

func (s *stubSink) last() (sinkNotification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notifications) == 0 {
		return sinkNotification{}, false
	}
	return s.notifications[len(s.notifications)-1], true
}
