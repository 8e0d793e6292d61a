// internal/checkout/implementation.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"cravebakery/internal/cart"
	"cravebakery/internal/catalog"
	"cravebakery/internal/notify"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// service implements the Service interface.
type service struct {
	gateway     Gateway
	recorder    Recorder
	sink        notify.Sink
	rateLimiter *rate.Limiter
	tracer      trace.Tracer
	now         func() time.Time
}

// NewService creates a new checkout coordinator. There is deliberately no
// mutual exclusion across Execute calls; concurrent checkouts race on stock,
// and the atomic decrement path is what keeps them from overselling.
func NewService(gateway Gateway, recorder Recorder, sink notify.Sink) Service {
	return &service{
		gateway:     gateway,
		recorder:    recorder,
		sink:        sink,
		rateLimiter: rate.NewLimiter(rate.Every(2*time.Second), 10),
		tracer:      otel.Tracer("cravebakery/checkout"),
		now:         time.Now,
	}
}

// Validate re-fetches current stock for every line item. Products with
// untracked stock always pass.
func (s *service) Validate(ctx context.Context, items []cart.LineItem) error {
	ctx, span := s.tracer.Start(ctx, "checkout.validate",
		trace.WithAttributes(attribute.Int("cart.items", len(items))),
	)
	defer span.End()

	for _, item := range items {
		product, err := s.gateway.FetchProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return &ProductNotFoundError{ProductID: item.ProductID, Name: item.Name}
			}
			return fmt.Errorf("failed to fetch product %s: %w", item.ProductID, err)
		}
		if product.Status != "active" {
			return &ProductNotFoundError{ProductID: item.ProductID, Name: item.Name}
		}
		if product.Stock != nil && item.Quantity > *product.Stock {
			return &InsufficientStockError{
				Name:      product.Name,
				Requested: item.Quantity,
				Available: *product.Stock,
			}
		}
	}

	return nil
}

// Execute orchestrates the checkout sequence. Validation failures abort with
// the cart untouched; stock-update failures after validation are logged and
// tolerated, so the user may see a confirmed order whose inventory
// bookkeeping partially failed.
func (s *service) Execute(ctx context.Context, store cart.Store) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.execute")
	defer span.End()

	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	items := store.Snapshot()
	if len(items) == 0 {
		s.sink.Notify("Your cart is empty", notify.SeverityError)
		return nil, ErrEmptyCart
	}

	if err := s.Validate(ctx, items); err != nil {
		s.sink.Notify(err.Error(), notify.SeverityError)
		return nil, err
	}

	orderID := newOrderID()
	placedAt := s.now()
	span.SetAttributes(attribute.String("order.id", orderID))

	for _, item := range items {
		s.decrementStock(ctx, item)
	}

	total := 0.0
	for _, item := range items {
		total += item.Subtotal()
	}

	s.recordCheckout(ctx, orderID, total, items)

	message := BuildOrderMessage(orderID, placedAt, items, total)
	order := &Order{
		OrderID:     orderID,
		PlacedAt:    placedAt,
		LineItems:   items,
		Total:       total,
		Message:     message,
		WhatsAppURL: BuildWhatsAppLink(message),
	}

	if err := store.Clear(ctx); err != nil {
		// The order is already committed remotely; surface the stale cart.
		s.sink.Notify("Order placed, but the cart could not be cleared", notify.SeverityError)
		return order, err
	}

	s.sink.Notify("Order placed successfully!", notify.SeveritySuccess)
	return order, nil
}

// decrementStock tries the atomic remote decrement first. If that fails it
// falls back to read-then-write, which loses updates under concurrent
// checkouts; the fallback is logged distinctly so operators can tell when
// the weaker guarantee was used. Both paths failing does not unwind the
// checkout.
func (s *service) decrementStock(ctx context.Context, item cart.LineItem) {
	atomicErr := s.gateway.DecrementStock(ctx, item.ProductID, item.Quantity)
	if atomicErr == nil {
		return
	}

	log.Printf("atomic stock decrement failed for product %s, using non-atomic fallback: %v", item.ProductID, atomicErr)

	product, err := s.gateway.FetchProduct(ctx, item.ProductID)
	if err != nil {
		logRemoteUpdateError(&RemoteUpdateError{ProductID: item.ProductID, Atomic: atomicErr, Fallback: err})
		return
	}
	if product.Stock == nil {
		return
	}

	newStock := *product.Stock - item.Quantity
	if newStock < 0 {
		newStock = 0
	}
	if err := s.gateway.SetStock(ctx, item.ProductID, newStock); err != nil {
		logRemoteUpdateError(&RemoteUpdateError{ProductID: item.ProductID, Atomic: atomicErr, Fallback: err})
	}
}

func logRemoteUpdateError(err *RemoteUpdateError) {
	log.Printf("checkout completed with failed stock bookkeeping: %v", err)
}

type checkoutItemPayload struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Qty   int       `json:"qty"`
	Price float64   `json:"price"`
}

type checkoutPayload struct {
	OrderID   string                `json:"orderId"`
	Total     float64               `json:"total"`
	ItemCount int                   `json:"itemCount"`
	Items     []checkoutItemPayload `json:"items"`
}

// recordCheckout emits the order-placed analytics event. Fire-and-forget:
// insertion failures are logged and swallowed.
func (s *service) recordCheckout(ctx context.Context, orderID string, total float64, items []cart.LineItem) {
	payload := checkoutPayload{
		OrderID:   orderID,
		Total:     total,
		ItemCount: len(items),
	}
	for _, item := range items {
		payload.Items = append(payload.Items, checkoutItemPayload{
			ID:    item.ProductID,
			Name:  item.Name,
			Qty:   item.Quantity,
			Price: item.Price,
		})
	}

	if err := s.recorder.Record(ctx, "checkout", payload); err != nil {
		log.Printf("failed to record checkout analytics event: %v", err)
	}
}

// newOrderID generates a human-readable order token. It only needs to
// disambiguate orders in a chat conversation, so collisions are accepted.
func newOrderID() string {
	return fmt.Sprintf("CRV-%06d", rand.Intn(1000000))
}
