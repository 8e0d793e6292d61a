package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cravebakery/internal/cart"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService implements Service for handler tests.
type stubService struct {
	executeErr error
	order      *Order
}

func (s *stubService) Validate(context.Context, []cart.LineItem) error { return nil }

func (s *stubService) Execute(context.Context, cart.Store) (*Order, error) {
	if s.executeErr != nil {
		return nil, s.executeErr
	}
	return s.order, nil
}

func newHandlerServer(svc Service) *httptest.Server {
	sessions := cart.NewSessions(func(slot string) cart.Persistence {
		return cart.NewMemoryPersistence()
	})
	router := chi.NewRouter()
	NewHandler(svc, sessions).Routes(router)
	return httptest.NewServer(router)
}

func postCheckout(t *testing.T, serverURL, sessionID string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, serverURL+"/checkout", nil)
	require.NoError(t, err)
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty cart", ErrEmptyCart, http.StatusBadRequest},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"insufficient stock", &InsufficientStockError{Name: "Plum Cake", Requested: 3, Available: 1}, http.StatusConflict},
		{"product gone", &ProductNotFoundError{ProductID: uuid.New()}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newHandlerServer(&stubService{executeErr: tt.err})
			defer server.Close()

			resp := postCheckout(t, server.URL, "sess-1")
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandlerRequiresSession(t *testing.T) {
	server := newHandlerServer(&stubService{})
	defer server.Close()

	resp := postCheckout(t, server.URL, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerReturnsOrder(t *testing.T) {
	want := &Order{OrderID: "CRV-123456", Total: 550}
	server := newHandlerServer(&stubService{order: want})
	defer server.Close()

	resp := postCheckout(t, server.URL, "sess-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "CRV-123456", got.OrderID)
	assert.Equal(t, 550.0, got.Total)
}
