package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cravebakery/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/google/uuid"
)

func TestFetchProduct(t *testing.T) {
	id := uuid.New()
	stock := 7
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/"+id.String(), r.URL.Path)
		json.NewEncoder(w).Encode(catalog.Product{ID: id, Name: "Croissant", Price: 30, Stock: &stock, Status: "active"})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	product, err := client.FetchProduct(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Croissant", product.Name)
	require.NotNil(t, product.Stock)
	assert.Equal(t, 7, *product.Stock)
}

func TestFetchProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "product not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	_, err := client.FetchProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestDecrementStockStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"ok", http.StatusOK, nil},
		{"not found", http.StatusNotFound, catalog.ErrProductNotFound},
		{"conflict", http.StatusConflict, catalog.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				var req struct {
					Amount int `json:"amount"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, 3, req.Amount)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewCatalogClient(server.URL)
			err := client.DecrementStock(context.Background(), uuid.New(), 3)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSetStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var req struct {
			Stock int `json:"stock"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 4, req.Stock)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	assert.NoError(t, client.SetStock(context.Background(), uuid.New(), 4))
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		json.NewEncoder(w).Encode([]*catalog.Product{
			{ID: uuid.New(), Name: "Almond Cookie", Price: 25, Status: "active"},
			{ID: uuid.New(), Name: "Baguette", Price: 55, Status: "active"},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Almond Cookie", products[0].Name)
}
