// internal/clients/catalog_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cravebakery/internal/catalog"

	"github.com/google/uuid"
)

type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{baseURL: baseURL, client: http.DefaultClient}
}

func (c *CatalogClient) FetchProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, catalog.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var product catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *CatalogClient) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products", c.baseURL), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var products []*catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, err
	}

	return products, nil
}

// DecrementStock asks the catalog to atomically reduce tracked stock.
func (c *CatalogClient) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	body, err := json.Marshal(struct {
		Amount int `json:"amount"`
	}{Amount: amount})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/products/%s/decrement", c.baseURL, id), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return catalog.ErrProductNotFound
	case http.StatusConflict:
		return catalog.ErrInsufficientStock
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// SetStock writes an absolute stock value. Checkout only calls this on its
// documented read-then-write fallback path.
func (c *CatalogClient) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	body, err := json.Marshal(struct {
		Stock int `json:"stock"`
	}{Stock: stock})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/products/%s/stock", c.baseURL, id), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return catalog.ErrProductNotFound
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
