package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/storely/cart-service/internal/domains/cart/domain"
	"github.com/storely/cart-service/internal/domains/cart/ports"
)

var _ ports.CatalogGateway = (*Client)(nil)

// Client reads product and stock data from the catalog HTTP API.
// Identical concurrent fetches are collapsed into a single request.
type Client struct {
	baseURL string
	http    *http.Client
	group   singleflight.Group
}

// NewClient instantiates the catalog client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

type productPayload struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type stockPayload struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// FetchProduct loads the catalog record for the product. The quantity field
// of the returned Product is left at zero.
func (c *Client) FetchProduct(ctx context.Context, productID int64) (domain.Product, error) {
	key := fmt.Sprintf("product/%d", productID)
	result, err, _ := c.group.Do(key, func() (any, error) {
		var payload productPayload
		if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", productID), &payload); err != nil {
			return nil, err
		}
		return domain.Product{
			ID:    payload.ID,
			Title: payload.Title,
			Price: payload.Price,
			Image: payload.Image,
		}, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return result.(domain.Product), nil
}

// FetchStock loads the available-inventory figure for the product.
func (c *Client) FetchStock(ctx context.Context, productID int64) (domain.Stock, error) {
	key := fmt.Sprintf("stock/%d", productID)
	result, err, _ := c.group.Do(key, func() (any, error) {
		var payload stockPayload
		if err := c.getJSON(ctx, fmt.Sprintf("/stock/%d", productID), &payload); err != nil {
			return nil, err
		}
		return domain.Stock{ProductID: payload.ID, Amount: payload.Amount}, nil
	})
	if err != nil {
		return domain.Stock{}, err
	}
	return result.(domain.Stock), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call catalog API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode catalog response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ports.ErrProductNotFound
	default:
		return fmt.Errorf("catalog API unexpected status: %s", resp.Status)
	}
}
