package ports

import (
	"context"
	"errors"

	"github.com/storely/cart-service/internal/domains/cart/domain"
)

// ErrProductNotFound signals that the catalog has no such product.
var ErrProductNotFound = errors.New("product not found in catalog")

// CatalogGateway reads product and stock data from the catalog service.
// Stock is authoritative on the remote side; the cart never writes it.
type CatalogGateway interface {
	// FetchProduct returns the catalog record for the product. The returned
	// Amount field is meaningless; callers set the cart quantity themselves.
	FetchProduct(ctx context.Context, productID int64) (domain.Product, error)

	// FetchStock returns the available-inventory figure for the product.
	FetchStock(ctx context.Context, productID int64) (domain.Stock, error)
}
