package ports

import (
	"context"

	"github.com/storely/cart-service/internal/domains/cart/domain"
)

// Service exposes cart use cases to adapters.
//
// Mutations communicate their outcome twice: through the returned error for
// programmatic callers, and through the Notifier side channel for the end
// user. A nil error means the cart changed and was persisted.
type Service interface {
	// Cart returns a snapshot of the current line items.
	Cart(ctx context.Context) []domain.Product

	// AddProduct puts one unit of the product into the cart, or bumps the
	// quantity of an existing line item by one.
	AddProduct(ctx context.Context, productID int64) error

	// RemoveProduct drops the line item for the product.
	RemoveProduct(ctx context.Context, productID int64) error

	// UpdateProductAmount sets the absolute quantity of an existing line
	// item. Requests with amount <= 0 are ignored without error.
	UpdateProductAmount(ctx context.Context, productID int64, amount int) error
}
