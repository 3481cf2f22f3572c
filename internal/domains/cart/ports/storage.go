package ports

import (
	"context"
	"errors"

	"github.com/storely/cart-service/internal/domains/cart/domain"
)

// ErrNoCart signals that no cart has been persisted yet.
var ErrNoCart = errors.New("no cart persisted")

// CartStorage persists the cart as a single blob under a fixed key.
// Save always overwrites the whole cart; there is no per-entry write.
type CartStorage interface {
	// Load returns the persisted line items, or ErrNoCart when nothing has
	// been saved yet.
	Load(ctx context.Context) ([]domain.Product, error)

	// Save replaces the persisted cart with the given line items.
	Save(ctx context.Context, items []domain.Product) error
}
