package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/storely/cart-service/internal/domains/cart/domain"
	"github.com/storely/cart-service/internal/domains/cart/ports"
)

// Service owns the in-memory cart and mediates every change through stock
// validation and persistence. Mutations are serialized by a per-store mutex,
// so two in-flight operations can never commit over each other's writes.
//
// Failed mutations leave both the in-memory and the persisted cart
// untouched; the failure is returned as an error and mirrored to the
// Notifier with a user-facing message.
type Service struct {
	catalog  ports.CatalogGateway
	storage  ports.CartStorage
	notifier ports.Notifier

	mu   sync.Mutex
	cart domain.Cart
}

// NewService restores the persisted cart and returns a ready store.
// A missing persisted cart yields an empty one; a malformed one is an error.
func NewService(ctx context.Context, catalog ports.CatalogGateway, storage ports.CartStorage, notifier ports.Notifier) (*Service, error) {
	if notifier == nil {
		notifier = ports.NoopNotifier
	}
	items, err := storage.Load(ctx)
	if err != nil && !errors.Is(err, ports.ErrNoCart) {
		return nil, fmt.Errorf("load persisted cart: %w", err)
	}
	cart, err := domain.NewCart(items)
	if err != nil {
		return nil, fmt.Errorf("restore persisted cart: %w", err)
	}
	return &Service{
		catalog:  catalog,
		storage:  storage,
		notifier: notifier,
		cart:     cart,
	}, nil
}

// Cart returns a snapshot of the current line items.
func (s *Service) Cart(ctx context.Context) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

// AddProduct puts one unit of the product into the cart. For a product
// already in the cart the quantity is bumped by one; for a new product the
// catalog record is appended with amount 1.
func (s *Service) AddProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, inCart := s.cart.Find(productID)

	// The catalog is consulted even for a quantity bump, so a product that
	// vanished from the catalog fails the whole operation.
	product, err := s.catalog.FetchProduct(ctx, productID)
	if err != nil {
		s.notifyError(ctx, msgAddFailed)
		return fmt.Errorf("%w: %w", ErrAddProductFailed, err)
	}

	if inCart {
		// Stock is compared against the amount already in the cart, not the
		// bumped one: stock equal to the current amount still admits the
		// bump. Callers that need the strict comparison set the absolute
		// quantity through UpdateProductAmount.
		covered, err := s.checkStock(ctx, productID, existing.Amount)
		if err != nil {
			s.notifyError(ctx, msgAddFailed)
			return fmt.Errorf("%w: %w", ErrAddProductFailed, err)
		}
		if !covered {
			s.notifyError(ctx, msgOutOfStock)
			return ErrOutOfStock
		}
		next, ok, err := s.cart.WithAmount(productID, existing.Amount+1)
		if err != nil || !ok {
			s.notifyError(ctx, msgAddFailed)
			return fmt.Errorf("%w: bump amount for product %d", ErrAddProductFailed, productID)
		}
		return s.commit(ctx, next, ErrAddProductFailed, msgAddFailed)
	}

	product.Amount = 1
	next, err := s.cart.WithProduct(product)
	if err != nil {
		s.notifyError(ctx, msgAddFailed)
		return fmt.Errorf("%w: %w", ErrAddProductFailed, err)
	}
	return s.commit(ctx, next, ErrAddProductFailed, msgAddFailed)
}

// RemoveProduct drops the line item for the product. No stock check is
// needed; removal never increases the risk of overselling.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.cart.Without(productID)
	if !ok {
		s.notifyError(ctx, msgNotInCart)
		return ErrProductNotInCart
	}
	return s.commit(ctx, next, ErrRemoveProductFailed, msgRemoveFailed)
}

// UpdateProductAmount sets the absolute quantity of an existing line item.
// Requests with amount <= 0 are ignored: no error, no notification, no
// state change.
func (s *Service) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Contains(productID) {
		s.notifyError(ctx, msgNotInCart)
		return ErrProductNotInCart
	}
	covered, err := s.checkStock(ctx, productID, amount)
	if err != nil {
		s.notifyError(ctx, msgUpdateFailed)
		return fmt.Errorf("%w: %w", ErrUpdateAmountFailed, err)
	}
	if !covered {
		s.notifyError(ctx, msgOutOfStock)
		return ErrOutOfStock
	}
	next, ok, err := s.cart.WithAmount(productID, amount)
	if err != nil || !ok {
		s.notifyError(ctx, msgUpdateFailed)
		return fmt.Errorf("%w: set amount for product %d", ErrUpdateAmountFailed, productID)
	}
	return s.commit(ctx, next, ErrUpdateAmountFailed, msgUpdateFailed)
}

// checkStock fetches the stock record and reports whether it covers the
// requested quantity. This read-then-decide check is the sole gate against
// overselling; there is no reservation on the remote side.
func (s *Service) checkStock(ctx context.Context, productID int64, requested int) (bool, error) {
	stock, err := s.catalog.FetchStock(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("fetch stock for product %d: %w", productID, err)
	}
	return stock.Covers(requested), nil
}

// commit persists the new cart and only then swaps it in, so a persistence
// failure leaves the in-memory state exactly where it was.
func (s *Service) commit(ctx context.Context, next domain.Cart, opErr error, failMsg string) error {
	if err := s.storage.Save(ctx, next.Items()); err != nil {
		s.notifyError(ctx, failMsg)
		return fmt.Errorf("%w: %w", opErr, err)
	}
	s.cart = next
	return nil
}

func (s *Service) notifyError(ctx context.Context, message string) {
	s.notifier.Notify(ctx, ports.NewNotification(ports.SeverityError, message))
}

var _ ports.Service = (*Service)(nil)
