package memory

import (
	"context"
	"sync"

	"github.com/storely/cart-service/internal/domains/cart/domain"
	"github.com/storely/cart-service/internal/domains/cart/ports"
)

var _ ports.CartStorage = (*Storage)(nil)

// Storage is an in-memory CartStorage implementation for local runs and
// tests. Nothing survives a restart.
type Storage struct {
	mu    sync.RWMutex
	items []domain.Product
	saved bool
}

func NewStorage() *Storage {
	return &Storage{}
}

func (s *Storage) Load(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, ports.ErrNoCart
	}
	items := make([]domain.Product, len(s.items))
	copy(items, s.items)
	return items, nil
}

func (s *Storage) Save(_ context.Context, items []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]domain.Product, len(items))
	copy(s.items, items)
	s.saved = true
	return nil
}
