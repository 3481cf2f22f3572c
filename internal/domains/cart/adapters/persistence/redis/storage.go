package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/storely/cart-service/internal/domains/cart/domain"
	"github.com/storely/cart-service/internal/domains/cart/ports"
)

// DefaultKey is the namespaced key the cart blob lives under.
const DefaultKey = "storely:cart"

var _ ports.CartStorage = (*Storage)(nil)

// Storage persists the cart as a JSON blob in a single Redis key.
// Caller manages the client lifecycle.
type Storage struct {
	client *redis.Client
	key    string
}

func NewStorage(client *redis.Client, key string) *Storage {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &Storage{client: client, key: key}
}

func (s *Storage) Load(ctx context.Context) ([]domain.Product, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNoCart
		}
		return nil, fmt.Errorf("redis GET %s: %w", s.key, err)
	}
	var items []domain.Product
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode persisted cart: %w", err)
	}
	return items, nil
}

func (s *Storage) Save(ctx context.Context, items []domain.Product) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if items == nil {
		items = []domain.Product{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key, err)
	}
	return nil
}

func (s *Storage) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis cart storage not configured")
	}
	return nil
}
