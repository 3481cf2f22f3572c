package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storely/cart-service/internal/domains/cart/domain"
	"github.com/storely/cart-service/internal/domains/cart/ports"
)

// DefaultKey is the namespaced key the cart row lives under.
const DefaultKey = "storely:cart"

var _ ports.CartStorage = (*Storage)(nil)

// Storage persists the cart as a single JSON blob row in PostgreSQL using
// GORM. Caller manages the DB lifecycle.
type Storage struct {
	db  *gorm.DB
	key string
}

// NewStorage wires a PostgreSQL-backed cart storage.
func NewStorage(db *gorm.DB, key string) *Storage {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	storage := &Storage{db: db, key: key}
	if db != nil {
		_ = db.AutoMigrate(&cartRecord{})
	}
	return storage
}

// cartRecord maps the whole cart blob to a relational row.
type cartRecord struct {
	Key       string    `gorm:"primaryKey;column:key;type:varchar(128)"`
	Items     []byte    `gorm:"column:items;type:jsonb"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

func (s *Storage) Load(ctx context.Context) ([]domain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", s.key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNoCart
		}
		return nil, err
	}
	var items []domain.Product
	if err := json.Unmarshal(record.Items, &items); err != nil {
		return nil, fmt.Errorf("decode persisted cart: %w", err)
	}
	return items, nil
}

func (s *Storage) Save(ctx context.Context, items []domain.Product) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if items == nil {
		items = []domain.Product{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	record := cartRecord{Key: s.key, Items: raw, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"items":      record.Items,
				"updated_at": record.UpdatedAt,
			}),
		}).Create(&record).Error
}

func (s *Storage) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres cart storage not configured")
	}
	return nil
}
