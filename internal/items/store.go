package items

import (
	"context"
	"errors"
	"sync"

	"github.com/Aidin1998/itemsvc/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no item carries the requested id
var ErrNotFound = errors.New("item not found")

// Store defines the item collection operations used by the HTTP layer
type Store interface {
	List(ctx context.Context) []models.Item
	Create(ctx context.Context, name string, price decimal.Decimal) models.Item
	Get(ctx context.Context, id int64) (models.Item, error)
	Update(ctx context.Context, id int64, patch models.ItemPatch) (models.Item, error)
	Delete(ctx context.Context, id int64) error
	Len(ctx context.Context) int
}

// MemoryStore implements Store on top of an id-ordered B-tree.
// Ids are handed out from a monotonic counter, so ascending id order is
// insertion order.
type MemoryStore struct {
	logger *zap.Logger

	mu     sync.RWMutex
	items  *btree.Map[int64, models.Item]
	nextID int64
}

// NewMemoryStore creates an empty store whose first id is 1
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		logger: logger,
		items:  btree.NewMap[int64, models.Item](32),
		nextID: 1,
	}
}

// List returns every item in insertion order
func (s *MemoryStore) List(ctx context.Context) []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, 0, s.items.Len())
	s.items.Scan(func(_ int64, item models.Item) bool {
		out = append(out, item)
		return true
	})
	return out
}

// Create assigns the next id and stores the item
func (s *MemoryStore) Create(ctx context.Context, name string, price decimal.Decimal) models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.Item{ID: s.nextID, Name: name, Price: price}
	s.nextID++
	s.items.Set(item.ID, item)

	s.logger.Debug("Item created", zap.Int64("id", item.ID))
	return item
}

// Get looks an item up by id
func (s *MemoryStore) Get(ctx context.Context, id int64) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items.Get(id)
	if !ok {
		return models.Item{}, ErrNotFound
	}
	return item, nil
}

// Update replaces the supplied fields of an existing item
func (s *MemoryStore) Update(ctx context.Context, id int64, patch models.ItemPatch) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items.Get(id)
	if !ok {
		return models.Item{}, ErrNotFound
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	s.items.Set(id, item)

	s.logger.Debug("Item updated", zap.Int64("id", id))
	return item, nil
}

// Delete removes an item. Its id is never handed out again.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items.Delete(id); !ok {
		return ErrNotFound
	}

	s.logger.Debug("Item deleted", zap.Int64("id", id))
	return nil
}

// Len returns the number of stored items
func (s *MemoryStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Len()
}
