// Package favorites keeps the user's saved procedures. The whole collection
// lives in memory, most recent first, and is written back as one JSON array
// after every mutation.
package favorites

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"purity/internal/apperr"
	"purity/internal/model"
)

// StorageKey is the namespaced key the collection is persisted under.
const StorageKey = "pmic_favorites"

// Storage is the persistence collaborator.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Change describes what Toggle did.
type Change int

const (
	Unchanged Change = iota
	Added
	Removed
)

func (c Change) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return "unchanged"
}

// Store is the Favorites Store. All methods are safe for concurrent use;
// mutations are serialized by a single mutex.
type Store struct {
	mu      sync.Mutex
	items   []model.FavoriteItem
	storage Storage
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Load reads the persisted collection. It never fails: a missing key yields
// an empty store, and unreadable or corrupt data is logged and discarded.
func Load(ctx context.Context, storage Storage, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := storage.Get(ctx, StorageKey)
	if err != nil {
		logger.Warn("Failed to read favorites, starting empty", zap.Error(err))
		return s
	}
	if !ok || raw == "" {
		return s
	}

	items, err := decode(raw)
	if err != nil {
		logger.Warn("Failed to parse favorites, starting empty",
			zap.Error(apperr.PersistCorrupt(StorageKey, err)))
		return s
	}
	s.items = items
	logger.Debug("Loaded favorites", zap.Int("count", len(items)))
	return s
}

// Toggle saves the (food, adulterant, test) triple, or removes it when a
// favorite with the same key already exists. Nothing happens when any
// argument is nil.
func (s *Store) Toggle(ctx context.Context, food *model.FoodItem, adulterant *model.Adulterant, test *model.TestProcedure) Change {
	if food == nil || adulterant == nil || test == nil {
		return Unchanged
	}
	id := model.FavoriteKey(food.Name, adulterant.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	change := Added
	if i := s.indexLocked(id); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		change = Removed
	} else {
		item := model.FavoriteItem{
			ID:             id,
			FoodName:       food.Name,
			AdulterantName: adulterant.Name,
			Test:           test.Clone(),
			Timestamp:      s.now().UnixMilli(),
		}
		s.items = append([]model.FavoriteItem{item}, s.items...)
	}

	s.persistLocked(ctx)
	return change
}

// IsFavorite reports whether the pair is saved. It is false when either
// argument is nil.
func (s *Store) IsFavorite(food *model.FoodItem, adulterant *model.Adulterant) bool {
	if food == nil || adulterant == nil {
		return false
	}
	return s.Contains(model.FavoriteKey(food.Name, adulterant.Name))
}

// Contains reports whether a favorite with id exists.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// Remove deletes the favorite with id. It reports whether anything was removed.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persistLocked(ctx)
	return true
}

// Clear removes every favorite and the persisted key. It returns how many
// were removed. On a storage error nothing is removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return 0, apperr.Storage("clear favorites", err)
	}
	n := len(s.items)
	s.items = nil
	s.logger.Info("Cleared favorites", zap.Int("count", n))
	return n, nil
}

// Get returns a copy of the favorite with id.
func (s *Store) Get(id string) (model.FavoriteItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.FavoriteItem{}, false
	}
	return cloneItem(s.items[i]), true
}

// List returns copies of all favorites, most recent first.
func (s *Store) List() []model.FavoriteItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.FavoriteItem, len(s.items))
	for i, it := range s.items {
		out[i] = cloneItem(it)
	}
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexLocked(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole collection. The in-memory copy stays
// authoritative when the write fails; the next mutation writes again.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := encode(s.items)
	if err != nil {
		s.logger.Error("Failed to encode favorites", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		s.logger.Warn("Failed to save favorites", zap.Error(err))
		return
	}
	s.logger.Debug("Saved favorites", zap.Int("count", len(s.items)))
}

func encode(items []model.FavoriteItem) (string, error) {
	if items == nil {
		items = []model.FavoriteItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decode(raw string) ([]model.FavoriteItem, error) {
	var items []model.FavoriteItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	// At most one entry per key; the first (most recent) wins.
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if it.ID == "" {
			it.ID = model.FavoriteKey(it.FoodName, it.AdulterantName)
		}
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out, nil
}

func cloneItem(it model.FavoriteItem) model.FavoriteItem {
	it.Test = it.Test.Clone()
	return it
}
