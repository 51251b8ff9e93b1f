package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"purity/internal/apperr"
	"purity/internal/model"
)

// StorageKey is the namespaced key local reports are persisted under.
const StorageKey = "pmic_reports"

// Storage is the device-local persistence collaborator.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// NewLocalID derives a client-side report id from t: epoch milliseconds,
// a dash and eight random hex digits, so ids still sort by submission time
// but two submissions in the same millisecond do not collide.
func NewLocalID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// LocalStore keeps reports on the device, most recent first, unbounded.
type LocalStore struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.Logger
	now     func() time.Time
}

// NewLocalStore returns a LocalStore over storage.
func NewLocalStore(storage Storage, logger *zap.Logger) *LocalStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalStore{storage: storage, logger: logger, now: time.Now}
}

// Mode implements Store.
func (s *LocalStore) Mode() Mode { return ModeLocal }

// Save prepends r and writes the whole list back.
func (s *LocalStore) Save(ctx context.Context, r model.Report) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = NewLocalID(s.now())
	}

	existing, err := s.readLocked(ctx)
	if err != nil {
		return model.Report{}, apperr.Storage("save report", err)
	}

	next := make([]model.Report, 0, len(existing)+1)
	next = append(next, r)
	next = append(next, existing...)

	if err := s.writeLocked(ctx, next); err != nil {
		return model.Report{}, apperr.Storage("save report", err)
	}
	s.logger.Debug("Saved report locally", zap.String("id", r.ID), zap.Int("count", len(next)))
	return r, nil
}

// List returns all local reports, most recent first.
func (s *LocalStore) List(ctx context.Context) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.readLocked(ctx)
	if err != nil {
		return nil, apperr.Storage("list reports", err)
	}
	return reports, nil
}

// Replace overwrites the local list with reports. FallbackStore uses it to
// refresh the cache from the remote store.
func (s *LocalStore) Replace(ctx context.Context, reports []model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeLocked(ctx, reports); err != nil {
		return apperr.Storage("replace reports", err)
	}
	return nil
}

// readLocked loads the list. Corrupt data is logged and read as empty so a
// bad cache never blocks submitting new reports.
func (s *LocalStore) readLocked(ctx context.Context) ([]model.Report, error) {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []model.Report{}, nil
	}

	var reports []model.Report
	if err := json.Unmarshal([]byte(raw), &reports); err != nil {
		s.logger.Warn("Failed to parse local reports, treating as empty",
			zap.Error(apperr.PersistCorrupt(StorageKey, err)))
		return []model.Report{}, nil
	}
	if reports == nil {
		reports = []model.Report{}
	}
	return reports, nil
}

func (s *LocalStore) writeLocked(ctx context.Context, reports []model.Report) error {
	if reports == nil {
		reports = []model.Report{}
	}
	data, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	return s.storage.Set(ctx, StorageKey, string(data))
}
