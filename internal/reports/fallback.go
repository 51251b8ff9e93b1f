package reports

import (
	"context"

	"go.uber.org/zap"

	"purity/internal/apperr"
	"purity/internal/model"
)

// FallbackStore writes to a remote store and mirrors what it sees into a
// local cache. When the remote is unreachable, List serves the cache; when
// the remote was never provisioned the error is returned as is.
type FallbackStore struct {
	remote Store
	local  *LocalStore
	logger *zap.Logger
}

// NewFallbackStore combines remote and local.
func NewFallbackStore(remote Store, local *LocalStore, logger *zap.Logger) *FallbackStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackStore{remote: remote, local: local, logger: logger}
}

// Mode implements Store.
func (s *FallbackStore) Mode() Mode { return ModeRemote }

// Save stores r remotely. Failures are returned so the caller can offer a
// retry; nothing is written locally unless the remote write succeeded.
func (s *FallbackStore) Save(ctx context.Context, r model.Report) (model.Report, error) {
	saved, err := s.remote.Save(ctx, r)
	if err != nil {
		return model.Report{}, err
	}
	if _, err := s.local.Save(ctx, saved); err != nil {
		s.logger.Warn("Failed to cache saved report", zap.String("id", saved.ID), zap.Error(err))
	}
	return saved, nil
}

// List returns remote reports, or the cached ones when the remote cannot be
// reached.
func (s *FallbackStore) List(ctx context.Context) ([]model.Report, error) {
	reports, err := s.remote.List(ctx)
	if err == nil {
		if cacheErr := s.local.Replace(ctx, reports); cacheErr != nil {
			s.logger.Warn("Failed to refresh report cache", zap.Error(cacheErr))
		}
		return reports, nil
	}

	if apperr.IsKind(err, apperr.KindStoreUnprovisioned) {
		return nil, err
	}

	s.logger.Warn("Remote report store unreachable, serving local cache", zap.Error(err))
	return s.local.List(ctx)
}
