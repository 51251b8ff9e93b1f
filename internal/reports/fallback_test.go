package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"purity/internal/apperr"
	"purity/internal/model"
)

// fakeRemote is a Store whose results are set by the test.
type fakeRemote struct {
	saveErr error
	listErr error
	listed  []model.Report
	saved   []model.Report
}

func (f *fakeRemote) Mode() Mode { return ModeRemote }

func (f *fakeRemote) Save(_ context.Context, r model.Report) (model.Report, error) {
	if f.saveErr != nil {
		return model.Report{}, f.saveErr
	}
	r.ID = "remote-" + r.ID
	f.saved = append(f.saved, r)
	return r, nil
}

func (f *fakeRemote) List(context.Context) ([]model.Report, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func TestFallbackStore_SaveMirrorsToCache(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	local := NewLocalStore(newKV(t), nil)
	s := NewFallbackStore(remote, local, nil)

	saved, err := s.Save(ctx, report("a", "Milk"))
	require.NoError(t, err)
	assert.Equal(t, "remote-a", saved.ID)

	cached, err := local.List(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "remote-a", cached[0].ID)
}

func TestFallbackStore_SaveFailureNotCached(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{saveErr: apperr.Unreachable(errors.New("timeout"))}
	local := NewLocalStore(newKV(t), nil)
	s := NewFallbackStore(remote, local, nil)

	_, err := s.Save(ctx, report("a", "Milk"))
	assert.True(t, apperr.IsKind(err, apperr.KindStoreUnreachable))

	cached, err := local.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestFallbackStore_ListRefreshesCache(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{listed: []model.Report{report("r1", "Tea")}}
	local := NewLocalStore(newKV(t), nil)
	s := NewFallbackStore(remote, local, nil)

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	cached, err := local.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, cached)
}

func TestFallbackStore_ListServesCacheWhenUnreachable(t *testing.T) {
	ctx := context.Background()
	local := NewLocalStore(newKV(t), nil)
	_, err := local.Save(ctx, report("c1", "Oil"))
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	remote := &fakeRemote{listErr: apperr.Unreachable(errors.New("refused"))}
	s := NewFallbackStore(remote, local, zap.New(core))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, 1, logs.Len())
}

func TestFallbackStore_ListUnprovisionedSurfaces(t *testing.T) {
	remote := &fakeRemote{listErr: apperr.Unprovisioned(errors.New("42P01"))}
	s := NewFallbackStore(remote, NewLocalStore(newKV(t), nil), nil)

	_, err := s.List(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindStoreUnprovisioned))
	assert.Contains(t, apperr.UserMessage(err), "Database Setup Required")
}
