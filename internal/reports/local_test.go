package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"purity/internal/apperr"
	"purity/internal/model"
	"purity/internal/storage"
)

func newKV(t *testing.T) *storage.Store {
	t.Helper()
	kv, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func report(id, food string) model.Report {
	return model.Report{
		ID:               id,
		ReporterName:     model.AnonymousReporter,
		FoodName:         food,
		AdulterantName:   "Water",
		DateOfSubmission: "2026-01-02T03:04:05Z",
		Observation:      "Milk looked thin.",
	}
}

func TestLocalStore_SaveNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(newKV(t), nil)

	_, err := s.Save(ctx, report("a", "Milk"))
	require.NoError(t, err)
	_, err = s.Save(ctx, report("b", "Honey"))
	require.NoError(t, err)

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, ModeLocal, s.Mode())
}

func TestLocalStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)

	_, err := NewLocalStore(kv, nil).Save(ctx, report("a", "Milk"))
	require.NoError(t, err)

	got, err := NewLocalStore(kv, nil).List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].FoodName)
}

func TestLocalStore_AssignsMissingID(t *testing.T) {
	s := NewLocalStore(newKV(t), nil)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	saved, err := s.Save(context.Background(), report("", "Tea"))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", saved.ID)
}

func TestLocalStore_EmptyList(t *testing.T) {
	got, err := NewLocalStore(newKV(t), nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocalStore_CorruptDataReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	require.NoError(t, kv.Set(ctx, StorageKey, "{not json"))

	core, logs := observer.New(zap.WarnLevel)
	s := NewLocalStore(kv, zap.New(core))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, logs.Len())

	_, err = s.Save(ctx, report("a", "Milk"))
	require.NoError(t, err)
	got, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

type failingKV struct{ err, getErr error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f failingKV) Set(context.Context, string, string) error        { return f.err }

func TestLocalStore_SaveFailureReturned(t *testing.T) {
	boom := errors.New("disk full")
	_, err := NewLocalStore(failingKV{err: boom}, nil).Save(context.Background(), report("a", "Milk"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, apperr.IsKind(err, apperr.KindStorageFailed))
	assert.NotContains(t, apperr.UserMessage(err), "disk full")
}

func TestLocalStore_ListFailureHidesDriverText(t *testing.T) {
	locked := errors.New("get \"pmic_reports\": database is locked")
	_, err := NewLocalStore(failingKV{getErr: locked}, nil).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, locked)
	assert.True(t, apperr.IsKind(err, apperr.KindStorageFailed))
	assert.NotContains(t, apperr.UserMessage(err), "database is locked")

	err = NewLocalStore(failingKV{err: locked}, nil).Replace(context.Background(), nil)
	assert.True(t, apperr.IsKind(err, apperr.KindStorageFailed))
}

func TestLocalStore_Replace(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(newKV(t), nil)
	_, err := s.Save(ctx, report("a", "Milk"))
	require.NoError(t, err)

	require.NoError(t, s.Replace(ctx, []model.Report{report("x", "Oil"), report("y", "Tea")}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].ID)
}

func TestNewLocalID_SameMillisecondDiffers(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a, b := NewLocalID(now), NewLocalID(now)

	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^1700000000000-[0-9a-f]{8}$`, a)
	assert.Regexp(t, `^1700000000000-[0-9a-f]{8}$`, b)
}

func TestLocalStore_SameMillisecondSavesKeepBoth(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(newKV(t), nil)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	a, err := s.Save(ctx, report("", "Milk"))
	require.NoError(t, err)
	b, err := s.Save(ctx, report("", "Honey"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
