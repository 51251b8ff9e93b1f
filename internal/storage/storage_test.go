package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "purity.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_CreatesDatabaseAndParents(t *testing.T) {
	_, path := openTemp(t)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestGetSet_RoundTrip(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "pmic_favorites")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "pmic_favorites", "[]"))
	require.NoError(t, s.Set(ctx, "pmic_favorites", `[{"id":"milk_water"}]`))

	v, ok, err := s.Get(ctx, "pmic_favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"milk_water"}]`, v)
}

func TestDelete(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "missing"))

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purity.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", "v"))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	var index string
	require.NoError(t, s2.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'kv' AND name = 'idx_kv_updated_at'`,
	).Scan(&index))
	assert.Equal(t, "idx_kv_updated_at", index)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", "v"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
