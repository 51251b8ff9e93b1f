package favorites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"purity/internal/apperr"
	"purity/internal/catalog"
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

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func milkWater(t *testing.T) (*model.FoodItem, *model.Adulterant, *model.TestProcedure) {
	t.Helper()
	milk, ok := catalog.Default().Food("milk")
	require.True(t, ok)
	water := milk.Adulterants[0]
	return &milk, &water, water.Test
}

// memKV is an in-memory Storage that can be told to fail.
type memKV struct {
	data    map[string]string
	failGet error
	failSet error
	failDel error
	sets    int
}

func (m *memKV) Delete(_ context.Context, key string) error {
	if m.failDel != nil {
		return m.failDel
	}
	delete(m.data, key)
	return nil
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.sets++
	if m.failSet != nil {
		return m.failSet
	}
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	return nil
}

func TestToggle_AddsMilkWaterKey(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, newKV(t), nil, WithClock(fixedClock(1700000000000)))
	food, adulterant, test := milkWater(t)

	assert.Equal(t, Added, s.Toggle(ctx, food, adulterant, test))

	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, "milk_water", items[0].ID)
	assert.Equal(t, "Milk", items[0].FoodName)
	assert.Equal(t, "Water", items[0].AdulterantName)
	assert.Equal(t, int64(1700000000000), items[0].Timestamp)
	assert.True(t, s.IsFavorite(food, adulterant))
}

func TestToggle_TwiceIsIdentity(t *testing.T) {
	ctx := context.Background()
	kv := &memKV{}
	s := Load(ctx, kv, nil)
	food, adulterant, test := milkWater(t)

	other := &model.FoodItem{Name: "Honey"}
	sugar := &model.Adulterant{Name: "Sugar Solution"}
	s.Toggle(ctx, other, sugar, test)
	before := s.List()
	persistedBefore := kv.data[StorageKey]

	assert.Equal(t, Added, s.Toggle(ctx, food, adulterant, test))
	assert.Equal(t, Removed, s.Toggle(ctx, food, adulterant, test))

	assert.Empty(t, cmp.Diff(before, s.List()))
	assert.Equal(t, persistedBefore, kv.data[StorageKey])
}

func TestToggle_KeyIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, newKV(t), nil)
	_, _, test := milkWater(t)

	upper := &model.FoodItem{Name: "Milk"}
	upperAdj := &model.Adulterant{Name: "Water"}
	lower := &model.FoodItem{Name: "milk"}
	lowerAdj := &model.Adulterant{Name: "water"}

	require.Equal(t, Added, s.Toggle(ctx, upper, upperAdj, test))
	assert.True(t, s.IsFavorite(lower, lowerAdj))
	assert.Equal(t, Removed, s.Toggle(ctx, lower, lowerAdj, test))
	assert.Equal(t, 0, s.Len())
}

func TestToggle_NilArgumentsAreNoOps(t *testing.T) {
	ctx := context.Background()
	kv := &memKV{}
	s := Load(ctx, kv, nil)
	food, adulterant, test := milkWater(t)

	assert.Equal(t, Unchanged, s.Toggle(ctx, food, adulterant, nil))
	assert.Equal(t, Unchanged, s.Toggle(ctx, nil, adulterant, test))
	assert.Equal(t, Unchanged, s.Toggle(ctx, food, nil, test))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, kv.sets, "no-op toggles must not write")

	// A nil test does not remove an existing favorite either.
	s.Toggle(ctx, food, adulterant, test)
	assert.Equal(t, Unchanged, s.Toggle(ctx, food, adulterant, nil))
	assert.True(t, s.IsFavorite(food, adulterant))
}

func TestIsFavorite_NilIsFalse(t *testing.T) {
	s := Load(context.Background(), &memKV{}, nil)
	food, adulterant, _ := milkWater(t)

	assert.False(t, s.IsFavorite(nil, adulterant))
	assert.False(t, s.IsFavorite(food, nil))
	assert.False(t, s.IsFavorite(nil, nil))
}

func TestToggle_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, &memKV{}, nil)
	_, _, test := milkWater(t)

	for _, name := range []string{"Milk", "Honey", "Sugar"} {
		s.Toggle(ctx, &model.FoodItem{Name: name}, &model.Adulterant{Name: "X"}, test)
	}

	var ids []string
	for _, it := range s.List() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"sugar_x", "honey_x", "milk_x"}, ids)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, &memKV{}, nil)
	food, adulterant, test := milkWater(t)
	s.Toggle(ctx, food, adulterant, test)

	assert.False(t, s.Remove(ctx, "nope"))
	assert.True(t, s.Remove(ctx, "milk_water"))
	assert.False(t, s.Contains("milk_water"))
	assert.False(t, s.Remove(ctx, "milk_water"))
}

func TestLoad_RoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	food, adulterant, test := milkWater(t)

	first := Load(ctx, kv, nil, WithClock(fixedClock(42)))
	first.Toggle(ctx, food, adulterant, test)

	second := Load(ctx, kv, nil)
	assert.Empty(t, cmp.Diff(first.List(), second.List()))
}

func TestSnapshot_IndependentOfCatalogEdits(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	food, adulterant, test := milkWater(t)
	want := test.Clone()

	s := Load(ctx, kv, nil)
	s.Toggle(ctx, food, adulterant, test)

	// Mutate the source procedure after saving.
	test.Aim = "edited"
	test.Procedure[0] = "edited"

	got, ok := Load(ctx, kv, nil).Get("milk_water")
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(want, got.Test))

	inMemory, _ := s.Get("milk_water")
	assert.Empty(t, cmp.Diff(want, inMemory.Test))
}

func TestLoad_CorruptDataYieldsEmptyStore(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	kv := &memKV{data: map[string]string{StorageKey: "{not json"}}

	s := Load(context.Background(), kv, zap.New(core))

	assert.Equal(t, 0, s.Len())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "Failed to parse favorites")
}

func TestLoad_ReadErrorYieldsEmptyStore(t *testing.T) {
	kv := &memKV{failGet: errors.New("disk gone")}

	s := Load(context.Background(), kv, nil)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_DeduplicatesKeys(t *testing.T) {
	raw := `[{"id":"milk_water","foodName":"Milk","adulterantName":"Water","test":{"aim":"new"},"timestamp":2},
	         {"id":"milk_water","foodName":"Milk","adulterantName":"Water","test":{"aim":"old"},"timestamp":1},
	         {"foodName":"Honey","adulterantName":"Sugar","test":{"aim":"h"},"timestamp":0}]`
	s := Load(context.Background(), &memKV{data: map[string]string{StorageKey: raw}}, nil)

	items := s.List()
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].Test.Aim)
	assert.Equal(t, "honey_sugar", items[1].ID)
}

func TestToggle_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := &memKV{failSet: errors.New("read-only")}
	s := Load(ctx, kv, nil)
	food, adulterant, test := milkWater(t)

	assert.Equal(t, Added, s.Toggle(ctx, food, adulterant, test))
	assert.True(t, s.IsFavorite(food, adulterant))
}

func TestList_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, &memKV{}, nil)
	food, adulterant, test := milkWater(t)
	s.Toggle(ctx, food, adulterant, test)

	items := s.List()
	items[0].Test.Procedure[0] = "edited"

	again, _ := s.Get("milk_water")
	assert.NotEqual(t, "edited", again.Test.Procedure[0])
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := &memKV{}
	s := Load(ctx, kv, nil)
	milk, water, test := milkWater(t)
	s.Toggle(ctx, milk, water, test)
	require.Contains(t, kv.data, StorageKey)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, s.Len())
	assert.NotContains(t, kv.data, StorageKey)

	assert.Zero(t, Load(ctx, kv, nil).Len())
}

func TestClear_StorageErrorKeepsItems(t *testing.T) {
	ctx := context.Background()
	kv := &memKV{}
	s := Load(ctx, kv, nil)
	milk, water, test := milkWater(t)
	s.Toggle(ctx, milk, water, test)

	kv.failDel = errors.New("disk full")
	_, err := s.Clear(ctx)
	assert.True(t, apperr.IsKind(err, apperr.KindStorageFailed))
	assert.Equal(t, 1, s.Len())
}
