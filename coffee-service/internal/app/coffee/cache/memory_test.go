package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestMemoryStore(t *testing.T, absolute, sliding time.Duration) (*MemoryStore, *fakeClock) {
	t.Helper()

	store, err := NewMemoryStore(MemoryConfig{
		MaxCost:       1 << 20,
		DefaultExpiry: absolute,
		SlidingExpiry: sliding,
	})
	require.NoError(t, err)
	t.Cleanup(store.Close)

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	return store, clock
}

func TestNewMemoryStore_InvalidConfig(t *testing.T) {
	_, err := NewMemoryStore(MemoryConfig{MaxCost: 0, DefaultExpiry: time.Minute})
	assert.Error(t, err)

	_, err = NewMemoryStore(MemoryConfig{MaxCost: 1024, DefaultExpiry: 0})
	assert.Error(t, err)
}

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestMemoryStore(t, 30*time.Minute, 5*time.Minute)

	store.Set(ctx, "coffee:1", []byte(`{"name":"Espresso"}`), 0)

	data, ok := store.Get(ctx, "coffee:1")
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Espresso"}`, string(data))

	_, ok = store.Get(ctx, "coffee:2")
	assert.False(t, ok)
}

func TestMemoryStore_OverwriteReplacesValue(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestMemoryStore(t, 30*time.Minute, 5*time.Minute)

	store.Set(ctx, "k", []byte("1"), 0)
	store.Set(ctx, "k", []byte("2"), 0)

	data, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "2", string(data))
}

func TestMemoryStore_ExplicitTTLExpires(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestMemoryStore(t, 30*time.Minute, 0)

	store.Set(ctx, "coffees:list", []byte("[]"), 5*time.Minute)

	clock.Advance(4 * time.Minute)
	_, ok := store.Get(ctx, "coffees:list")
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = store.Get(ctx, "coffees:list")
	assert.False(t, ok)
}

func TestMemoryStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestMemoryStore(t, 30*time.Minute, 5*time.Minute)

	store.Set(ctx, "k", []byte("v"), 0)

	// каждое обращение продлевает окно
	clock.Advance(4 * time.Minute)
	_, ok := store.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(4 * time.Minute)
	_, ok = store.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(6 * time.Minute)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStore_AbsoluteExpiryWinsOverSliding(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestMemoryStore(t, 10*time.Minute, 5*time.Minute)

	store.Set(ctx, "k", []byte("v"), 0)

	for i := 0; i < 2; i++ {
		clock.Advance(4 * time.Minute)
		_, ok := store.Get(ctx, "k")
		require.True(t, ok)
	}

	clock.Advance(4 * time.Minute)
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStore_Ratio(t *testing.T) {
	// Arrange
	store, _ := newTestMemoryStore(t, time.Hour, 0)
	ctx := context.Background()
	store.Set(ctx, "coffee:1", []byte("espresso"), 0)

	// Act
	_, hit := store.Get(ctx, "coffee:1")
	_, miss := store.Get(ctx, "coffee:2")

	// Assert
	require.True(t, hit)
	require.False(t, miss)
	assert.InDelta(t, 0.5, store.Ratio(), 0.001)
}

func TestMemoryStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestMemoryStore(t, 30*time.Minute, 5*time.Minute)

	store.Set(ctx, "a", []byte("1"), 0)
	store.Set(ctx, "b", []byte("2"), 0)

	store.Remove(ctx, "a")
	_, ok := store.Get(ctx, "a")
	assert.False(t, ok)

	// удаление отсутствующего ключа не ошибка
	store.Remove(ctx, "missing")

	store.Clear(ctx)
	_, ok = store.Get(ctx, "b")
	assert.False(t, ok)
}

func TestTypedGetSet_RoundTripAndCopy(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestMemoryStore(t, 30*time.Minute, 5*time.Minute)

	type item struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}

	original := item{Name: "Latte", Tags: []string{"milk"}}
	Set(ctx, store, "item", original, time.Minute)

	original.Tags[0] = "changed"

	got, ok := Get[item](ctx, store, "item")
	require.True(t, ok)
	assert.Equal(t, "Latte", got.Name)
	assert.Equal(t, []string{"milk"}, got.Tags)
}

func TestTypedGet_CorruptEntryIsMissAndRemoved(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestMemoryStore(t, 30*time.Minute, 5*time.Minute)

	store.Set(ctx, "broken", []byte("{not json"), 0)

	_, ok := Get[map[string]string](ctx, store, "broken")
	assert.False(t, ok)

	_, ok = store.Get(ctx, "broken")
	assert.False(t, ok)
}
