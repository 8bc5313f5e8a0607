// AngelaMos | 2026
// cache_test.go

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	adminSummary = Summary{UserID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com", AccessLevel: 10}
	userSummary  = Summary{UserID: "u2", FullName: "Alan Turing", Email: "alan@example.com", AccessLevel: 30}
)

func TestStore_GetMissingReturnsNil(t *testing.T) {
	store := openStore(t)

	v, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStore_SetUpserts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("old")))
	require.NoError(t, store.Set(ctx, "k", []byte("new")))

	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestCache_SaveSurvivesReload(t *testing.T) {
	store := openStore(t)
	clk := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	first := NewCache(store, WithClock(clk.Now))
	require.NoError(t, first.Save(ctx, "tok", clk.Now().Add(time.Hour), adminSummary))
	assert.True(t, first.IsAdmin())

	second := NewCache(store, WithClock(clk.Now))
	require.NoError(t, second.Load(ctx))

	assert.Equal(t, Flags{IsAuthenticated: true, IsAdmin: true}, second.Flags())
	assert.Equal(t, "tok", second.Token())
	assert.Equal(t, "ada@example.com", second.Snapshot().User.Email)
}

func TestCache_LoadClearsExpiredProof(t *testing.T) {
	store := openStore(t)
	clk := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	require.NoError(t, NewCache(store, WithClock(clk.Now)).
		Save(ctx, "tok", clk.Now().Add(time.Minute), userSummary))

	clk.Advance(2 * time.Minute)

	c := NewCache(store, WithClock(clk.Now))
	require.NoError(t, c.Load(ctx))
	assert.False(t, c.IsAuthenticated())
	assert.Empty(t, c.Token())

	raw, err := store.Get(ctx, stateKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestCache_ExpiryObservedWithoutReload(t *testing.T) {
	clk := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache(openStore(t), WithClock(clk.Now))

	require.NoError(t, c.Save(context.Background(), "tok", clk.Now().Add(time.Minute), adminSummary))
	clk.Advance(time.Hour)

	assert.Equal(t, Flags{}, c.Flags())
	assert.Empty(t, c.Token())
}

func TestCache_ClearAndRefresh(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	c := NewCache(store)

	require.NoError(t, c.Refresh(ctx, adminSummary))
	assert.False(t, c.IsAuthenticated())

	require.NoError(t, c.Save(ctx, "tok", time.Now().Add(time.Hour), userSummary))
	assert.False(t, c.IsAdmin())

	promoted := userSummary
	promoted.AccessLevel = 10
	require.NoError(t, c.Refresh(ctx, promoted))
	assert.True(t, c.IsAdmin())
	assert.Equal(t, "tok", c.Token())

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, Flags{}, c.Flags())

	reloaded := NewCache(store)
	require.NoError(t, reloaded.Load(ctx))
	assert.False(t, reloaded.IsAuthenticated())
}

func TestCache_LoadDiscardsCorruptState(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, stateKey, []byte("{not json")))

	c := NewCache(store)
	require.NoError(t, c.Load(ctx))
	assert.False(t, c.IsAuthenticated())
}
