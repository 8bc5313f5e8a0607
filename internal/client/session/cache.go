// AngelaMos | 2026
// cache.go

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const stateKey = "current"

type Cache struct {
	mu    sync.RWMutex
	store Store
	state State
	now   func() time.Time
}

type Option func(*Cache)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func NewCache(store Store, opts ...Option) *Cache {
	c := &Cache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load rehydrates the cache from the store. A persisted proof that has
// already expired is wiped instead of restored.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.store.Get(ctx, stateKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	c.state = State{}
	if raw == nil {
		return nil
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return c.resetLocked(ctx)
	}

	if !st.Authenticated(c.now()) {
		return c.resetLocked(ctx)
	}

	c.state = st
	return nil
}

// Save records a freshly issued proof and the profile it was issued for.
func (c *Cache) Save(ctx context.Context, token string, expiresAt time.Time, user Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(ctx, State{Token: token, ExpiresAt: expiresAt, User: &user})
}

// Refresh replaces the cached profile while keeping the current proof. It
// is a no-op when nobody is logged in.
func (c *Cache) Refresh(ctx context.Context, user Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Token == "" {
		return nil
	}
	return c.saveLocked(ctx, State{Token: c.state.Token, ExpiresAt: c.state.ExpiresAt, User: &user})
}

func (c *Cache) saveLocked(ctx context.Context, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.store.Set(ctx, stateKey, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.state = st
	return nil
}

func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked(ctx)
}

func (c *Cache) resetLocked(ctx context.Context) error {
	c.state = State{}
	if err := c.store.Delete(ctx, stateKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token returns the cached proof, or "" when it is missing or expired.
func (c *Cache) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.state.Authenticated(c.now()) {
		return ""
	}
	return c.state.Token
}

func (c *Cache) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := c.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (c *Cache) Flags() Flags {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	return Flags{
		IsAuthenticated: c.state.Authenticated(now),
		IsAdmin:         c.state.IsAdmin(now),
	}
}

func (c *Cache) IsAuthenticated() bool {
	return c.Flags().IsAuthenticated
}

func (c *Cache) IsAdmin() bool {
	return c.Flags().IsAdmin
}
