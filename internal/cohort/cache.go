package cohort

import (
	"context"
	"sync"
	"time"

	"github.com/pable/go-ulti-metrics/internal/model"
)

// ComputeFunc recomputes a cohort from the live store.
type ComputeFunc func(ctx context.Context) ([]model.PlayerID, error)

// Cache memoizes cohort ID lists for a fixed time-to-live. Implementations do
// not coordinate concurrent misses: two callers may both compute, and the last
// write wins.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]model.PlayerID, error)
}

// Observer receives cache hit/miss notifications. May be nil.
type Observer interface {
	CacheHit(key string)
	CacheMiss(key string)
}

type memEntry struct {
	ids     []model.PlayerID
	expires time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]memEntry
	now      func() time.Time
	observer Observer
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// WithObserver reports hits and misses to o.
func WithObserver(o Observer) MemoryOption {
	return func(c *MemoryCache) { c.observer = o }
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{entries: make(map[string]memEntry), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]model.PlayerID, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expires) {
		if c.observer != nil {
			c.observer.CacheHit(key)
		}
		return e.ids, nil
	}
	if c.observer != nil {
		c.observer.CacheMiss(key)
	}

	// Computed outside the lock; a concurrent miss may overwrite this entry.
	ids, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = memEntry{ids: ids, expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return ids, nil
}

// Invalidate drops every entry so the next call recomputes.
func (c *MemoryCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]memEntry)
	c.mu.Unlock()
}
