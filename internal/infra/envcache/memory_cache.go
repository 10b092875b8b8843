package envcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

type cachedConditions struct {
	payload   environment.LiveConditions
	expiresAt time.Time
}

// MemoryCache keeps live readings in process memory for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedConditions
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cachedConditions),
		now:     time.Now,
	}
}

// Get implements environment.LiveCache.
func (c *MemoryCache) Get(_ context.Context, key string) (environment.LiveConditions, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return environment.LiveConditions{}, false, nil
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return environment.LiveConditions{}, false, nil
	}
	return entry.payload, true, nil
}

// Set stores conditions with an optional TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value environment.LiveConditions, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = cachedConditions{payload: value, expiresAt: exp}
	return nil
}

var _ environment.LiveCache = (*MemoryCache)(nil)
