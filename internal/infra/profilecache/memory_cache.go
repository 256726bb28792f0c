package profilecache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/bazi/internal/domain/bazi"
	"github.com/yanqian/bazi/pkg/util"
)

type cachedProfile struct {
	payload   bazi.Profile
	expiresAt time.Time
}

// MemoryCache is an in-process profile cache for tests/dev.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]cachedProfile
	now   func() time.Time
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]cachedProfile),
		now:   util.NowUTC,
	}
}

// Get implements bazi.ProfileCache.
func (c *MemoryCache) Get(_ context.Context, key string) (bazi.Profile, bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return bazi.Profile{}, false, nil
	}
	if !item.expiresAt.IsZero() && item.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return bazi.Profile{}, false, nil
	}
	return item.payload.Clone(), true, nil
}

// Set stores the profile; a non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, profile bazi.Profile, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = cachedProfile{payload: profile.Clone(), expiresAt: exp}
	c.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

var _ bazi.ProfileCache = (*MemoryCache)(nil)
