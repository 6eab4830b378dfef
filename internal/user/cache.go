package user

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dropa-gg/dropa/internal/domain"
)

// CacheConfig sizes the identity cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: DefaultCacheSize, TTL: DefaultCacheTTL}
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// cachedUserEntry wraps a user with version metadata for cache invalidation
type cachedUserEntry struct {
	Version  string
	User     domain.User
	CachedAt time.Time
}

// userCache keeps recently resolved identities. Only the role and username
// are read from it; balances always come from the database.
type userCache struct {
	lru    *expirable.LRU[uuid.UUID, *cachedUserEntry]
	hits   atomic.Int64
	misses atomic.Int64
}

func newUserCache(cfg CacheConfig) *userCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	return &userCache{
		lru: expirable.NewLRU[uuid.UUID, *cachedUserEntry](cfg.Size, nil, cfg.TTL),
	}
}

// Get returns a copy of the cached user.
// Automatically invalidates entries with mismatched versions.
func (c *userCache) Get(id uuid.UUID) (*domain.User, bool) {
	entry, found := c.lru.Get(id)
	if !found || entry.Version != CacheSchemaVersion {
		if found {
			c.lru.Remove(id)
		}
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	u := entry.User
	return &u, true
}

func (c *userCache) Set(user *domain.User) {
	c.lru.Add(user.ID, &cachedUserEntry{
		Version:  CacheSchemaVersion,
		User:     *user,
		CachedAt: time.Now(),
	})
}

func (c *userCache) Invalidate(id uuid.UUID) {
	c.lru.Remove(id)
}

func (c *userCache) GetStats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
