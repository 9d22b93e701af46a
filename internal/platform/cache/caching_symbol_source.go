// Package cache provides caching implementations for adapter interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"enterprise_backend/internal/feature/symbols/usecase"
)

// DefaultSymbolsKey is the Redis key holding the cached symbol list.
const DefaultSymbolsKey = "symbols:nasdaq"

// CachingSymbolSource decorates a SymbolSource with Redis caching.
// Cached lists expire at the next directory refresh (08:00 New York time).
type CachingSymbolSource struct {
	inner usecase.SymbolSource
	rdb   *redis.Client
	key   string
	ttl   func() time.Duration
}

var _ usecase.SymbolSource = (*CachingSymbolSource)(nil)

// NewCachingSymbolSource decorates inner with Redis caching.
// If key is empty, it uses DefaultSymbolsKey.
func NewCachingSymbolSource(rdb *redis.Client, inner usecase.SymbolSource, key string) *CachingSymbolSource {
	if key == "" {
		key = DefaultSymbolsKey
	}
	return &CachingSymbolSource{
		inner: inner,
		rdb:   rdb,
		key:   key,
		ttl:   TimeUntilNext8AM,
	}
}

// Fetch returns the cached list, falling back to the inner source.
func (c *CachingSymbolSource) Fetch(ctx context.Context) ([]string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Fetch(ctx)
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, c.key).Bytes(); err == nil && len(b) > 0 {
		var out []string
		if err := json.Unmarshal(b, &out); err == nil && len(out) > 0 {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, c.key).Err()
	}

	// 2) Fallback to the directory download
	return c.Refresh(ctx)
}

// Refresh downloads the list from the inner source and overwrites the cache.
func (c *CachingSymbolSource) Refresh(ctx context.Context) ([]string, error) {
	out, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if c.rdb == nil || len(out) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, c.key, b, c.ttl()).Err()
	}
	return out, nil
}
