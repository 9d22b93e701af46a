package di

import (
	"github.com/redis/go-redis/v9"

	"enterprise_backend/internal/feature/symbols/adapters/nasdaq"
	"enterprise_backend/internal/platform/cache"
	infrahttp "enterprise_backend/internal/platform/http"
)

// NewSymbolSource creates the Nasdaq directory source wrapped in the Redis cache.
// With a nil client the cache is bypassed.
func NewSymbolSource(rdb *redis.Client) *cache.CachingSymbolSource {
	cfg := nasdaq.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return cache.NewCachingSymbolSource(rdb, nasdaq.NewSource(cfg, httpClient), cache.DefaultSymbolsKey)
}
