// Package cache provides a Redis-backed cache for single-object iFunny lookups.
//
// Only lookups that address one object (a user, a post, a comment, the channel
// list) are cached. Paged list responses are never stored: cursors are
// server-owned state and a cached page would hand out stale cursors.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Endpoint: "/users/by_nick/someone",
//		Account:  cache.AccountScope(token),
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from iFunny
//	}
//
// # Conditional Requests
//
// When iFunny returns an ETag or Last-Modified header, the client revalidates
// a cached entry with If-None-Match / If-Modified-Since and reuses the stored
// body on 304 Not Modified.
//
// # Expiry and Invalidation
//
// Entries live until the Expires header, or for Cache-Control max-age, or for
// DefaultTTL when the response carries neither. A successful mutation deletes
// the lookups it touches (Manager.Delete) and a revoked token drops its whole
// account scope (Manager.Purge).
//
// # Metrics
//
//   - ifunny_cache_hits_total{layer="redis"}
//   - ifunny_cache_misses_total
//   - ifunny_cache_size_bytes{layer="redis"}
//   - ifunny_304_responses_total
//   - ifunny_conditional_requests_total
//   - ifunny_cache_errors_total{operation}
package cache
