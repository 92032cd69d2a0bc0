// Package cache stores opaque byte values under string keys with a TTL.
//
// trazo caches two things: agent interpretations, keyed by model and
// prompt, and rendered PNGs, keyed by input and canvas. Four backends share
// the [Cache] interface:
//
//   - [FileCache] for the CLI, one JSON file per entry
//   - [RedisCache] for servers sharing a cache
//   - [MemoryCache] for a single server process
//   - [NullCache] to disable caching
//
// Keys are built by a [Keyer] so callers never hand-assemble them:
//
//	k := cache.NewDefaultKeyer()
//	key := k.AgentKey("gpt-4o-mini", prompt)
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiration.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// itself failed. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per cached value kind.
const (
	TTLInterpretation = 24 * time.Hour
	TTLRender         = time.Hour
)
