// Package cache stores computed rankings keyed by a hash of their inputs.
//
// Four backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI (~/.cache/linkrank)
//   - [MemoryCache]: a bounded in-process LRU, used by watch mode and the server
//   - [RedisCache]: a shared Redis instance for multiple servers
//   - [NullCache]: caching disabled
//
// Keys are produced with [HashKey] so they never contain user input verbatim.
// [Scoped] prefixes every key to keep different result kinds apart.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of 0 stores the entry without expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Scoped wraps a Cache and prefixes every key.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped returns a Cache that stores entries in inner under prefix.
// A nil inner cache is replaced with a [NullCache].
func NewScoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves prefix+key from the inner cache.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores prefix+key in the inner cache.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes prefix+key from the inner cache.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner cache.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)
