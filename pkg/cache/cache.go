// Package cache stores rendered export artifacts keyed by scene content.
//
// Exports are pure functions of the committed scene and the export options,
// so a hash of the scene snapshot plus the options identifies an artifact.
// The CLI uses a [FileCache] under the user cache directory, the server uses
// a [MemoryCache], and tests use a [NullCache].
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by [Lookup] when a key is not present.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Lookup is like Cache.Get but reports a miss as ErrCacheMiss.
func Lookup(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrCacheMiss
	}
	return data, nil
}

// NullCache stores nothing. It backs --no-cache exports and servers with
// caching turned off.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
