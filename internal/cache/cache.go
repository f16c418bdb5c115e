// Package cache stores provider responses between runs.
//
// Only raw bytes fetched from external services (artwork images, search
// responses) are cached. Nothing the arrangement pipeline derives from
// them is ever stored.
//
//	c, err := cache.NewFileCache(dir)
//	data, hit, err := c.Get(ctx, cache.Key("caa", mbid))
//	if !hit {
//	    data = fetch()
//	    _ = c.Set(ctx, cache.Key("caa", mbid), data, 30*24*time.Hour)
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
