// Package cache stores computed layouts, level reports and rendered artifacts
// as opaque blobs keyed by content hash.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] for the
// HTTP server and [NullCache] when caching is disabled. Keys are produced by a
// [Keyer] so that different deployments can namespace them (see [ScopedKeyer]).
package cache

import (
	"context"
	"time"
)

// Default lifetimes per entry kind. Layouts are deterministic for a given
// graph and option set, so they live longest.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLLevels   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
