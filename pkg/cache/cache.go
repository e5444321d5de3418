// Package cache provides response caching for Entrez API requests.
//
// The Cache interface abstracts over storage backends:
//   - FileCache: file-based storage under the XDG cache directory (CLI default)
//   - RedisCache: Redis-backed storage for shared pipelines
//   - NullCache: no-op cache for --no-cache runs and tests
//
// Entries carry a time-to-live; expired entries are treated as misses and
// removed lazily on read.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached data.
const (
	// TTLResponse is the default TTL for raw Entrez HTTP responses.
	// Assembly and BioSample records change rarely; a week keeps repeated
	// runs over the same accession list off the network.
	TTLResponse = 7 * 24 * time.Hour

	// TTLSearch is the TTL for esearch results, which can change as new
	// assemblies are submitted.
	TTLSearch = 24 * time.Hour
)

// Cache is the interface for response cache backends.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns (data, true, nil) on a hit, (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}
