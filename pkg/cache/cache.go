// Package cache stores fetched manifest documents so repeated viewer sessions
// do not download them again.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entry files under a directory, for CLI use
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are produced by a [Keyer] so that every backend uses the same layout
// and deployments can scope keys with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// TTLManifest is how long a fetched manifest stays fresh.
const TTLManifest = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ManifestKey returns the key for the manifest fetched from source.
	ManifestKey(source string) string
}

// DefaultKeyer is the unscoped key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ManifestKey hashes source so arbitrary URLs are safe as keys.
func (DefaultKeyer) ManifestKey(source string) string {
	return hashKey("manifest", source)
}
