// Package cache provides pluggable caching for upstream controller
// responses.
//
// Three backends implement the [Cache] interface: a file cache for CLI
// usage, a Redis cache for server deployments, and a null cache that
// disables caching entirely. Keys are hashed with SHA-256 before hitting a
// backend, so callers can use raw URLs as keys without worrying about
// filesystem or protocol restrictions.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys with a TTL.
//
// Implementations must treat a missing or expired entry as a miss, not an
// error - the second return value of Get reports presence. A TTL of 0 means
// the entry never expires.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
