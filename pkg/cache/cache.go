// Package cache provides caching for layout computation and preview
// rendering. Layouts and rendered previews are content-addressed: their
// keys are derived from the inputs, so a stale entry can never be served
// for changed inputs and long TTLs are safe.
//
// Implementations: FileCache (XDG cache dir, CLI), RedisCache (server
// deployments), and NullCache (caching disabled).
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry class.
const (
	// TTLLayout applies to computed widget layouts. Keys include a hash
	// of the widget specs, so entries only expire to bound disk usage.
	TTLLayout = 7 * 24 * time.Hour

	// TTLPreview applies to rendered preview artifacts (text, SVG, PNG, PDF).
	TTLPreview = 7 * 24 * time.Hour

	// TTLDashboard applies to dashboard documents cached in front of the
	// store. Documents are mutable, so this is short.
	TTLDashboard = 30 * time.Second
)

// Cache is the interface for cache backends.
//
// Get reports a miss with hit == false and a nil error; errors are
// reserved for backend failures. Callers treat cache errors as misses
// and recompute.
type Cache interface {
	// Get retrieves a value. Returns (nil, false, nil) on miss.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
