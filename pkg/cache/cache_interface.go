package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer.
// Implementations: Redis (production), in-memory no-op (tests).
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns (found, error); on a miss dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with an explicit TTL. The TTL is a parameter,
	// not a hidden policy of the implementation.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
