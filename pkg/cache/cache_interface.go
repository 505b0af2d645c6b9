package cache

import (
	"context"
	"time"
)

// Cache is the contract for the result-cache layer.
// Keeping it an interface allows swapping the implementation
// (Redis in production, in-memory fakes in tests).
type Cache interface {
	// Get loads the value stored under key and unmarshals it into dest.
	// Returns (true, nil) on a hit; on a miss dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (e.g. "analysis:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
