// Package cache provides the hot-cache accelerator used by the bundle
// engine and deal cache. It is never authoritative: the durable store in
// internal/store is the system of record, and every Cache method failure
// degrades silently rather than propagating to the caller.
package cache

import (
	"context"
	"time"
)

// Cache is the hot-cache contract. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the raw bytes stored under key, or (nil, false) on miss
	// or error. Callers never distinguish a miss from a degraded backend.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key with the given TTL. Errors are swallowed
	// by the caller; Set itself returns one only for logging purposes.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key, if present.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys matching a glob-style pattern (used by
	// bundles_for_user's `bundles:{user_id}:*` lookup).
	Keys(ctx context.Context, pattern string) ([]string, error)
}
