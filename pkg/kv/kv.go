package kv

import (
	"context"
	"time"
)

// Store is a string key-value store with optional per-key expiry.
//
// TTL semantics for Set:
//   - Positive duration: the key expires after this duration
//   - Zero or negative: the key persists until overwritten or deleted
type Store interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Pinger is implemented by backends that can verify connectivity.
// Used by readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a closure compatible with health.CheckFunc.
// Backends that do not implement Pinger are always reported healthy.
func Healthcheck(s Store) func(context.Context) error {
	return func(ctx context.Context) error {
		if s == nil {
			return ErrNotConfigured
		}
		p, ok := s.(Pinger)
		if !ok {
			return nil
		}
		return p.Ping(ctx)
	}
}

// expiresAt converts a TTL into an absolute expiry. Zero time means never.
func expiresAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
