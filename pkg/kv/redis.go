package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	redisconn "github.com/dmitrymomot/mailwarm/pkg/redis"
)

// Redis is a store backed by a Redis server.
// Values are stored as plain strings so other tools can read them with GET.
type Redis struct {
	client redis.UniversalClient
	owned  bool
}

// NewRedis wraps an existing client. The client is not closed by Close;
// its lifecycle belongs to the caller (see pkg/redis.Shutdown).
//
// Example:
//
//	client, err := redisconn.Connect(ctx, cfg, logger)
//	s := kv.NewRedis(client)
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// NewOwnedRedis wraps a client that Close will also close.
func NewOwnedRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, owned: true}
}

// Get retrieves a value by key.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Set stores a value with the given TTL.
// Redis interprets a zero expiration as "no expiry".
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	return r.client.Set(ctx, key, value, max(ttl, 0)).Err()
}

// Delete removes a key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ping checks server connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return redisconn.Healthcheck(r.client)(ctx)
}

// Close closes the client when the store owns it.
func (r *Redis) Close() error {
	if r.owned {
		return redisconn.Shutdown(r.client)(context.Background())
	}
	return nil
}

var _ Store = (*Redis)(nil)
