package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// DefaultRedisPrefix namespaces snapshot keys.
const DefaultRedisPrefix = "portal:fallback:"

// Redis stores snapshots as plain string values without expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a Redis backend. A nil client behaves as an always-empty store.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Load fetches the payload stored for key.
func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", r.prefix+key, err)
	}
	return raw, nil
}

// Store replaces the payload stored for key. SET is atomic, so readers see either the
// old or the new snapshot.
func (r *Redis) Store(ctx context.Context, key string, payload []byte) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.prefix+key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *Redis) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
