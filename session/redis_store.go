package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long a stored session outlives its last write.
// It tracks the backend's refresh-token lifetime.
const DefaultRedisTTL = 7 * 24 * time.Hour

// RedisStore is a persistent store shared by every process pointed at the
// same Redis, e.g. several CLI hosts behind one account.
type RedisStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. prefix namespaces the
// key (e.g. "user:42:"); ttl <= 0 uses DefaultRedisTTL.
func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{
		client: client,
		key:    prefix + StorageKey,
		ttl:    ttl,
	}
}

// Key returns the Redis key sessions are written to.
func (r *RedisStore) Key() string { return r.key }

func (r *RedisStore) Load(ctx context.Context) (*Session, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
