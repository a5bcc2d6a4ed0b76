package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loan-portal/internal/config"
	"loan-portal/internal/pkg/apperrors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session values in Redis; expiry is delegated to the
// server through the key TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// AddFields relies on HSETNX so concurrent writers, on any instance, never
// replace a field another writer set first.
func (r *RedisStore) AddFields(ctx context.Context, key string, fields map[string]string) (map[string]string, error) {
	added := false
	for f, v := range fields {
		ok, err := r.client.HSetNX(ctx, key, f, v).Result()
		if err != nil {
			return nil, fmt.Errorf("redis hsetnx %s %s: %w", key, f, err)
		}
		added = added || ok
	}
	if added && r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return nil, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}

	out, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	return out, nil
}

// Ping verifies the connection at startup.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
