package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores slots as plain Redis strings with a sliding TTL
type RedisSlot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlot creates a Redis-backed slot store; ttl <= 0 disables expiry
func NewRedisSlot(client *redis.Client, ttl time.Duration) *RedisSlot {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSlot{client: client, ttl: ttl}
}

// Get returns the value under key
func (r *RedisSlot) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key and refreshes its expiry
func (r *RedisSlot) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Del removes key
func (r *RedisSlot) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
