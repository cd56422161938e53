package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "chiyasathi:state:"

// RedisStateRepository stores client state as plain Redis strings under a
// per-profile prefix, so several terminals can share one Redis.
type RedisStateRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisStateRepository creates a new instance of RedisStateRepository.
func NewRedisStateRepository(client *redis.Client, profile string) *RedisStateRepository {
	return &RedisStateRepository{client: client, prefix: stateKeyPrefix + profile + ":"}
}

// Get returns the value stored under key; redis.Nil means missing.
func (r *RedisStateRepository) Get(key string) (string, bool, error) {
	v, err := r.client.Get(context.Background(), r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get state %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key without expiry.
func (r *RedisStateRepository) Set(key, value string) error {
	if err := r.client.Set(context.Background(), r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

// Delete removes keys.
func (r *RedisStateRepository) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	if err := r.client.Del(context.Background(), full...).Err(); err != nil {
		return fmt.Errorf("failed to delete state %v: %w", keys, err)
	}
	return nil
}
