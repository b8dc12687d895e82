package dedup

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "notifier:processed:"

// RedisStore keeps processed event identifiers in Redis, shared across all
// instances of the service.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis using a redis:// URL.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Exists(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKeyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Insert(ctx context.Context, eventID string) error {
	// SETNX keeps the first write; re-marking a processed event is a no-op.
	if err := s.client.SetNX(ctx, redisKeyPrefix+eventID, 1, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
