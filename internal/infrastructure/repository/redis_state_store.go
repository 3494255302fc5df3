package repository

import (
	"context"
	"fmt"
	"time"

	"skyutilities-dashboard/internal/ports"

	"github.com/redis/go-redis/v9"
)

const oauthStateKeyPrefix = "oauth:state:"

// RedisStateStore keeps OAuth state nonces in Redis with a TTL
type RedisStateStore struct {
	client redis.UniversalClient
}

// NewRedisStateStore creates a Redis-backed state store
func NewRedisStateStore(client redis.UniversalClient) ports.OAuthStateStore {
	return &RedisStateStore{client: client}
}

// Save records the state until ttl elapses
func (s *RedisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, oauthStateKeyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// Consume deletes the state; DEL's count makes the check-and-remove atomic
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, oauthStateKeyPrefix+state).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return n > 0, nil
}
