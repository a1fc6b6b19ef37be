// Package session provides the session stores behind the auth layer: a
// redis-backed one for full deployments and an in-process fallback that
// matches the reset-on-restart nature of the rest of the demo stack.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"lendora-backend/internal/usecase/auth"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
