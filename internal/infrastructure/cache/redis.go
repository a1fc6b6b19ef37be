package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects and verifies the server is reachable. Redis backs the
// idempotency middleware and the session store; both are optional, so callers
// may skip this entirely when no address is configured.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Healthy reports whether the connection still answers within the timeout.
func Healthy(ctx context.Context, r *redis.Client, timeout time.Duration) bool {
	if r == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.Ping(ctx).Err() == nil
}
