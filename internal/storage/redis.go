package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/techpulse/newsfeed/internal/logger"
)

// RedisInvalidator drops cached keys after a successful pipeline run so
// the read API serves fresh article lists.
type RedisInvalidator struct {
	client *redis.Client
}

func NewRedisInvalidator(ctx context.Context, addr, password string, db int) (*RedisInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis connected", "addr", addr)
	return &RedisInvalidator{client: client}, nil
}

// Invalidate deletes the given keys. Failures are logged but not fatal:
// stale cache is preferable to a failed run.
func (r *RedisInvalidator) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache invalidation failed", "keys", keys, "err", err)
		return err
	}
	logger.Debug("cache invalidated", "keys", keys)
	return nil
}

// Close releases the client.
func (r *RedisInvalidator) Close() error {
	return r.client.Close()
}
