// Package cache provides the best-effort Redis layer. Cache failures are
// logged and swallowed; the database remains the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
)

// ErrMiss is returned when a key is absent or the cache is unavailable.
var ErrMiss = errors.New("cache miss")

// Cache is a thin JSON wrapper over Redis.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// New connects the Redis client. A failed ping is logged, not fatal.
func New(cfg config.RedisConfig, logger *zap.Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, cache disabled until it recovers", zap.Error(err))
	}
	return &Cache{client: client, logger: logger}
}

// Get unmarshals the cached value into dest, or returns ErrMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return ErrMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return ErrMiss
	}
	return nil
}

// Set stores value as JSON with a TTL. Failures are logged and ignored.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops a key. Failures are logged and ignored.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// Close shuts the client down.
func (c *Cache) Close() error {
	return c.client.Close()
}

// SummaryKey is the cache key for a user's ledger summary.
func SummaryKey(userID uint) string {
	return fmt.Sprintf("summary:%d", userID)
}
