// Package rediscache provides a Redis-backed explanation cache shared between
// server instances.
package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bobmcallan/saveplan/internal/common"
)

const keyPrefix = "saveplan:explain:"

// Cache implements interfaces.ExplanationCache on Redis.
type Cache struct {
	client *redis.Client
	logger *common.Logger
}

// New connects lazily to the Redis server at addr.
func New(addr string, logger *common.Logger) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}), logger)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, logger *common.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Get treats any Redis failure as a miss so an unreachable cache never blocks
// an explanation.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("Explanation cache read failed")
		}
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

// Close closes the Redis connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
