package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iaros/concierge/internal/logging"
)

// RedisCache is the production Cache backend, mirroring the Set/Get-with-
// TTL pattern session_manager.go uses for NDC/GDS session caching.
type RedisCache struct {
	client *redis.Client
	log    *logging.Logger
}

// NewRedisCache wraps an existing redis.Client. client may be nil, in
// which case every operation degrades to a no-op miss.
func NewRedisCache(client *redis.Client, log *logging.Logger) *RedisCache {
	return &RedisCache{client: client, log: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		c.log.CacheOp("get", key, false)
		return nil, false
	}
	c.log.CacheOp("get", key, true)
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		c.log.WithError(err).Warn("hot cache write failed, degrading to uncached response")
	}
	return err
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c.client == nil {
		return nil, nil
	}
	var out []string
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WithError(err).Warn("hot cache scan failed")
		return nil, err
	}
	return out, nil
}
