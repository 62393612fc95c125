package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const refCacheKeyPrefix = "refcache:"

// RefCache is a reference-data cache with an explicit TTL per entity type
// and explicit invalidation. It replaces ambient module-level query caches:
// process-wide state lives in redis, not in package variables.
type RefCache struct {
	redis *redis.Client
	ttl   time.Duration
	kind  string // entity type, part of the key namespace
}

// NewRefCache creates a cache for one entity type with the given TTL
func NewRefCache(redisClient *RedisClient, kind string, ttl time.Duration) *RefCache {
	return &RefCache{
		redis: redisClient.GetClient(),
		ttl:   ttl,
		kind:  kind,
	}
}

func (c *RefCache) key(id string) string {
	return refCacheKeyPrefix + c.kind + ":" + id
}

// Get unmarshals a cached value into dest. The bool reports a cache hit.
func (c *RefCache) Get(ctx context.Context, id string, dest interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s cache: %w", c.kind, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached %s: %w", c.kind, err)
	}
	return true, nil
}

// Set stores a value under the entity's TTL
func (c *RefCache) Set(ctx context.Context, id string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s for cache: %w", c.kind, err)
	}
	if err := c.redis.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s cache: %w", c.kind, err)
	}
	return nil
}

// Invalidate drops one cached value
func (c *RefCache) Invalidate(ctx context.Context, id string) error {
	return c.redis.Del(ctx, c.key(id)).Err()
}

// InvalidateAll drops every cached value of this entity type
func (c *RefCache) InvalidateAll(ctx context.Context) error {
	iter := c.redis.Scan(ctx, 0, refCacheKeyPrefix+c.kind+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate %s cache: %w", c.kind, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan %s cache keys: %w", c.kind, err)
	}
	return nil
}
