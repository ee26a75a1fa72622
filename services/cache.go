package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded lookups from external APIs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RedisCache is a Cache over go-redis. A nil client turns every call into
// a miss so callers do not need to branch on configuration.
type RedisCache struct {
	Client *redis.Client
	Prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client, Prefix: "mmtravel:"}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.Client == nil {
		return false, nil
	}
	raw, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil || c.Client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.Prefix+key, raw, ttl).Err()
}

// cached wraps a loader with a cache lookup. Cache failures are logged and
// never fail the caller.
func cached[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func() (T, bool, error)) (T, error) {
	var out T
	if c != nil {
		hit, err := c.Get(ctx, key, &out)
		if err != nil {
			log.Printf("⚠️ cache get %s: %v", key, err)
		} else if hit {
			return out, nil
		}
	}
	out, store, err := load()
	if err != nil {
		return out, err
	}
	if store && c != nil {
		if err := c.Set(ctx, key, out, ttl); err != nil {
			log.Printf("⚠️ cache set %s: %v", key, err)
		}
	}
	return out, nil
}
