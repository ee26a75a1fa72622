package config

import "github.com/redis/go-redis/v9"

// ConnectRedis returns nil when REDIS_ADDR is unset; callers treat a nil
// client as "no cache".
func ConnectRedis(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
