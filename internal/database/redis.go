package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"community-feed-api/internal/config"
)

var redisClient *redis.Client

// InitRedis connects the comment-count cache backend. A redis:// URL
// takes precedence over the addr/password/db triple.
func InitRedis(cfg config.RedisConfig, log *zap.Logger) error {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	redisClient = client
	log.Info("Redis connection established successfully",
		zap.String("addr", client.Options().Addr),
		zap.Int("db", cfg.DB))
	return nil
}

// GetRedis returns the Redis client, or nil when Redis was never
// connected. Callers treat nil as cache-disabled.
func GetRedis() *redis.Client {
	return redisClient
}
