package config

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis builds the shared cache-store client. An unreachable store is
// logged but not fatal; the pipeline treats cache failures as misses.
func InitRedis(ctx context.Context, cfg *Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.CacheAddr(),
		Password:     cfg.Cache.Password,
		DB:           cfg.Cache.DB,
		DialTimeout:  cfg.Cache.DialTimeout,
		ReadTimeout:  cfg.Cache.DialTimeout,
		WriteTimeout: cfg.Cache.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Cache.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("cache store unreachable, screening results will not be cached until it recovers",
			zap.String("addr", cfg.CacheAddr()),
			zap.Error(err),
		)
		return client
	}

	logger.Info("cache store connected", zap.String("addr", cfg.CacheAddr()))
	return client
}
