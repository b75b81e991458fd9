package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cms/dashboard/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client from configuration and verifies
// the connection.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewForecastCache creates a Redis-backed forecast cache, falling back
// to an in-memory cache when Redis is unavailable. In-memory caches do
// not share state across instances, so multi-instance deployments
// should run with Redis.
func NewForecastCache(cfg config.RedisConfig, logger *zap.Logger) ForecastCache {
	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory forecast cache", zap.Error(err))
		return NewMemoryForecastCache()
	}
	logger.Info("Using Redis forecast cache", zap.String("addr", cfg.RedisAddr()))
	return NewRedisForecastCache(client, logger)
}
