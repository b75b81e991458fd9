package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	appdash "github.com/cms/dashboard/internal/application/dashboard"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ForecastCache stores fetched forecasts for a short TTL so every
// dashboard reload does not hit the upstream weather service.
type ForecastCache interface {
	Get(ctx context.Context, query appdash.WeatherQuery) (*appdash.Forecast, bool, error)
	Set(ctx context.Context, query appdash.WeatherQuery, forecast *appdash.Forecast, ttl time.Duration) error
}

func cacheKey(query appdash.WeatherQuery) string {
	return fmt.Sprintf("weather:forecast:%s:%s:%s",
		query.LocationType,
		strings.ToLower(strings.TrimSpace(query.Location)),
		query.Units,
	)
}

// RedisForecastCache implements ForecastCache using Redis
type RedisForecastCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisForecastCache creates a forecast cache backed by an existing
// Redis client.
func NewRedisForecastCache(client *redis.Client, logger *zap.Logger) *RedisForecastCache {
	return &RedisForecastCache{client: client, logger: logger}
}

// Get returns a cached forecast for the query, if present
func (c *RedisForecastCache) Get(ctx context.Context, query appdash.WeatherQuery) (*appdash.Forecast, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(query)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("forecast cache read failed: %w", err)
	}

	var forecast appdash.Forecast
	if err := json.Unmarshal([]byte(raw), &forecast); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the
		// next Set.
		c.logger.Warn("Dropping corrupt forecast cache entry",
			zap.String("key", cacheKey(query)), zap.Error(err))
		return nil, false, nil
	}
	return &forecast, true, nil
}

// Set stores a forecast under the query's key
func (c *RedisForecastCache) Set(ctx context.Context, query appdash.WeatherQuery, forecast *appdash.Forecast, ttl time.Duration) error {
	raw, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("forecast cache encode failed: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(query), raw, ttl).Err(); err != nil {
		return fmt.Errorf("forecast cache write failed: %w", err)
	}
	return nil
}

type memoryEntry struct {
	forecast appdash.Forecast
	expires  time.Time
}

// MemoryForecastCache implements ForecastCache in process memory.
// Suitable for single-instance deployments and tests.
type MemoryForecastCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryForecastCache creates an in-memory forecast cache
func NewMemoryForecastCache() *MemoryForecastCache {
	return &MemoryForecastCache{entries: make(map[string]memoryEntry)}
}

// Get returns a cached forecast for the query, if present
func (c *MemoryForecastCache) Get(ctx context.Context, query appdash.WeatherQuery) (*appdash.Forecast, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(query)]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false, nil
	}
	forecast := entry.forecast
	return &forecast, true, nil
}

// Set stores a forecast under the query's key
func (c *MemoryForecastCache) Set(ctx context.Context, query appdash.WeatherQuery, forecast *appdash.Forecast, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[cacheKey(query)] = memoryEntry{forecast: *forecast, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
