package weather

import (
	"context"
	"time"

	appdash "github.com/cms/dashboard/internal/application/dashboard"
	"github.com/cms/dashboard/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// CachingFetcher wraps a fetcher with a short-TTL forecast cache so
// many panels sharing a location produce one upstream request per TTL
// window. Cache errors degrade to direct fetches.
type CachingFetcher struct {
	inner  appdash.WeatherFetcher
	cache  cache.ForecastCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachingFetcher creates a caching weather fetcher
func NewCachingFetcher(inner appdash.WeatherFetcher, forecastCache cache.ForecastCache, ttl time.Duration, logger *zap.Logger) *CachingFetcher {
	return &CachingFetcher{
		inner:  inner,
		cache:  forecastCache,
		ttl:    ttl,
		logger: logger,
	}
}

// Fetch returns a cached forecast when fresh, otherwise fetches and
// caches.
func (f *CachingFetcher) Fetch(ctx context.Context, query appdash.WeatherQuery) (*appdash.Forecast, error) {
	cached, hit, err := f.cache.Get(ctx, query)
	if err != nil {
		f.logger.Warn("Forecast cache read failed", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	forecast, err := f.inner.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, query, forecast, f.ttl); err != nil {
		f.logger.Warn("Forecast cache write failed", zap.Error(err))
	}
	return forecast, nil
}
