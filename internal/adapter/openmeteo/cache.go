package openmeteo

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/land-risk-service/internal/domain"
	"github.com/couchcryptid/land-risk-service/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// rainfallTTL bounds how long a 24-hour rainfall total may be served from
// cache before a fresh lookup; elevation never changes and caches forever.
const rainfallTTL = 15 * time.Minute

// CachedFetcher wraps an EnvironmentalFetcher with per-source in-memory LRU
// caches keyed by rounded coordinate. Only successful lookups are cached so
// transient failures can be retried by later requests.
type CachedFetcher struct {
	inner     domain.EnvironmentalFetcher
	rainfall  *expirable.LRU[string, float64]
	elevation *lru.Cache[string, float64]
	metrics   *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner domain.EnvironmentalFetcher, maxEntries int, metrics *observability.Metrics) (*CachedFetcher, error) {
	elevation, err := lru.New[string, float64](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create elevation cache: %w", err)
	}
	return &CachedFetcher{
		inner:     inner,
		rainfall:  expirable.NewLRU[string, float64](maxEntries, nil, rainfallTTL),
		elevation: elevation,
		metrics:   metrics,
	}, nil
}

func (c *CachedFetcher) RecentRainfallMM(ctx context.Context, lat, lon float64) (float64, error) {
	key := coordKey(lat, lon)
	if v, ok := c.rainfall.Get(key); ok {
		c.metrics.FetchCache.WithLabelValues("rainfall", "hit").Inc()
		return v, nil
	}
	c.metrics.FetchCache.WithLabelValues("rainfall", "miss").Inc()
	v, err := c.inner.RecentRainfallMM(ctx, lat, lon)
	if err != nil {
		return 0, err
	}
	c.rainfall.Add(key, v)
	return v, nil
}

func (c *CachedFetcher) ElevationM(ctx context.Context, lat, lon float64) (float64, error) {
	key := coordKey(lat, lon)
	if v, ok := c.elevation.Get(key); ok {
		c.metrics.FetchCache.WithLabelValues("elevation", "hit").Inc()
		return v, nil
	}
	c.metrics.FetchCache.WithLabelValues("elevation", "miss").Inc()
	v, err := c.inner.ElevationM(ctx, lat, lon)
	if err != nil {
		return 0, err
	}
	c.elevation.Add(key, v)
	return v, nil
}

// coordKey rounds to ~11m so nearby lookups share an entry.
func coordKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}
