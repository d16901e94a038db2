package openmeteo

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/land-risk-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	rainfall    float64
	rainfallErr error
	elevation   float64
	rainCalls   int
	elevCalls   int
}

func (f *countingFetcher) RecentRainfallMM(_ context.Context, _, _ float64) (float64, error) {
	f.rainCalls++
	return f.rainfall, f.rainfallErr
}

func (f *countingFetcher) ElevationM(_ context.Context, _, _ float64) (float64, error) {
	f.elevCalls++
	return f.elevation, nil
}

func newCached(t *testing.T, inner *countingFetcher) *CachedFetcher {
	t.Helper()
	c, err := NewCachedFetcher(inner, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)
	return c
}

func TestCachedFetcher_RainfallHit(t *testing.T) {
	inner := &countingFetcher{rainfall: 42.5}
	c := newCached(t, inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mm, err := c.RecentRainfallMM(ctx, 20, 80)
		require.NoError(t, err)
		assert.Equal(t, 42.5, mm)
	}
	assert.Equal(t, 1, inner.rainCalls)
}

func TestCachedFetcher_ElevationHit(t *testing.T) {
	inner := &countingFetcher{elevation: 120}
	c := newCached(t, inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m, err := c.ElevationM(ctx, 20, 80)
		require.NoError(t, err)
		assert.Equal(t, 120.0, m)
	}
	assert.Equal(t, 1, inner.elevCalls)
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	inner := &countingFetcher{rainfallErr: errors.New("upstream down")}
	c := newCached(t, inner)
	ctx := context.Background()

	_, err := c.RecentRainfallMM(ctx, 20, 80)
	require.Error(t, err)
	_, err = c.RecentRainfallMM(ctx, 20, 80)
	require.Error(t, err)
	assert.Equal(t, 2, inner.rainCalls)

	// Once the upstream recovers, the next call succeeds and caches.
	inner.rainfallErr = nil
	inner.rainfall = 7
	mm, err := c.RecentRainfallMM(ctx, 20, 80)
	require.NoError(t, err)
	assert.Equal(t, 7.0, mm)

	_, err = c.RecentRainfallMM(ctx, 20, 80)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.rainCalls)
}

func TestCachedFetcher_NearbyCoordinatesShareEntries(t *testing.T) {
	inner := &countingFetcher{elevation: 55}
	c := newCached(t, inner)
	ctx := context.Background()

	_, err := c.ElevationM(ctx, 20.00001, 80.00001)
	require.NoError(t, err)
	_, err = c.ElevationM(ctx, 20.00004, 80.00002)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.elevCalls, "coordinates within ~11m share a cache key")

	_, err = c.ElevationM(ctx, 21, 80)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.elevCalls)
}

func TestCachedFetcher_DistinctSourcesDistinctCaches(t *testing.T) {
	inner := &countingFetcher{rainfall: 5, elevation: 10}
	c := newCached(t, inner)
	ctx := context.Background()

	_, err := c.RecentRainfallMM(ctx, 20, 80)
	require.NoError(t, err)
	_, err = c.ElevationM(ctx, 20, 80)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.rainCalls)
	assert.Equal(t, 1, inner.elevCalls)
}
