package domain

import "context"

// EnvironmentalFetcher looks up live environmental measurements for a
// coordinate. Implementations are expected to fail fast (short timeout, no
// retries); the resolver treats any error as "no live data" and falls
// through to the next resolution tier.
type EnvironmentalFetcher interface {
	// RecentRainfallMM returns total precipitation in millimeters over the
	// 24 hours preceding the call.
	RecentRainfallMM(ctx context.Context, lat, lon float64) (float64, error)

	// ElevationM returns the elevation in meters above sea level.
	ElevationM(ctx context.Context, lat, lon float64) (float64, error)
}
