package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributionMapNormalize(t *testing.T) {
	t.Run("scales to unit sum", func(t *testing.T) {
		m := AttributionMap{"a": 2, "b": 6}.Normalize()
		assert.InDelta(t, 0.25, m["a"], 1e-12)
		assert.InDelta(t, 0.75, m["b"], 1e-12)
	})

	t.Run("negligible total collapses to empty", func(t *testing.T) {
		m := AttributionMap{"a": 1e-9, "b": 1e-8}.Normalize()
		assert.Empty(t, m)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Empty(t, AttributionMap{}.Normalize())
	})
}

func TestAttributionMapRanked(t *testing.T) {
	m := AttributionMap{
		FeatureSoilType:          0.1,
		FeatureFloodFrequency:    0.4,
		FeatureRainfallIntensity: 0.3,
		FeatureElevationCategory: 0.1,
		FeatureDistanceFromRiver: 0.1,
	}

	ranked := m.Ranked()
	require.Len(t, ranked, 5)
	assert.Equal(t, FeatureFloodFrequency, ranked[0].Feature)
	assert.Equal(t, FeatureRainfallIntensity, ranked[1].Feature)

	// The three 0.1 entries tie-break on canonical feature order.
	assert.Equal(t, FeatureSoilType, ranked[2].Feature)
	assert.Equal(t, FeatureElevationCategory, ranked[3].Feature)
	assert.Equal(t, FeatureDistanceFromRiver, ranked[4].Feature)
}

func TestAttributionMapRankedDeterministic(t *testing.T) {
	m := AttributionMap{
		FeatureSoilType:          0.2,
		FeatureFloodFrequency:    0.2,
		FeatureRainfallIntensity: 0.2,
		FeatureElevationCategory: 0.2,
		FeatureDistanceFromRiver: 0.2,
	}

	first := m.Ranked()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, m.Ranked())
	}
}
