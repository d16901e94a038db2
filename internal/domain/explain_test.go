package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeExplanation_TopThreeFactors(t *testing.T) {
	resolved := ResolveManual(FeatureVector{
		SoilType:          SoilClay,
		FloodFrequency:    5,
		RainfallIntensity: 200,
		ElevationCategory: ElevationLow,
		DistanceFromRiver: 0.3,
	})
	weights := AttributionMap{
		FeatureRainfallIntensity: 0.4,
		FeatureFloodFrequency:    0.3,
		FeatureDistanceFromRiver: 0.2,
		FeatureSoilType:          0.05,
		FeatureElevationCategory: 0.05,
	}

	explanation, factors := ComposeExplanation(resolved, weights, "")

	assert.Contains(t, explanation, "Heavy rainfall (200 mm)")
	assert.Contains(t, explanation, "Frequent flooding (5 times)")
	assert.Contains(t, explanation, "Very close to river (0.3 km)")
	// Only the top three factors appear.
	assert.NotContains(t, explanation, "Soil type")
	assert.NotContains(t, explanation, "elevation")
	assert.True(t, strings.HasSuffix(explanation, Disclaimer))

	require.NotEmpty(t, factors)
	assert.Equal(t, strings.Split(explanation, ". "), factors)
}

func TestComposeExplanation_IncludesNote(t *testing.T) {
	resolved := ResolveManual(DefaultFeatures())
	weights := AttributionMap{FeatureRainfallIntensity: 1.0}
	note := "Upgraded to High due to heavy rain, frequent flooding and proximity to river."

	explanation, _ := ComposeExplanation(resolved, weights, note)

	assert.Contains(t, explanation, note)
	noteIdx := strings.Index(explanation, note)
	disclaimerIdx := strings.Index(explanation, Disclaimer)
	assert.Less(t, noteIdx, disclaimerIdx, "note precedes disclaimer")
}

func TestComposeExplanation_EmptyWeightsDegradeGracefully(t *testing.T) {
	resolved := ResolveManual(DefaultFeatures())

	explanation, factors := ComposeExplanation(resolved, AttributionMap{}, "")

	assert.Contains(t, explanation, "overall model output")
	assert.True(t, strings.HasSuffix(explanation, Disclaimer))
	assert.NotEmpty(t, factors)
}

func TestFactorSentenceVariants(t *testing.T) {
	t.Run("light rainfall", func(t *testing.T) {
		resolved := ResolveManual(FeatureVector{RainfallIntensity: 10, SoilType: SoilSilt, ElevationCategory: ElevationMid})
		explanation, _ := ComposeExplanation(resolved, AttributionMap{FeatureRainfallIntensity: 1}, "")
		assert.Contains(t, explanation, "Light rainfall (10 mm)")
	})

	t.Run("moderate rainfall", func(t *testing.T) {
		resolved := ResolveManual(FeatureVector{RainfallIntensity: 60, SoilType: SoilSilt, ElevationCategory: ElevationMid})
		explanation, _ := ComposeExplanation(resolved, AttributionMap{FeatureRainfallIntensity: 1}, "")
		assert.Contains(t, explanation, "Moderate rainfall (60 mm)")
	})

	t.Run("infrequent flooding", func(t *testing.T) {
		resolved := ResolveManual(FeatureVector{FloodFrequency: 1, SoilType: SoilSilt, ElevationCategory: ElevationMid})
		explanation, _ := ComposeExplanation(resolved, AttributionMap{FeatureFloodFrequency: 1}, "")
		assert.Contains(t, explanation, "Flood occurrences (1 times)")
	})

	t.Run("protective elevation", func(t *testing.T) {
		resolved := ResolveManual(FeatureVector{ElevationCategory: ElevationHigh, SoilType: SoilSilt})
		explanation, _ := ComposeExplanation(resolved, AttributionMap{FeatureElevationCategory: 1}, "")
		assert.Contains(t, explanation, "provides some protection")
	})

	t.Run("distant river", func(t *testing.T) {
		resolved := ResolveManual(FeatureVector{DistanceFromRiver: 4.5, SoilType: SoilSilt, ElevationCategory: ElevationMid})
		explanation, _ := ComposeExplanation(resolved, AttributionMap{FeatureDistanceFromRiver: 1}, "")
		assert.Contains(t, explanation, "Distance from river (4.5 km)")
	})
}

func TestRecommendationFor(t *testing.T) {
	assert.Contains(t, RecommendationFor(RiskHigh), "Restrict access")
	assert.Contains(t, RecommendationFor(RiskMedium), "Schedule an inspection")
	assert.Contains(t, RecommendationFor(RiskLow), "Routine checks")
	// Labels compare case-insensitively.
	assert.Contains(t, RecommendationFor(RiskLevel("high")), "Restrict access")
	// Unknown labels fall back to the cautious low-risk guidance.
	assert.Contains(t, RecommendationFor(RiskLevel("unknown")), "Routine checks")
}
