package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostprocess_DemotesOverconfidentHigh(t *testing.T) {
	fv := FeatureVector{
		SoilType:          SoilSandy,
		FloodFrequency:    1,
		RainfallIntensity: 10,
		ElevationCategory: ElevationHigh,
		DistanceFromRiver: 3,
	}

	out := Postprocess(RiskHigh, 0.80, fv)

	assert.Equal(t, RiskMedium, out.Label)
	assert.InDelta(t, 0.85, out.Confidence, 1e-9)
	assert.Equal(t, "Adjusted from High to Medium because of low recent rainfall and high elevation.", out.Note)
}

func TestPostprocess_DemotionConfidenceCap(t *testing.T) {
	fv := FeatureVector{RainfallIntensity: 5, ElevationCategory: ElevationHigh}

	out := Postprocess(RiskHigh, 0.94, fv)

	assert.Equal(t, RiskMedium, out.Label)
	assert.InDelta(t, 0.95, out.Confidence, 1e-9)
}

func TestPostprocess_NoDemotionWhenNearCertain(t *testing.T) {
	fv := FeatureVector{RainfallIntensity: 5, ElevationCategory: ElevationHigh}

	out := Postprocess(RiskHigh, 0.95, fv)

	assert.Equal(t, RiskHigh, out.Label)
	assert.InDelta(t, 0.95, out.Confidence, 1e-9)
	assert.Empty(t, out.Note)
}

func TestPostprocess_DemotionBoundaries(t *testing.T) {
	t.Run("rainfall at 20 does not demote", func(t *testing.T) {
		fv := FeatureVector{RainfallIntensity: 20, ElevationCategory: ElevationHigh}
		out := Postprocess(RiskHigh, 0.80, fv)
		assert.Equal(t, RiskHigh, out.Label)
	})

	t.Run("mid elevation does not demote", func(t *testing.T) {
		fv := FeatureVector{RainfallIntensity: 5, ElevationCategory: ElevationMid}
		out := Postprocess(RiskHigh, 0.80, fv)
		assert.Equal(t, RiskHigh, out.Label)
	})
}

func TestPostprocess_PromotesCompoundingConditions(t *testing.T) {
	fv := FeatureVector{
		SoilType:          SoilClay,
		FloodFrequency:    3,
		RainfallIntensity: 120,
		ElevationCategory: ElevationLow,
		DistanceFromRiver: 1.5,
	}

	out := Postprocess(RiskLow, 0.50, fv)

	assert.Equal(t, RiskHigh, out.Label)
	// Confidence rises to at least the 0.6 floor before the 0.05 bump.
	assert.InDelta(t, 0.65, out.Confidence, 1e-9)
	assert.Equal(t, "Upgraded to High due to heavy rain, frequent flooding and proximity to river.", out.Note)
}

func TestPostprocess_PromotionKeepsHigherConfidence(t *testing.T) {
	fv := FeatureVector{FloodFrequency: 4, RainfallIntensity: 150, DistanceFromRiver: 0.5}

	out := Postprocess(RiskMedium, 0.90, fv)

	assert.Equal(t, RiskHigh, out.Label)
	assert.InDelta(t, 0.95, out.Confidence, 1e-9)
}

func TestPostprocess_PromotionConfidenceCap(t *testing.T) {
	fv := FeatureVector{FloodFrequency: 4, RainfallIntensity: 150, DistanceFromRiver: 0.5}

	out := Postprocess(RiskMedium, 0.97, fv)

	assert.Equal(t, RiskHigh, out.Label)
	assert.InDelta(t, 0.99, out.Confidence, 1e-9)
}

func TestPostprocess_PromotionBoundaries(t *testing.T) {
	base := FeatureVector{FloodFrequency: 3, RainfallIntensity: 120, DistanceFromRiver: 1.5}

	t.Run("all thresholds at boundary promote", func(t *testing.T) {
		out := Postprocess(RiskLow, 0.40, base)
		assert.Equal(t, RiskHigh, out.Label)
	})

	t.Run("rainfall below 120 does not promote", func(t *testing.T) {
		fv := base
		fv.RainfallIntensity = 119.9
		out := Postprocess(RiskLow, 0.40, fv)
		assert.Equal(t, RiskLow, out.Label)
	})

	t.Run("distance above 1.5 does not promote", func(t *testing.T) {
		fv := base
		fv.DistanceFromRiver = 1.6
		out := Postprocess(RiskLow, 0.40, fv)
		assert.Equal(t, RiskLow, out.Label)
	})

	t.Run("already High is untouched", func(t *testing.T) {
		out := Postprocess(RiskHigh, 0.40, base)
		assert.Equal(t, RiskHigh, out.Label)
		assert.InDelta(t, 0.40, out.Confidence, 1e-9)
		assert.Empty(t, out.Note)
	})
}

func TestPostprocess_NoRuleLeavesInputUnchanged(t *testing.T) {
	out := Postprocess(RiskMedium, 0.72, DefaultFeatures())

	assert.Equal(t, RiskMedium, out.Label)
	assert.InDelta(t, 0.72, out.Confidence, 1e-9)
	assert.Empty(t, out.Note)
}
