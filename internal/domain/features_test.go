package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRainfallCategoryFromMM(t *testing.T) {
	tests := []struct {
		mm   float64
		want RainfallCategory
	}{
		{0, RainfallLight},
		{19.9, RainfallLight},
		{20.0, RainfallModerate},
		{50, RainfallModerate},
		{100.0, RainfallModerate},
		{100.1, RainfallHeavy},
		{250, RainfallHeavy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RainfallCategoryFromMM(tt.mm), "mm=%v", tt.mm)
	}
}

func TestElevationCategoryFromM(t *testing.T) {
	tests := []struct {
		m    float64
		want ElevationCategory
	}{
		{-5, ElevationLow},
		{0, ElevationLow},
		{49.9, ElevationLow},
		{50.0, ElevationMid},
		{299.9, ElevationMid},
		{300.0, ElevationHigh},
		{4200, ElevationHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ElevationCategoryFromM(tt.m), "m=%v", tt.m)
	}
}

func TestValidSoilType(t *testing.T) {
	for _, s := range []string{"clay", "silt", "sand", "sandy", "loam"} {
		assert.True(t, ValidSoilType(s), s)
	}
	assert.False(t, ValidSoilType("peat"))
	assert.False(t, ValidSoilType(""))
	assert.False(t, ValidSoilType("Clay"))
}

func TestValidElevationCategory(t *testing.T) {
	for _, s := range []string{"low", "mid", "high"} {
		assert.True(t, ValidElevationCategory(s), s)
	}
	assert.False(t, ValidElevationCategory("medium"))
	assert.False(t, ValidElevationCategory(""))
}

func TestDefaultFeatures(t *testing.T) {
	fv := DefaultFeatures()
	assert.Equal(t, SoilSilt, fv.SoilType)
	assert.Equal(t, 1.0, fv.FloodFrequency)
	assert.Equal(t, 50.0, fv.RainfallIntensity)
	assert.Equal(t, ElevationMid, fv.ElevationCategory)
	assert.Equal(t, 2.0, fv.DistanceFromRiver)
}
