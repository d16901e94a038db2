package pipeline

import (
	"fmt"

	"github.com/couchcryptid/land-risk-service/internal/domain"
)

// Request is a parsed prediction request. Coordinates, when present, take
// precedence over manual feature fields and trigger feature resolution.
type Request struct {
	Latitude  *float64
	Longitude *float64
	Region    string

	SoilType          *string
	FloodFrequency    *float64
	RainfallIntensity *float64
	ElevationCategory *string
	DistanceFromRiver *float64
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r Request) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// manualFeatures validates and assembles the explicit feature fields.
// distance_from_river is optional and defaults to 0.
func (r Request) manualFeatures() (domain.FeatureVector, error) {
	if r.SoilType == nil {
		return domain.FeatureVector{}, missingField(domain.FeatureSoilType)
	}
	if r.FloodFrequency == nil {
		return domain.FeatureVector{}, missingField(domain.FeatureFloodFrequency)
	}
	if r.RainfallIntensity == nil {
		return domain.FeatureVector{}, missingField(domain.FeatureRainfallIntensity)
	}
	if r.ElevationCategory == nil {
		return domain.FeatureVector{}, missingField(domain.FeatureElevationCategory)
	}
	if !domain.ValidSoilType(*r.SoilType) {
		return domain.FeatureVector{}, &ValidationError{Msg: fmt.Sprintf("Unknown soil_type: %s", *r.SoilType)}
	}
	if !domain.ValidElevationCategory(*r.ElevationCategory) {
		return domain.FeatureVector{}, &ValidationError{Msg: fmt.Sprintf("Unknown elevation_category: %s", *r.ElevationCategory)}
	}
	if *r.FloodFrequency < 0 || *r.RainfallIntensity < 0 {
		return domain.FeatureVector{}, &ValidationError{Msg: "flood_frequency and rainfall_intensity must be non-negative"}
	}

	fv := domain.FeatureVector{
		SoilType:          domain.SoilType(*r.SoilType),
		FloodFrequency:    *r.FloodFrequency,
		RainfallIntensity: *r.RainfallIntensity,
		ElevationCategory: domain.ElevationCategory(*r.ElevationCategory),
	}
	if r.DistanceFromRiver != nil {
		if *r.DistanceFromRiver < 0 {
			return domain.FeatureVector{}, &ValidationError{Msg: "distance_from_river must be non-negative"}
		}
		fv.DistanceFromRiver = *r.DistanceFromRiver
	}
	return fv, nil
}

func missingField(name string) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf("Missing field: %s", name)}
}
