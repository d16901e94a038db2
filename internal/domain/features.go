package domain

// Canonical feature names, in model input order. This order also breaks ties
// when attribution weights are equal, so responses stay deterministic.
const (
	FeatureSoilType          = "soil_type"
	FeatureFloodFrequency    = "flood_frequency"
	FeatureRainfallIntensity = "rainfall_intensity"
	FeatureElevationCategory = "elevation_category"
	FeatureDistanceFromRiver = "distance_from_river"
)

// CanonicalFeatures lists every model input feature in canonical order.
var CanonicalFeatures = []string{
	FeatureSoilType,
	FeatureFloodFrequency,
	FeatureRainfallIntensity,
	FeatureElevationCategory,
	FeatureDistanceFromRiver,
}

// SoilType is the surveyed soil classification of a parcel.
type SoilType string

const (
	SoilClay  SoilType = "clay"
	SoilSilt  SoilType = "silt"
	SoilSand  SoilType = "sand"
	SoilSandy SoilType = "sandy"
	SoilLoam  SoilType = "loam"
)

// ValidSoilType reports whether s is a recognized soil classification.
func ValidSoilType(s string) bool {
	switch SoilType(s) {
	case SoilClay, SoilSilt, SoilSand, SoilSandy, SoilLoam:
		return true
	}
	return false
}

// ElevationCategory buckets parcel elevation above sea level.
type ElevationCategory string

const (
	ElevationLow  ElevationCategory = "low"
	ElevationMid  ElevationCategory = "mid"
	ElevationHigh ElevationCategory = "high"
)

// ValidElevationCategory reports whether s is a recognized elevation bucket.
func ValidElevationCategory(s string) bool {
	switch ElevationCategory(s) {
	case ElevationLow, ElevationMid, ElevationHigh:
		return true
	}
	return false
}

// RainfallCategory buckets 24-hour rainfall totals for explanations.
type RainfallCategory string

const (
	RainfallLight    RainfallCategory = "Light"
	RainfallModerate RainfallCategory = "Moderate"
	RainfallHeavy    RainfallCategory = "Heavy"
)

// RainfallCategoryFromMM buckets a 24-hour rainfall total in millimeters.
// Boundaries are inclusive on the Moderate side: 20.0 and 100.0 are Moderate.
func RainfallCategoryFromMM(mm float64) RainfallCategory {
	switch {
	case mm < 20:
		return RainfallLight
	case mm <= 100:
		return RainfallModerate
	default:
		return RainfallHeavy
	}
}

// ElevationCategoryFromM buckets an elevation in meters above sea level.
func ElevationCategoryFromM(m float64) ElevationCategory {
	switch {
	case m < 50:
		return ElevationLow
	case m < 300:
		return ElevationMid
	default:
		return ElevationHigh
	}
}

// FeatureVector is the complete, typed model input for one parcel.
// It is immutable once resolved and passed by value through the pipeline.
type FeatureVector struct {
	SoilType          SoilType
	FloodFrequency    float64
	RainfallIntensity float64 // mm over the prior 24 hours
	ElevationCategory ElevationCategory
	DistanceFromRiver float64 // km
}

// DefaultFeatures returns the hardcoded bottom-tier feature values used when
// neither a live measurement nor a region rule supplies one.
func DefaultFeatures() FeatureVector {
	return FeatureVector{
		SoilType:          SoilSilt,
		FloodFrequency:    1.0,
		RainfallIntensity: 50.0,
		ElevationCategory: ElevationMid,
		DistanceFromRiver: 2.0,
	}
}

// Source tags where a resolved feature value came from.
type Source string

const (
	SourceLiveAPI    Source = "live-api"
	SourceRegionRule Source = "region-rule"
	SourceDefault    Source = "default"
	SourceManual     Source = "manual"
)

// Provenance records, per canonical feature name, which tier supplied its
// value. It never affects inference, only explanations and region adjustment.
type Provenance map[string]Source
