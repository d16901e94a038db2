package domain

// Postprocessing notes emitted when a correction rule fires.
const (
	noteDemoted  = "Adjusted from High to Medium because of low recent rainfall and high elevation."
	notePromoted = "Upgraded to High due to heavy rain, frequent flooding and proximity to river."
)

// PostprocessResult is the corrected label and confidence, with a
// human-readable note when a rule fired.
type PostprocessResult struct {
	Label      RiskLevel
	Confidence float64
	Note       string // "" when no rule applied
}

// Postprocess applies the deterministic correction rules to a prediction.
// Rules are evaluated in fixed order and the first match wins:
//
//  1. Demote High to Medium when recent rainfall is light, the parcel sits
//     at high elevation, and the classifier was not near-certain.
//  2. Promote to High when heavy rain, frequent flooding, and river
//     proximity coincide.
//
// No rule matching returns the input unchanged.
func Postprocess(label RiskLevel, confidence float64, fv FeatureVector) PostprocessResult {
	if label == RiskHigh &&
		fv.RainfallIntensity < 20 &&
		fv.ElevationCategory == ElevationHigh &&
		confidence < 0.95 {
		c := confidence + 0.05
		if c > 0.95 {
			c = 0.95
		}
		return PostprocessResult{Label: RiskMedium, Confidence: c, Note: noteDemoted}
	}

	if label != RiskHigh &&
		fv.RainfallIntensity >= 120 &&
		fv.FloodFrequency >= 3 &&
		fv.DistanceFromRiver <= 1.5 {
		c := confidence
		if c < 0.6 {
			c = 0.6
		}
		c += 0.05
		if c > 0.99 {
			c = 0.99
		}
		return PostprocessResult{Label: RiskHigh, Confidence: c, Note: notePromoted}
	}

	return PostprocessResult{Label: label, Confidence: confidence}
}
