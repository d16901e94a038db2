package domain

import (
	"fmt"
	"strings"
)

// Disclaimer closes every explanation and is returned verbatim in responses.
const Disclaimer = "Predictions are indicative and based on regional data. Not a substitute for on-site testing."

const genericExplanation = "Risk assessment is based on the overall model output for the supplied features."

// ComposeExplanation renders the top three attribution entries as
// natural-language sentences, appends the postprocessing note when present,
// and closes with the disclaimer. It returns the joined explanation and the
// same content split on ". " for the influencing_factors list.
//
// An empty attribution map degrades to a generic explanation instead of
// failing the request.
func ComposeExplanation(resolved ResolvedFeatures, weights AttributionMap, note string) (string, []string) {
	var parts []string

	if len(weights) == 0 {
		parts = append(parts, genericExplanation)
	} else {
		ranked := weights.Ranked()
		if len(ranked) > 3 {
			ranked = ranked[:3]
		}
		for _, fw := range ranked {
			if s := factorSentence(fw.Feature, resolved); s != "" {
				parts = append(parts, s)
			}
		}
	}

	if note != "" {
		parts = append(parts, note)
	}
	parts = append(parts, Disclaimer)

	explanation := strings.Join(parts, " ")
	return explanation, strings.Split(explanation, ". ")
}

func factorSentence(feature string, resolved ResolvedFeatures) string {
	fv := resolved.Features
	switch feature {
	case FeatureSoilType:
		return fmt.Sprintf("Soil type '%s' can affect post-flood stability.", fv.SoilType)
	case FeatureFloodFrequency:
		if fv.FloodFrequency >= 3 {
			return fmt.Sprintf("Frequent flooding (%d times) increases saturation and erosion risk.", int(fv.FloodFrequency))
		}
		return fmt.Sprintf("Flood occurrences (%d times) are a contributing factor.", int(fv.FloodFrequency))
	case FeatureRainfallIntensity:
		switch resolved.RainfallCategory {
		case RainfallHeavy:
			return fmt.Sprintf("Heavy rainfall (%.0f mm) raises landslip and saturation risk.", fv.RainfallIntensity)
		case RainfallModerate:
			return fmt.Sprintf("Moderate rainfall (%.0f mm) influences soil moisture.", fv.RainfallIntensity)
		default:
			return fmt.Sprintf("Light rainfall (%.0f mm) has limited effect on soil moisture.", fv.RainfallIntensity)
		}
	case FeatureElevationCategory:
		if fv.ElevationCategory == ElevationLow || fv.ElevationCategory == ElevationMid {
			return fmt.Sprintf("Lower elevation ('%s') is more flood-prone and increases risk.", fv.ElevationCategory)
		}
		return fmt.Sprintf("Elevation ('%s') provides some protection against flooding.", fv.ElevationCategory)
	case FeatureDistanceFromRiver:
		if fv.DistanceFromRiver < 1.0 {
			return fmt.Sprintf("Very close to river (%g km) which raises flood exposure.", fv.DistanceFromRiver)
		}
		return fmt.Sprintf("Distance from river (%g km) affects exposure.", fv.DistanceFromRiver)
	}
	return ""
}

// RecommendationFor maps a final risk label to its operator guidance text.
func RecommendationFor(level RiskLevel) string {
	switch {
	case LabelsAgree(level, RiskHigh):
		return "High risk: Restrict access and seek a professional geotechnical inspection before re-using the land. Avoid heavy machinery and replanting until cleared."
	case LabelsAgree(level, RiskMedium):
		return "Moderate risk: Schedule an inspection, reduce heavy loads, and monitor for settlement or waterlogging. Take precautions before replanting."
	default:
		return "Low risk: Routine checks recommended. Continue with caution and schedule a follow-up inspection if conditions change."
	}
}
