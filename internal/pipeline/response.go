package pipeline

import (
	"time"

	"github.com/couchcryptid/land-risk-service/internal/domain"
)

// FeatureImportance is one ranked attribution entry in the response.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Location echoes the request coordinates.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SecondaryModel is the second classifier's verdict.
type SecondaryModel struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// ModelComparison reports the secondary model alongside whether it agrees
// with the primary label.
type ModelComparison struct {
	DecisionTree SecondaryModel `json:"decision_tree"`
	Agree        bool           `json:"agree"`
}

// InferredFeatures surfaces the resolved feature vector, its provenance,
// and the coordinate it was resolved from.
type InferredFeatures struct {
	SoilType          string                   `json:"soil_type"`
	FloodFrequency    float64                  `json:"flood_frequency"`
	RainfallIntensity float64                  `json:"rainfall_intensity"`
	ElevationCategory string                   `json:"elevation_category"`
	DistanceFromRiver float64                  `json:"distance_from_river"`
	RainfallCategory  string                   `json:"rainfall_category"`
	Latitude          float64                  `json:"latitude"`
	Longitude         float64                  `json:"longitude"`
	Region            string                   `json:"region,omitempty"`
	Provenance        map[string]domain.Source `json:"provenance"`
}

// Response is the prediction response body.
type Response struct {
	RiskLevel          string              `json:"risk_level"`
	Confidence         float64             `json:"confidence"`
	Probabilities      map[string]float64  `json:"probabilities,omitempty"`
	Explanation        string              `json:"explanation"`
	Recommendation     string              `json:"recommendation"`
	FeatureImportances []FeatureImportance `json:"feature_importances"`
	InfluencingFactors []string            `json:"influencing_factors"`
	Disclaimer         string              `json:"disclaimer"`
	Region             string              `json:"region,omitempty"`
	Location           *Location           `json:"location,omitempty"`
	InferredFeatures   *InferredFeatures   `json:"inferred_features,omitempty"`
	ModelComparison    *ModelComparison    `json:"model_comparison,omitempty"`
}

// AuditEvent is the record published to the optional Kafka audit stream
// after each completed prediction.
type AuditEvent struct {
	RiskLevel       string            `json:"risk_level"`
	Confidence      float64           `json:"confidence"`
	Region          string            `json:"region,omitempty"`
	Latitude        float64           `json:"latitude,omitempty"`
	Longitude       float64           `json:"longitude,omitempty"`
	AttributionTier string            `json:"attribution_tier"`
	Provenance      domain.Provenance `json:"provenance"`
	ProcessedAt     time.Time         `json:"processed_at"`
}

func assembleResponse(resolved domain.ResolvedFeatures, prediction domain.Prediction, post domain.PostprocessResult, weights domain.AttributionMap, explanation string, factors []string) *Response {
	resp := &Response{
		RiskLevel:          string(post.Label),
		Confidence:         post.Confidence,
		Probabilities:      prediction.Probabilities,
		Explanation:        explanation,
		Recommendation:     domain.RecommendationFor(post.Label),
		FeatureImportances: rankedImportances(weights),
		InfluencingFactors: factors,
		Disclaimer:         domain.Disclaimer,
		Region:             resolved.Region,
	}

	if prediction.Secondary != nil {
		resp.ModelComparison = &ModelComparison{
			DecisionTree: SecondaryModel{
				Prediction: string(prediction.Secondary.Label),
				Confidence: prediction.Secondary.Confidence,
			},
			Agree: prediction.Secondary.Agreement,
		}
	}

	if resolved.HasCoordinates {
		resp.Location = &Location{Latitude: resolved.Latitude, Longitude: resolved.Longitude}
		resp.InferredFeatures = &InferredFeatures{
			SoilType:          string(resolved.Features.SoilType),
			FloodFrequency:    resolved.Features.FloodFrequency,
			RainfallIntensity: resolved.Features.RainfallIntensity,
			ElevationCategory: string(resolved.Features.ElevationCategory),
			DistanceFromRiver: resolved.Features.DistanceFromRiver,
			RainfallCategory:  string(resolved.RainfallCategory),
			Latitude:          resolved.Latitude,
			Longitude:         resolved.Longitude,
			Region:            resolved.Region,
			Provenance:        resolved.Provenance,
		}
	}

	return resp
}

func rankedImportances(weights domain.AttributionMap) []FeatureImportance {
	ranked := weights.Ranked()
	out := make([]FeatureImportance, len(ranked))
	for i, fw := range ranked {
		out[i] = FeatureImportance{Feature: fw.Feature, Importance: fw.Weight}
	}
	return out
}
