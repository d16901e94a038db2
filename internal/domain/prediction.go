package domain

import "strings"

// RiskLevel is the classifier's output label.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// SecondaryOpinion carries the optional second classifier's verdict and
// whether it agrees with the primary (case-insensitive label comparison).
type SecondaryOpinion struct {
	Label      RiskLevel
	Confidence float64
	Agreement  bool
}

// Prediction is the classifier adapter's output for one feature vector.
type Prediction struct {
	Label         RiskLevel
	Confidence    float64            // probability mass on Label; 1.0 when probabilities are unavailable
	Probabilities map[string]float64 // label → probability, nil when unavailable
	Secondary     *SecondaryOpinion
}

// LabelsAgree compares two risk labels case-insensitively.
func LabelsAgree(a, b RiskLevel) bool {
	return strings.EqualFold(string(a), string(b))
}
