package model

import (
	"fmt"

	"github.com/couchcryptid/land-risk-service/internal/domain"
)

// Classifier wraps the primary ensemble and optional secondary tree behind
// the domain's feature-vector interface. It owns the encoding step; nothing
// outside this package sees encoded rows.
type Classifier struct {
	artifact *Artifact
	encoder  *Encoder
}

// NewClassifier builds a Classifier from a validated artifact.
func NewClassifier(artifact *Artifact) (*Classifier, error) {
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	enc, err := NewEncoder(artifact.Encoder)
	if err != nil {
		return nil, err
	}
	return &Classifier{artifact: artifact, encoder: enc}, nil
}

// Classes returns the label set in artifact order.
func (c *Classifier) Classes() []string { return c.artifact.Classes }

// Predict runs the primary ensemble (and secondary tree when present) on a
// feature vector. Confidence is the probability mass on the predicted
// label, defaulting to 1.0 when no probability output is available.
func (c *Classifier) Predict(fv domain.FeatureVector) (domain.Prediction, error) {
	x := c.encoder.Encode(fv)

	proba := c.artifact.Forest.Proba(x)
	classIdx, ok := argmax(proba)
	if !ok {
		return domain.Prediction{}, fmt.Errorf("ensemble produced no probabilities")
	}

	pred := domain.Prediction{
		Label:      domain.RiskLevel(c.artifact.Classes[classIdx]),
		Confidence: proba[classIdx],
	}
	if proba[classIdx] > 0 {
		pred.Probabilities = make(map[string]float64, len(proba))
		for i, p := range proba {
			pred.Probabilities[c.artifact.Classes[i]] = p
		}
	} else {
		// Degenerate leaves yield no usable probability mass; report the
		// point prediction alone with full confidence.
		pred.Confidence = 1.0
	}

	if c.artifact.Secondary != nil {
		pred.Secondary = c.secondaryOpinion(x, pred.Label)
	}
	return pred, nil
}

// secondaryOpinion runs the single-tree second model on the same encoded
// row. Degenerate leaf distributions fall back to confidence 1.0 rather
// than failing the primary prediction.
func (c *Classifier) secondaryOpinion(x []float64, primary domain.RiskLevel) *domain.SecondaryOpinion {
	proba := c.artifact.Secondary.Proba(x)
	idx, ok := argmax(proba)
	if !ok {
		return nil
	}
	confidence := proba[idx]
	if confidence == 0 {
		confidence = 1.0
	}
	label := domain.RiskLevel(c.artifact.Classes[idx])
	return &domain.SecondaryOpinion{
		Label:      label,
		Confidence: confidence,
		Agreement:  domain.LabelsAgree(label, primary),
	}
}

func argmax(xs []float64) (int, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	best := 0
	for i, v := range xs {
		if v > xs[best] {
			best = i
		}
	}
	return best, true
}
