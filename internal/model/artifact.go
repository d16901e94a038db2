// Package model loads the exported classifier artifact and runs inference
// and per-prediction attribution over it.
//
// The training collaborator exports its fitted pipeline to a JSON artifact:
// the preprocessing spec (one-hot levels per categorical column, scaler
// mean/stddev per numeric column), the tree ensemble as flat node arrays,
// the class labels, the ensemble's built-in per-column importances, and
// optionally a single secondary decision tree for a second opinion.
package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the on-disk representation of a trained classifier.
type Artifact struct {
	Encoder     EncoderSpec `json:"encoder"`
	Classes     []string    `json:"classes"`
	Forest      Forest      `json:"forest"`
	Importances []float64   `json:"importances,omitempty"` // built-in importance per encoded column
	Secondary   *Tree       `json:"secondary,omitempty"`   // optional single-tree second opinion
}

// EncoderSpec declares how original features expand into encoded columns.
// Column order is categorical one-hots first (in listed order), then
// standardized numerics.
type EncoderSpec struct {
	Categorical []CategoricalColumn `json:"categorical"`
	Numeric     []NumericColumn     `json:"numeric"`
}

// CategoricalColumn one-hot encodes a feature over its training levels.
// Unknown levels at inference time encode as all zeros.
type CategoricalColumn struct {
	Feature string   `json:"feature"`
	Levels  []string `json:"levels"`
}

// NumericColumn standardizes a feature with the training mean and scale.
type NumericColumn struct {
	Feature string  `json:"feature"`
	Mean    float64 `json:"mean"`
	Scale   float64 `json:"scale"`
}

// LoadArtifact reads and validates a classifier artifact from path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &a, nil
}

// Validate checks the artifact's internal consistency: encoder and forest
// agree on column count, trees reference valid columns and class counts,
// and importances (when present) cover every encoded column.
func (a *Artifact) Validate() error {
	if len(a.Classes) < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", len(a.Classes))
	}
	nCols := a.Encoder.numColumns()
	if nCols == 0 {
		return fmt.Errorf("encoder declares no columns")
	}
	for _, c := range a.Encoder.Categorical {
		if c.Feature == "" || len(c.Levels) == 0 {
			return fmt.Errorf("categorical column %q has no levels", c.Feature)
		}
	}
	for _, n := range a.Encoder.Numeric {
		if n.Feature == "" {
			return fmt.Errorf("numeric column missing feature name")
		}
		if n.Scale == 0 {
			return fmt.Errorf("numeric column %q has zero scale", n.Feature)
		}
	}
	if len(a.Forest.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i := range a.Forest.Trees {
		if err := a.Forest.Trees[i].validate(nCols, len(a.Classes)); err != nil {
			return fmt.Errorf("forest tree %d: %w", i, err)
		}
	}
	if a.Secondary != nil {
		if err := a.Secondary.validate(nCols, len(a.Classes)); err != nil {
			return fmt.Errorf("secondary tree: %w", err)
		}
	}
	if len(a.Importances) > 0 && len(a.Importances) != nCols {
		return fmt.Errorf("importances cover %d columns, encoder declares %d", len(a.Importances), nCols)
	}
	return nil
}

func (s EncoderSpec) numColumns() int {
	n := len(s.Numeric)
	for _, c := range s.Categorical {
		n += len(c.Levels)
	}
	return n
}
