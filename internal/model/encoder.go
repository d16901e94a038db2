package model

import (
	"fmt"

	"github.com/couchcryptid/land-risk-service/internal/domain"
)

// EncodedColumn identifies one column of the encoded model input and the
// original feature it derives from.
type EncodedColumn struct {
	Name        string // e.g. "cat__soil_type_clay", "num__rainfall_intensity"
	Feature     string // canonical feature name
	Categorical bool   // true for one-hot indicator columns
}

// Encoder expands a feature vector into the model's encoded input row:
// one-hot indicators for categoricals followed by standardized numerics.
//
// The encoder is the only component aware of the expansion. It declares an
// explicit column→feature mapping at construction time, and Collapse uses
// that table to aggregate per-column weights back to original features —
// never string pattern matching on column names.
type Encoder struct {
	spec    EncoderSpec
	columns []EncodedColumn
	groups  map[string][]int // feature → encoded column indexes
}

// NewEncoder builds an Encoder from the artifact's spec.
func NewEncoder(spec EncoderSpec) (*Encoder, error) {
	e := &Encoder{
		spec:   spec,
		groups: make(map[string][]int),
	}
	for _, c := range spec.Categorical {
		for _, level := range c.Levels {
			e.groups[c.Feature] = append(e.groups[c.Feature], len(e.columns))
			e.columns = append(e.columns, EncodedColumn{
				Name:        fmt.Sprintf("cat__%s_%s", c.Feature, level),
				Feature:     c.Feature,
				Categorical: true,
			})
		}
	}
	for _, n := range spec.Numeric {
		e.groups[n.Feature] = append(e.groups[n.Feature], len(e.columns))
		e.columns = append(e.columns, EncodedColumn{
			Name:    fmt.Sprintf("num__%s", n.Feature),
			Feature: n.Feature,
		})
	}
	if len(e.columns) == 0 {
		return nil, fmt.Errorf("encoder spec declares no columns")
	}
	return e, nil
}

// Columns returns the encoded columns in model input order.
func (e *Encoder) Columns() []EncodedColumn { return e.columns }

// NumColumns returns the width of an encoded row.
func (e *Encoder) NumColumns() int { return len(e.columns) }

// Encode expands a feature vector into an encoded row. Categorical values
// outside the training levels encode as all-zero indicators.
func (e *Encoder) Encode(fv domain.FeatureVector) []float64 {
	row := make([]float64, 0, len(e.columns))
	for _, c := range e.spec.Categorical {
		value := categoricalValue(fv, c.Feature)
		for _, level := range c.Levels {
			if value == level {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
	}
	for _, n := range e.spec.Numeric {
		row = append(row, (numericValue(fv, n.Feature)-n.Mean)/n.Scale)
	}
	return row
}

// Collapse aggregates per-encoded-column weights into an attribution map
// over original feature names using the declared column mapping, then
// normalizes. A negligible total collapses to the empty map.
func (e *Encoder) Collapse(colWeights []float64) domain.AttributionMap {
	if len(colWeights) != len(e.columns) {
		return domain.AttributionMap{}
	}
	agg := make(domain.AttributionMap, len(e.groups))
	for feature, idxs := range e.groups {
		sum := 0.0
		for _, i := range idxs {
			sum += colWeights[i]
		}
		agg[feature] = sum
	}
	return agg.Normalize()
}

func categoricalValue(fv domain.FeatureVector, feature string) string {
	switch feature {
	case domain.FeatureSoilType:
		return string(fv.SoilType)
	case domain.FeatureElevationCategory:
		return string(fv.ElevationCategory)
	}
	return ""
}

func numericValue(fv domain.FeatureVector, feature string) float64 {
	switch feature {
	case domain.FeatureFloodFrequency:
		return fv.FloodFrequency
	case domain.FeatureRainfallIntensity:
		return fv.RainfallIntensity
	case domain.FeatureDistanceFromRiver:
		return fv.DistanceFromRiver
	}
	return 0
}
