package domain

import "sort"

// WeightTolerance is the floating tolerance within which a non-empty
// attribution map must sum to 1.
const WeightTolerance = 1e-6

// AttributionMap maps canonical feature names to non-negative importance
// weights. A non-empty map always sums to 1 within WeightTolerance; the
// empty map is the valid "no attribution available" state.
type AttributionMap map[string]float64

// Normalize scales the weights to sum to 1. Maps whose total is numerically
// negligible cannot be normalized and come back empty.
func (m AttributionMap) Normalize() AttributionMap {
	total := 0.0
	for _, w := range m {
		total += w
	}
	if total < WeightTolerance {
		return AttributionMap{}
	}
	out := make(AttributionMap, len(m))
	for k, w := range m {
		out[k] = w / total
	}
	return out
}

// FeatureWeight is one ranked attribution entry.
type FeatureWeight struct {
	Feature string
	Weight  float64
}

// Ranked returns the entries sorted by weight descending. Equal weights
// fall back to canonical feature order, then name, so the ranking is
// deterministic for identical inputs.
func (m AttributionMap) Ranked() []FeatureWeight {
	order := make(map[string]int, len(CanonicalFeatures))
	for i, name := range CanonicalFeatures {
		order[name] = i
	}
	rank := func(name string) int {
		if i, ok := order[name]; ok {
			return i
		}
		return len(CanonicalFeatures)
	}

	out := make([]FeatureWeight, 0, len(m))
	for k, w := range m {
		out = append(out, FeatureWeight{Feature: k, Weight: w})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		ri, rj := rank(out[i].Feature), rank(out[j].Feature)
		if ri != rj {
			return ri < rj
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}
