package model

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/couchcryptid/land-risk-service/internal/domain"
)

// Attribution tier names, in cascade order. Surfaced in metrics and audit
// events so operators can see which tier served a request.
const (
	TierTreePath    = "tree-path"
	TierPermutation = "permutation"
	TierBuiltin     = "builtin"
	TierNone        = "none"
)

// Permutation sensitivity signal weights: prediction flips dominate, with
// confidence and entropy shifts as secondary signals.
const (
	permWeightFlip       = 0.70
	permWeightConfidence = 0.15
	permWeightEntropy    = 0.15
	permDraws            = 8
	entropyEpsilon       = 1e-9
)

// AttributionResult is a normalized attribution map over original feature
// names plus the cascade tier that produced it. Weights is empty (and Tier
// is TierNone) when every tier failed.
type AttributionResult struct {
	Weights domain.AttributionMap
	Tier    string
}

// attributionStrategy computes per-encoded-column weights for one row, or
// reports why it cannot. Strategies are pure given the classifier and row.
type attributionStrategy struct {
	tier string
	fn   func(c *Classifier, x []float64) ([]float64, error)
}

// The cascade: exact decision-path attribution, then permutation
// sensitivity, then the ensemble's static built-in importances.
var strategies = []attributionStrategy{
	{tier: TierTreePath, fn: (*Classifier).treePathWeights},
	{tier: TierPermutation, fn: (*Classifier).permutationWeights},
	{tier: TierBuiltin, fn: (*Classifier).builtinWeights},
}

// Attribute explains a single prediction by trying each cascade tier in
// order and collapsing the first successful tier's per-column weights onto
// original feature names. Total cascade failure yields an empty map, never
// an error: attribution is best-effort decoration of a prediction.
func (c *Classifier) Attribute(fv domain.FeatureVector) AttributionResult {
	x := c.encoder.Encode(fv)
	for _, s := range strategies {
		colWeights, err := s.fn(c, x)
		if err != nil {
			continue
		}
		collapsed := c.encoder.Collapse(colWeights)
		if len(collapsed) == 0 {
			continue
		}
		return AttributionResult{Weights: collapsed, Tier: s.tier}
	}
	return AttributionResult{Weights: domain.AttributionMap{}, Tier: TierNone}
}

// treePathWeights computes exact additive attribution for the predicted
// class: each column's absolute summed probability change along the
// ensemble's decision paths.
func (c *Classifier) treePathWeights(x []float64) ([]float64, error) {
	proba := c.artifact.Forest.Proba(x)
	class, ok := argmax(proba)
	if !ok || proba[class] == 0 {
		return nil, fmt.Errorf("no probability output for decision-path attribution")
	}
	contrib := c.artifact.Forest.Contributions(x, class, c.encoder.NumColumns())
	weights := make([]float64, len(contrib))
	total := 0.0
	for i, v := range contrib {
		weights[i] = math.Abs(v)
		total += weights[i]
	}
	if total < domain.WeightTolerance {
		return nil, fmt.Errorf("decision-path contributions are negligible")
	}
	return weights, nil
}

// permutationWeights measures, per column, how much perturbing that column
// alone moves the classifier: whether the point prediction flips, how much
// the top-class confidence shifts, and how much the prediction entropy
// shifts. The RNG is seeded from the row itself, so identical inputs
// produce identical weights.
func (c *Classifier) permutationWeights(x []float64) ([]float64, error) {
	baseProba := c.artifact.Forest.Proba(x)
	baseClass, ok := argmax(baseProba)
	if !ok {
		return nil, fmt.Errorf("no probability output for permutation attribution")
	}
	baseConf := baseProba[baseClass]
	baseEntropy := entropy(baseProba)

	rng := rand.New(rand.NewSource(rowSeed(x)))
	cols := c.encoder.Columns()
	weights := make([]float64, len(cols))
	total := 0.0

	perturbed := make([]float64, len(x))
	for j, col := range cols {
		var flips, confDelta, entropyDelta float64
		draws := permDraws
		if col.Categorical {
			// Indicators have exactly one informative perturbation.
			draws = 1
		}
		for d := 0; d < draws; d++ {
			copy(perturbed, x)
			if col.Categorical {
				perturbed[j] = 1 - x[j]
			} else {
				perturbed[j] = x[j] + rng.NormFloat64()
			}
			proba := c.artifact.Forest.Proba(perturbed)
			class, _ := argmax(proba)
			if class != baseClass {
				flips++
			}
			confDelta += math.Abs(proba[baseClass] - baseConf)
			entropyDelta += math.Abs(entropy(proba) - baseEntropy)
		}
		n := float64(draws)
		weights[j] = permWeightFlip*(flips/n) +
			permWeightConfidence*(confDelta/n) +
			permWeightEntropy*(entropyDelta/n)
		total += weights[j]
	}

	if total < domain.WeightTolerance {
		return nil, fmt.Errorf("permutation sensitivity is negligible")
	}
	return weights, nil
}

// builtinWeights falls back to the ensemble's global per-column importance
// scores from training.
func (c *Classifier) builtinWeights(_ []float64) ([]float64, error) {
	if len(c.artifact.Importances) == 0 {
		return nil, fmt.Errorf("artifact carries no built-in importances")
	}
	weights := make([]float64, len(c.artifact.Importances))
	copy(weights, c.artifact.Importances)
	return weights, nil
}

// entropy computes -Σ p·log(p+ε) over a distribution.
func entropy(proba []float64) float64 {
	h := 0.0
	for _, p := range proba {
		h -= p * math.Log(p+entropyEpsilon)
	}
	return h
}

// rowSeed derives a deterministic RNG seed from the encoded row bytes.
func rowSeed(x []float64) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:]) //nolint:errcheck // fnv never fails
	}
	return int64(h.Sum64())
}
