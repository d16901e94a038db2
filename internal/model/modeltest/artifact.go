// Package modeltest provides a small deterministic classifier artifact
// used by tests and by cmd/genartifacts for local development. The forest
// hand-encodes the training heuristic (heavy rain, frequent flooding,
// low elevation, and river proximity push risk up) so predictions are
// plausible without a real training run.
package modeltest

import "github.com/couchcryptid/land-risk-service/internal/model"

// Encoded column layout: five soil one-hots, three elevation one-hots
// (level-sorted, sklearn style), then standardized flood_frequency,
// rainfall_intensity, distance_from_river.
const (
	colFloodFrequency    = 8
	colRainfallIntensity = 9
	colDistanceFromRiver = 10

	colSoilClay     = 0
	colElevationLow = 6
)

// Standardization parameters mirror the synthetic training distribution.
const (
	floodMean  = 2.0
	floodScale = 1.5
	rainMean   = 80.0
	rainScale  = 30.0
	distMean   = 2.0
	distScale  = 2.5
)

// Artifact returns a fresh copy of the fixture artifact.
func Artifact() *model.Artifact {
	return &model.Artifact{
		Encoder: EncoderSpec(),
		Classes: []string{"High", "Low", "Medium"},
		Forest: model.Forest{
			Trees: []model.Tree{rainTree(), floodTree(), distanceTree()},
		},
		Importances: []float64{
			0.02, 0.01, 0.01, 0.02, 0.01, // soil one-hots
			0.05, 0.10, 0.03, // elevation one-hots
			0.20, 0.35, 0.20, // flood, rainfall, distance
		},
		Secondary: secondaryTree(),
	}
}

// EncoderSpec returns the fixture's preprocessing spec.
func EncoderSpec() model.EncoderSpec {
	return model.EncoderSpec{
		Categorical: []model.CategoricalColumn{
			{Feature: "soil_type", Levels: []string{"clay", "loam", "sand", "sandy", "silt"}},
			{Feature: "elevation_category", Levels: []string{"high", "low", "mid"}},
		},
		Numeric: []model.NumericColumn{
			{Feature: "flood_frequency", Mean: floodMean, Scale: floodScale},
			{Feature: "rainfall_intensity", Mean: rainMean, Scale: rainScale},
			{Feature: "distance_from_river", Mean: distMean, Scale: distScale},
		},
	}
}

// std converts a raw value to the standardized split threshold.
func std(raw, mean, scale float64) float64 { return (raw - mean) / scale }

// depth-2 tree shape: root, two internal nodes, four leaves.
func tree(rootCol int, rootThr float64, leftCol int, leftThr float64, rightCol int, rightThr float64, leaves [4][3]float64) model.Tree {
	sum := func(a, b [3]float64) []float64 {
		return []float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
	}
	root := sum([3]float64{leaves[0][0] + leaves[1][0], leaves[0][1] + leaves[1][1], leaves[0][2] + leaves[1][2]},
		[3]float64{leaves[2][0] + leaves[3][0], leaves[2][1] + leaves[3][1], leaves[2][2] + leaves[3][2]})
	return model.Tree{
		Feature:   []int{rootCol, leftCol, rightCol, -1, -1, -1, -1},
		Threshold: []float64{rootThr, leftThr, rightThr, 0, 0, 0, 0},
		Left:      []int{1, 3, 5, -1, -1, -1, -1},
		Right:     []int{2, 4, 6, -1, -1, -1, -1},
		Value: [][]float64{
			root,
			sum(leaves[0], leaves[1]),
			sum(leaves[2], leaves[3]),
			{leaves[0][0], leaves[0][1], leaves[0][2]},
			{leaves[1][0], leaves[1][1], leaves[1][2]},
			{leaves[2][0], leaves[2][1], leaves[2][2]},
			{leaves[3][0], leaves[3][1], leaves[3][2]},
		},
	}
}

// Leaf class counts are [High, Low, Medium].

func rainTree() model.Tree {
	return tree(
		colRainfallIntensity, std(100, rainMean, rainScale),
		colFloodFrequency, std(3, floodMean, floodScale),
		colDistanceFromRiver, std(1.0, distMean, distScale),
		[4][3]float64{
			{5, 60, 35},  // light rain, few floods
			{15, 25, 60}, // light rain, frequent floods
			{70, 5, 25},  // heavy rain, close to river
			{35, 20, 45}, // heavy rain, far from river
		},
	)
}

func floodTree() model.Tree {
	return tree(
		colFloodFrequency, std(3, floodMean, floodScale),
		colElevationLow, 0.5,
		colRainfallIntensity, std(100, rainMean, rainScale),
		[4][3]float64{
			{5, 55, 40},  // few floods, not low-lying
			{20, 30, 50}, // few floods, low-lying
			{25, 25, 50}, // frequent floods, light rain
			{75, 5, 20},  // frequent floods, heavy rain
		},
	)
}

func distanceTree() model.Tree {
	return tree(
		colDistanceFromRiver, std(1.0, distMean, distScale),
		colSoilClay, 0.5,
		colRainfallIntensity, std(120, rainMean, rainScale),
		[4][3]float64{
			{40, 15, 45}, // close to river, not clay
			{65, 10, 25}, // close to river, clay
			{10, 50, 40}, // far from river, light rain
			{45, 15, 40}, // far from river, very heavy rain
		},
	)
}

func secondaryTree() *model.Tree {
	t := tree(
		colRainfallIntensity, std(120, rainMean, rainScale),
		colFloodFrequency, std(3, floodMean, floodScale),
		colDistanceFromRiver, std(1.5, distMean, distScale),
		[4][3]float64{
			{5, 60, 35},
			{25, 20, 55},
			{80, 5, 15},
			{40, 15, 45},
		},
	)
	return &t
}
