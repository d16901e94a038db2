package model

import "fmt"

// Tree is a single decision tree in sklearn-style flat node arrays. Node 0
// is the root; Feature[i] < 0 marks node i as a leaf. Internal nodes route
// left when x[Feature[i]] <= Threshold[i].
type Tree struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"left"`
	Right     []int       `json:"right"`
	Value     [][]float64 `json:"value"` // per-node class sample counts (or probabilities)
}

func (t *Tree) validate(nCols, nClasses int) error {
	n := len(t.Feature)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays disagree on length")
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != nClasses {
			return fmt.Errorf("node %d value has %d classes, want %d", i, len(t.Value[i]), nClasses)
		}
		if t.Feature[i] < 0 {
			continue // leaf
		}
		if t.Feature[i] >= nCols {
			return fmt.Errorf("node %d splits on column %d, encoder declares %d", i, t.Feature[i], nCols)
		}
		if t.Left[i] < 0 || t.Left[i] >= n || t.Right[i] < 0 || t.Right[i] >= n {
			return fmt.Errorf("node %d child out of range", i)
		}
		if t.Left[i] <= i || t.Right[i] <= i {
			return fmt.Errorf("node %d child does not descend", i)
		}
	}
	return nil
}

// leaf walks the tree for row x and returns the leaf node index.
func (t *Tree) leaf(x []float64) int {
	node := 0
	for t.Feature[node] >= 0 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return node
}

// nodeProba normalizes a node's class values into a distribution.
func (t *Tree) nodeProba(node int) []float64 {
	value := t.Value[node]
	total := 0.0
	for _, v := range value {
		total += v
	}
	out := make([]float64, len(value))
	if total == 0 {
		return out
	}
	for i, v := range value {
		out[i] = v / total
	}
	return out
}

// Proba returns the class probability distribution at the leaf row x
// lands in.
func (t *Tree) Proba(x []float64) []float64 {
	return t.nodeProba(t.leaf(x))
}

// PathContributions computes each column's signed contribution to the
// probability of the given class, following the decision path: every split
// is credited with the change in class probability between its node and
// the chosen child. The root probability plus all contributions equals the
// leaf probability exactly.
func (t *Tree) PathContributions(x []float64, class int, nCols int) []float64 {
	contrib := make([]float64, nCols)
	node := 0
	prob := t.nodeProba(node)[class]
	for t.Feature[node] >= 0 {
		col := t.Feature[node]
		var next int
		if x[col] <= t.Threshold[node] {
			next = t.Left[node]
		} else {
			next = t.Right[node]
		}
		nextProb := t.nodeProba(next)[class]
		contrib[col] += nextProb - prob
		prob = nextProb
		node = next
	}
	return contrib
}

// Forest is a bagged ensemble of trees. Probabilities and contributions
// average uniformly over members, matching the exported ensemble.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Proba returns the ensemble class probability distribution for row x.
// It is nil for an empty forest.
func (f *Forest) Proba(x []float64) []float64 {
	if len(f.Trees) == 0 {
		return nil
	}
	var out []float64
	for i := range f.Trees {
		p := f.Trees[i].Proba(x)
		if out == nil {
			out = make([]float64, len(p))
		}
		for j, v := range p {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(f.Trees))
	}
	return out
}

// Contributions averages per-tree decision-path contributions for the
// given class across the ensemble.
func (f *Forest) Contributions(x []float64, class, nCols int) []float64 {
	out := make([]float64, nCols)
	if len(f.Trees) == 0 {
		return out
	}
	for i := range f.Trees {
		for j, v := range f.Trees[i].PathContributions(x, class, nCols) {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(f.Trees))
	}
	return out
}
