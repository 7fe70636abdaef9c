package model

import "fmt"

// ForestParams holds an ensemble of probability trees.
type ForestParams struct {
	Trees []Tree `json:"trees"`
}

// Tree is a flat node list rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is either a split (Feature/Threshold/Left/Right) or a leaf (Leaf set).
// A split routes x[Feature] <= Threshold to Left and everything else to Right.
type Node struct {
	Feature   string   `json:"feature,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Left      int      `json:"left,omitempty"`
	Right     int      `json:"right,omitempty"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

// Forest averages the leaf probabilities of its trees.
type Forest struct {
	base
	trees []Tree
}

var (
	_ Model        = (*Forest)(nil)
	_ TreeEnsemble = (*Forest)(nil)
)

func newForest(b base, p ForestParams) (*Forest, error) {
	known := make(map[string]bool, len(b.features))
	for _, f := range b.features {
		known[f] = true
	}
	for t, tree := range p.Trees {
		if err := validateTree(tree, known); err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
	}
	return &Forest{base: b, trees: p.Trees}, nil
}

// validateTree checks that every path terminates in a leaf. Children must
// point forward, which rules out cycles.
func validateTree(tree Tree, known map[string]bool) error {
	if len(tree.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range tree.Nodes {
		if n.Leaf != nil {
			if *n.Leaf < 0 || *n.Leaf > 1 {
				return fmt.Errorf("node %d: leaf probability %v outside [0,1]", i, *n.Leaf)
			}
			continue
		}
		if !known[n.Feature] {
			return fmt.Errorf("node %d: unknown feature %q", i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(tree.Nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, child)
			}
		}
	}
	return nil
}

func (t Tree) score(rec map[string]float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		if rec[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (m *Forest) PredictProba(batch []map[string]float64) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, rec := range batch {
		if _, err := m.vector(rec, i); err != nil {
			return nil, err
		}
		var sum float64
		for _, t := range m.trees {
			sum += t.score(rec)
		}
		out[i] = sum / float64(len(m.trees))
	}
	return out, nil
}

func (m *Forest) Predict(batch []map[string]float64) ([]int, error) {
	probs, err := m.PredictProba(batch)
	if err != nil {
		return nil, err
	}
	return m.labels(probs), nil
}

// SplitCounts returns how many split nodes use each feature across all trees.
func (m *Forest) SplitCounts() map[string]int {
	counts := make(map[string]int, len(m.features))
	for _, f := range m.features {
		counts[f] = 0
	}
	for _, t := range m.trees {
		for _, n := range t.Nodes {
			if n.Leaf == nil {
				counts[n.Feature]++
			}
		}
	}
	return counts
}
