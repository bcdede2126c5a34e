package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// TreeNode is one node of a serialized decision tree. Trees are stored as a
// flat node array; children are indexes into that array.
type TreeNode struct {
	FeatureIdx  int     `json:"feature_idx"`
	Threshold   float64 `json:"threshold"`
	LeftChild   int     `json:"left_child"`
	RightChild  int     `json:"right_child"`
	Probability float64 `json:"probability"`
	IsLeaf      bool    `json:"is_leaf"`
}

// Forest averages the positive-class probability over a set of trees.
// A single-tree forest is a plain decision tree.
type Forest struct {
	NumFeatures int          `json:"num_features"`
	Trees       [][]TreeNode `json:"trees"`
}

func (f *Forest) Dim() int {
	return f.NumFeatures
}

func (f *Forest) Score(features []float64) (float64, error) {
	if len(features) != f.NumFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrDimensionMismatch, len(features), f.NumFeatures)
	}
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("%w: forest has no trees", ErrInference)
	}

	var sum float64
	for _, tree := range f.Trees {
		p, err := walkTree(tree, features)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return sum / float64(len(f.Trees)), nil
}

func walkTree(nodes []TreeNode, features []float64) (float64, error) {
	if len(nodes) == 0 {
		return 0, fmt.Errorf("%w: empty tree", ErrInference)
	}
	idx := 0
	for {
		node := nodes[idx]
		if node.IsLeaf {
			return node.Probability, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, fmt.Errorf("%w: feature index out of range", ErrInference)
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return 0, fmt.Errorf("%w: invalid tree state", ErrInference)
		}
	}
}

// FitForest trains a bootstrap-aggregated forest over binary labels.
// Deterministic for a fixed seed.
func FitForest(features [][]float64, labels []int, numTrees, maxDepth int, seed int64) (*Forest, error) {
	if len(features) == 0 || len(features) != len(labels) {
		return nil, fmt.Errorf("features and labels size mismatch")
	}
	if numTrees <= 0 {
		numTrees = 10
	}
	if maxDepth <= 0 {
		maxDepth = 5
	}

	rng := rand.New(rand.NewSource(seed))
	forest := &Forest{NumFeatures: len(features[0])}
	for t := 0; t < numTrees; t++ {
		sampleX := make([][]float64, len(features))
		sampleY := make([]int, len(labels))
		for i := range features {
			j := rng.Intn(len(features))
			sampleX[i] = features[j]
			sampleY[i] = labels[j]
		}
		forest.Trees = append(forest.Trees, buildTree(sampleX, sampleY, 0, maxDepth))
	}
	return forest, nil
}

func buildTree(features [][]float64, labels []int, depth, maxDepth int) []TreeNode {
	leaf := []TreeNode{{
		FeatureIdx:  -1,
		LeftChild:   -1,
		RightChild:  -1,
		Probability: positiveFraction(labels),
		IsLeaf:      true,
	}}
	if depth >= maxDepth || isPure(labels) {
		return leaf
	}

	bestFeature, threshold, ok := findBestSplit(features, labels)
	if !ok {
		return leaf
	}

	leftX, leftY, rightX, rightY := splitData(features, labels, bestFeature, threshold)
	if len(leftY) == 0 || len(rightY) == 0 {
		return leaf
	}

	leftNodes := buildTree(leftX, leftY, depth+1, maxDepth)
	rightNodes := buildTree(rightX, rightY, depth+1, maxDepth)

	root := TreeNode{
		FeatureIdx: bestFeature,
		Threshold:  threshold,
		LeftChild:  1,
		RightChild: 1 + len(leftNodes),
	}

	nodes := make([]TreeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, root)
	nodes = append(nodes, offsetChildren(leftNodes, 1)...)
	nodes = append(nodes, offsetChildren(rightNodes, 1+len(leftNodes))...)
	return nodes
}

func offsetChildren(nodes []TreeNode, offset int) []TreeNode {
	out := make([]TreeNode, len(nodes))
	for i, n := range nodes {
		if !n.IsLeaf {
			n.LeftChild += offset
			n.RightChild += offset
		}
		out[i] = n
	}
	return out
}

func findBestSplit(features [][]float64, labels []int) (int, float64, bool) {
	featureCount := len(features[0])
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64

	for featureIdx := 0; featureIdx < featureCount; featureIdx++ {
		values := make([]float64, len(features))
		for i := range features {
			values[i] = features[i][featureIdx]
		}
		threshold := median(values)
		leftLabels, rightLabels := splitLabels(features, labels, featureIdx, threshold)
		if len(leftLabels) == 0 || len(rightLabels) == 0 {
			continue
		}
		impurity := weightedGini(leftLabels, rightLabels)
		if impurity < bestImpurity {
			bestImpurity = impurity
			bestFeature = featureIdx
			bestThreshold = threshold
		}
	}
	if bestFeature == -1 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

func splitData(features [][]float64, labels []int, featureIdx int, threshold float64) ([][]float64, []int, [][]float64, []int) {
	var leftX, rightX [][]float64
	var leftY, rightY []int
	for i, row := range features {
		if row[featureIdx] <= threshold {
			leftX = append(leftX, row)
			leftY = append(leftY, labels[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, labels[i])
		}
	}
	return leftX, leftY, rightX, rightY
}

func splitLabels(features [][]float64, labels []int, featureIdx int, threshold float64) ([]int, []int) {
	var left, right []int
	for i, row := range features {
		if row[featureIdx] <= threshold {
			left = append(left, labels[i])
		} else {
			right = append(right, labels[i])
		}
	}
	return left, right
}

func weightedGini(left, right []int) float64 {
	lw := float64(len(left))
	rw := float64(len(right))
	total := lw + rw
	return (lw/total)*gini(left) + (rw/total)*gini(right)
}

func gini(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, label := range labels {
		counts[label]++
	}
	impurity := 1.0
	for _, count := range counts {
		prob := float64(count) / float64(len(labels))
		impurity -= prob * prob
	}
	return impurity
}

func positiveFraction(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	var positive int
	for _, label := range labels {
		if label == 1 {
			positive++
		}
	}
	return float64(positive) / float64(len(labels))
}

func isPure(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, label := range labels[1:] {
		if label != first {
			return false
		}
	}
	return true
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
