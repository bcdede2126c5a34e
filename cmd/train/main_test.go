package main

import (
	"math"
	"testing"
)

func TestSplitDatasetShufflesSortedLabels(t *testing.T) {
	var features [][]float64
	var labels []int
	for i := 0; i < 100; i++ {
		label := 0
		if i >= 50 {
			label = 1
		}
		features = append(features, []float64{float64(i)})
		labels = append(labels, label)
	}

	trainX, trainY, testX, testY := splitDataset(features, labels, 0.3, 42)

	if len(trainX) != 70 || len(testX) != 30 {
		t.Fatalf("expected 70/30 split, got %d/%d", len(trainX), len(testX))
	}
	if len(trainY) != len(trainX) || len(testY) != len(testX) {
		t.Fatalf("feature/label length mismatch")
	}

	for name, ys := range map[string][]int{"train": trainY, "test": testY} {
		counts := map[int]int{}
		for _, y := range ys {
			counts[y]++
		}
		if counts[0] == 0 || counts[1] == 0 {
			t.Fatalf("%s split is single-class: %v", name, counts)
		}
	}
}

func TestSplitDatasetDeterministic(t *testing.T) {
	features := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}, {10}}
	labels := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}

	_, _, firstX, _ := splitDataset(features, labels, 0.2, 7)
	_, _, secondX, _ := splitDataset(features, labels, 0.2, 7)

	if len(firstX) != len(secondX) {
		t.Fatalf("split sizes differ: %d vs %d", len(firstX), len(secondX))
	}
	for i := range firstX {
		if math.Float64bits(firstX[i][0]) != math.Float64bits(secondX[i][0]) {
			t.Fatalf("same seed produced different splits at index %d", i)
		}
	}
}
