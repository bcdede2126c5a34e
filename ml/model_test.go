package ml

import (
	"errors"
	"math"
	"testing"
)

func TestLogisticScore(t *testing.T) {
	model := &Logistic{Weights: []float64{1, -1}, Intercept: 0}

	p, err := model.Score([]float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p-0.5) > 1e-12 {
		t.Fatalf("expected 0.5 at the decision boundary, got %v", p)
	}

	p, err = model.Score([]float64{10, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p < 0.99 {
		t.Fatalf("expected strongly positive score, got %v", p)
	}
}

func TestLogisticDimensionGuard(t *testing.T) {
	model := &Logistic{Weights: make([]float64, 8)}

	_, err := model.Score(make([]float64, 7))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestForestScore(t *testing.T) {
	forest := &Forest{
		NumFeatures: 2,
		Trees: [][]TreeNode{
			{
				{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
				{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Probability: 0.2, IsLeaf: true},
				{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Probability: 0.8, IsLeaf: true},
			},
			{
				{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Probability: 0.6, IsLeaf: true},
			},
		},
	}

	p, err := forest.Score([]float64{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p-0.7) > 1e-12 {
		t.Fatalf("expected averaged probability 0.7, got %v", p)
	}

	p, err = forest.Score([]float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p-0.4) > 1e-12 {
		t.Fatalf("expected averaged probability 0.4, got %v", p)
	}
}

func TestForestDimensionGuard(t *testing.T) {
	forest := &Forest{
		NumFeatures: 8,
		Trees:       [][]TreeNode{{{FeatureIdx: -1, IsLeaf: true, Probability: 0.5}}},
	}

	_, err := forest.Score(make([]float64, 7))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestFitForestSeparable(t *testing.T) {
	var features [][]float64
	var labels []int
	for i := 0; i < 40; i++ {
		v := float64(i) / 40.0
		features = append(features, []float64{v, 1 - v})
		if v > 0.5 {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}

	forest, err := FitForest(features, labels, 5, 4, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	high, err := forest.Score([]float64{0.9, 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	low, err := forest.Score([]float64{0.1, 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high <= low {
		t.Fatalf("forest did not separate the classes: high=%v low=%v", high, low)
	}
}

func TestTrainLogisticSeparable(t *testing.T) {
	var features [][]float64
	var labels []int
	for i := 0; i < 50; i++ {
		v := float64(i) / 50.0
		features = append(features, []float64{v})
		if v >= 0.5 {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}

	model, err := TrainLogistic(features, labels, TrainConfig{Epochs: 500, LearningRate: 0.5, BatchSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accuracy, _, recall := Evaluate(model, features, labels)
	if accuracy < 0.9 {
		t.Fatalf("expected accuracy above 0.9 on separable data, got %v", accuracy)
	}
	if recall == 0 {
		t.Fatal("expected nonzero recall")
	}
}
