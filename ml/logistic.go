package ml

import (
	"fmt"
	"math"
)

// Logistic is a binary logistic regression classifier:
// sigmoid( dot(Weights, x) + Intercept ).
type Logistic struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (m *Logistic) Dim() int {
	return len(m.Weights)
}

func (m *Logistic) Score(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrDimensionMismatch, len(features), len(m.Weights))
	}
	z := m.Intercept
	for i, w := range m.Weights {
		z += w * features[i]
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
