package ml

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		probability float64
		prediction  bool
		level       RiskLevel
	}{
		{0.0, false, RiskLow},
		{0.29999, false, RiskLow},
		{0.3, false, RiskMedium},
		{0.4999, false, RiskMedium},
		{0.5, true, RiskMedium},
		{0.69999, true, RiskMedium},
		{0.7, true, RiskHigh},
		{1.0, true, RiskHigh},
	}

	for _, tt := range tests {
		result := Classify(tt.probability)
		if result.Prediction != tt.prediction {
			t.Errorf("Classify(%v): expected prediction %v, got %v", tt.probability, tt.prediction, result.Prediction)
		}
		if result.RiskLevel != tt.level {
			t.Errorf("Classify(%v): expected %s, got %s", tt.probability, tt.level, result.RiskLevel)
		}
		if result.Probability != tt.probability {
			t.Errorf("Classify(%v): probability changed to %v", tt.probability, result.Probability)
		}
	}
}
