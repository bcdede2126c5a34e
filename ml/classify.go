package ml

// RiskLevel buckets a positive-class probability. The thresholds are a fixed
// policy applied identically across every disease model, independent of each
// model's own calibration quality.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Result is the uniform prediction response shape.
type Result struct {
	Prediction  bool      `json:"prediction"`
	Probability float64   `json:"probability"`
	RiskLevel   RiskLevel `json:"risk_level"`
}

// Classify applies the probability policy: prediction is positive at 0.5
// inclusive, risk buckets are Low below 0.3, Medium up to 0.7, High from 0.7.
func Classify(probability float64) Result {
	level := RiskLow
	switch {
	case probability >= 0.7:
		level = RiskHigh
	case probability >= 0.3:
		level = RiskMedium
	}
	return Result{
		Prediction:  probability >= 0.5,
		Probability: probability,
		RiskLevel:   level,
	}
}
