package ml

import "errors"

// TrainConfig holds logistic regression hyperparameters.
type TrainConfig struct {
	Epochs       int
	LearningRate float64
	BatchSize    int
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:       200,
		LearningRate: 0.05,
		BatchSize:    32,
	}
}

// TrainLogistic runs mini-batch SGD over binary labels.
// Gradients: dL/dw_i = (p-y)·x_i, dL/db = (p-y).
func TrainLogistic(features [][]float64, labels []int, cfg TrainConfig) (*Logistic, error) {
	if len(features) == 0 {
		return nil, errors.New("features is empty")
	}
	if len(features) != len(labels) {
		return nil, errors.New("features and labels size mismatch")
	}
	if cfg.Epochs <= 0 || cfg.LearningRate <= 0 || cfg.BatchSize <= 0 {
		cfg = DefaultTrainConfig()
	}

	model := &Logistic{Weights: make([]float64, len(features[0]))}
	n := len(features)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for start := 0; start < n; start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > n {
				end = n
			}

			dw := make([]float64, len(model.Weights))
			db := 0.0
			for i := start; i < end; i++ {
				p, err := model.Score(features[i])
				if err != nil {
					return nil, err
				}
				diff := p - float64(labels[i])
				for j, xj := range features[i] {
					dw[j] += diff * xj
				}
				db += diff
			}

			batchLen := float64(end - start)
			for j := range model.Weights {
				model.Weights[j] -= cfg.LearningRate * (dw[j] / batchLen)
			}
			model.Intercept -= cfg.LearningRate * (db / batchLen)
		}
	}
	return model, nil
}

// Evaluate computes accuracy, precision and recall of a model over a test set,
// thresholding the probability at 0.5.
func Evaluate(model Model, testX [][]float64, testY []int) (accuracy, precision, recall float64) {
	if len(testX) == 0 {
		return 0, 0, 0
	}

	var correct, truePositive, predictedPositive, actualPositive int
	for i, features := range testX {
		p, err := model.Score(features)
		if err != nil {
			continue
		}
		predicted := 0
		if p >= 0.5 {
			predicted = 1
		}
		if predicted == testY[i] {
			correct++
		}
		if predicted == 1 {
			predictedPositive++
			if testY[i] == 1 {
				truePositive++
			}
		}
		if testY[i] == 1 {
			actualPositive++
		}
	}

	accuracy = float64(correct) / float64(len(testX))
	if predictedPositive > 0 {
		precision = float64(truePositive) / float64(predictedPositive)
	}
	if actualPositive > 0 {
		recall = float64(truePositive) / float64(actualPositive)
	}
	return accuracy, precision, recall
}
