package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"medpredict/dataset"
	"medpredict/ml"
	"medpredict/vector"
)

func main() {
	disease := flag.String("disease", "", "disease to train (diabetes, heart, liver, kidney, breast, lung, parkinsons, general)")
	dataPath := flag.String("data", "", "training CSV path")
	labelCol := flag.String("label", "Outcome", "label column name")
	positive := flag.String("positive", "1", "label value treated as positive")
	outPath := flag.String("out", "", "artifact output path (default models/<disease>.json)")
	modelType := flag.String("model", "logistic", "model type: logistic or forest")
	epochs := flag.Int("epochs", 200, "SGD epochs (logistic)")
	learningRate := flag.Float64("lr", 0.05, "learning rate (logistic)")
	batchSize := flag.Int("batch", 32, "batch size (logistic)")
	numTrees := flag.Int("trees", 25, "number of trees (forest)")
	maxDepth := flag.Int("max_depth", 6, "max tree depth (forest)")
	testRatio := flag.Float64("test_ratio", 0.2, "test split ratio")
	imputeCols := flag.String("impute", "", "comma-separated columns whose zeros are imputed with the median")
	seed := flag.Int64("seed", 42, "seed for the train/test shuffle and forest bootstrap")
	flag.Parse()

	if *disease == "" || *dataPath == "" {
		log.Fatal("disease and data are required")
	}
	if *outPath == "" {
		*outPath = filepath.Join("models", *disease+".json")
	}

	table, err := dataset.Load(*dataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	cleaner := dataset.NewCleaner()
	if *imputeCols != "" {
		cleaner.ImputeZeros(table, strings.Split(*imputeCols, ","))
	}

	artifact := &ml.Artifact{
		Disease:   *disease,
		ModelType: *modelType,
		TrainedAt: time.Now().UTC(),
	}

	var features [][]float64
	var labels []int
	if *disease == "general" {
		artifact.Vocabulary = vocabularyFrom(table.Columns, *labelCol)
		features, labels, err = symptomRows(table, artifact.Vocabulary, *labelCol, *positive)
	} else {
		schema, ok := vector.SchemaFor(*disease)
		if !ok {
			log.Fatalf("no schema for disease %q", *disease)
		}
		artifact.Fields = schema.Fields
		features, labels, err = tabularRows(table, schema, *labelCol, *positive)
	}
	if err != nil {
		log.Fatalf("failed to build training data: %v", err)
	}

	trainX, trainY, testX, testY := splitDataset(features, labels, *testRatio, *seed)

	var model ml.Model
	switch *modelType {
	case "logistic":
		cfg := ml.TrainConfig{Epochs: *epochs, LearningRate: *learningRate, BatchSize: *batchSize}
		logistic, err := ml.TrainLogistic(trainX, trainY, cfg)
		if err != nil {
			log.Fatalf("training failed: %v", err)
		}
		artifact.Logistic = logistic
		model = logistic
	case "forest":
		forest, err := ml.FitForest(trainX, trainY, *numTrees, *maxDepth, *seed)
		if err != nil {
			log.Fatalf("training failed: %v", err)
		}
		artifact.Forest = forest
		model = forest
	default:
		log.Fatalf("unsupported model type %q", *modelType)
	}

	accuracy, precision, recall := ml.Evaluate(model, testX, testY)
	log.Printf("accuracy=%.2f precision=%.2f recall=%.2f train=%d test=%d",
		accuracy, precision, recall, len(trainX), len(testX))

	// Fail here, not at server startup.
	if _, err := artifact.Build(); err != nil {
		log.Fatalf("artifact failed validation: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("failed to create model dir: %v", err)
	}
	if err := artifact.Save(*outPath); err != nil {
		log.Fatalf("failed to save artifact: %v", err)
	}
	fmt.Printf("model saved to %s\n", *outPath)
}

func vocabularyFrom(columns []string, labelCol string) []string {
	vocab := make([]string, 0, len(columns))
	for _, col := range columns {
		if col != labelCol {
			vocab = append(vocab, col)
		}
	}
	return vocab
}

func symptomRows(table *dataset.Table, vocab []string, labelCol, positive string) ([][]float64, []int, error) {
	var features [][]float64
	var labels []int
	for i, row := range table.Rows {
		vec := make([]float64, len(vocab))
		for j, symptom := range vocab {
			if strings.TrimSpace(row[symptom]) == "1" {
				vec[j] = 1
			}
		}
		label, err := parseLabel(row[labelCol], positive)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		features = append(features, vec)
		labels = append(labels, label)
	}
	return features, labels, nil
}

func tabularRows(table *dataset.Table, schema vector.Schema, labelCol, positive string) ([][]float64, []int, error) {
	var features [][]float64
	var labels []int
	for i, row := range table.Rows {
		fields := make(map[string]any, len(row))
		for col, raw := range row {
			fields[col] = raw
		}
		vec, err := vector.Vectorize(schema, fields)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		label, err := parseLabel(row[labelCol], positive)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		features = append(features, vec)
		labels = append(labels, label)
	}
	return features, labels, nil
}

func parseLabel(raw, positive string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty label")
	}
	if strings.TrimSpace(raw) == positive {
		return 1, nil
	}
	return 0, nil
}

// splitDataset shuffles before splitting so a label-sorted CSV still yields
// both classes on each side of the split.
func splitDataset(features [][]float64, labels []int, testRatio float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}

	perm := rand.New(rand.NewSource(seed)).Perm(len(features))
	split := int(float64(len(features)) * (1 - testRatio))
	for i, j := range perm {
		if i < split {
			trainX = append(trainX, features[j])
			trainY = append(trainY, labels[j])
		} else {
			testX = append(testX, features[j])
			testY = append(testY, labels[j])
		}
	}
	return trainX, trainY, testX, testY
}
