package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"medpredict/vector"
)

// Artifact is the serialized form of one trained disease model: the classifier
// parameters plus the feature schema (or symptom vocabulary) it was trained
// against. Produced once by cmd/train, loaded read-only by the server.
type Artifact struct {
	Disease    string         `json:"disease"`
	ModelType  string         `json:"model_type"`
	Fields     []vector.Field `json:"features,omitempty"`
	Vocabulary []string       `json:"symptom_vocabulary,omitempty"`
	Logistic   *Logistic      `json:"logistic,omitempty"`
	Forest     *Forest        `json:"forest,omitempty"`
	TrainedAt  time.Time      `json:"trained_at,omitempty"`
}

// LoadedModel is a validated, immutable artifact ready to serve. Exactly one
// of Schema/Vocab is populated: tabular models carry a schema, the symptom
// model carries a vocabulary.
type LoadedModel struct {
	Disease string
	Schema  vector.Schema
	Vocab   *vector.Vocabulary
	model   Model
}

// Score delegates to the underlying classifier.
func (m *LoadedModel) Score(features []float64) (float64, error) {
	return m.model.Score(features)
}

// ExpectedDim returns the input dimensionality the model was trained on.
func (m *LoadedModel) ExpectedDim() int {
	return m.model.Dim()
}

// Symptomatic reports whether the model takes free-text symptoms rather than
// tabular fields.
func (m *LoadedModel) Symptomatic() bool {
	return m.Vocab != nil
}

// Build validates the artifact and wires it into a servable model. The model's
// dimensionality is checked against the embedded schema or vocabulary here,
// at load time, so schema drift fails the deployment instead of the first
// prediction.
func (a *Artifact) Build() (*LoadedModel, error) {
	if a.Disease == "" {
		return nil, fmt.Errorf("%w: artifact has no disease name", ErrArtifactLoad)
	}

	var model Model
	switch a.ModelType {
	case "logistic":
		if a.Logistic == nil {
			return nil, fmt.Errorf("%w: %s declares logistic but carries no parameters", ErrArtifactLoad, a.Disease)
		}
		model = a.Logistic
	case "forest":
		if a.Forest == nil {
			return nil, fmt.Errorf("%w: %s declares forest but carries no trees", ErrArtifactLoad, a.Disease)
		}
		model = a.Forest
	default:
		return nil, fmt.Errorf("%w: %s has unsupported model type %q", ErrArtifactLoad, a.Disease, a.ModelType)
	}

	loaded := &LoadedModel{Disease: a.Disease, model: model}

	var expected int
	switch {
	case len(a.Vocabulary) > 0 && len(a.Fields) > 0:
		return nil, fmt.Errorf("%w: %s carries both a schema and a vocabulary", ErrArtifactLoad, a.Disease)
	case len(a.Vocabulary) > 0:
		loaded.Vocab = vector.NewVocabulary(a.Vocabulary)
		expected = loaded.Vocab.Len()
	case len(a.Fields) > 0:
		loaded.Schema = vector.Schema{Disease: a.Disease, Fields: a.Fields}
		expected = loaded.Schema.Len()
	default:
		return nil, fmt.Errorf("%w: %s carries neither a schema nor a vocabulary", ErrArtifactLoad, a.Disease)
	}

	if model.Dim() != expected {
		return nil, fmt.Errorf("%w: %s model expects %d features but schema declares %d",
			ErrArtifactLoad, a.Disease, model.Dim(), expected)
	}
	return loaded, nil
}

// Save writes the artifact as JSON.
func (a *Artifact) Save(path string) error {
	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// LoadArtifact reads, decodes and validates one artifact file.
func LoadArtifact(path string) (*LoadedModel, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactLoad, err)
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactLoad, path, err)
	}
	return artifact.Build()
}
