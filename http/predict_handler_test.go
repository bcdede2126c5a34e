package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"medpredict/db"
	"medpredict/ml"
	"medpredict/monitoring"
	"medpredict/vector"
)

type fakeModels struct {
	models map[string]*ml.LoadedModel
}

func (f *fakeModels) Get(disease string) (*ml.LoadedModel, bool) {
	m, ok := f.models[disease]
	return m, ok
}

func (f *fakeModels) Diseases() []string {
	names := make([]string, 0, len(f.models))
	for name := range f.models {
		names = append(names, name)
	}
	return names
}

type fakeHistory struct {
	inserted []db.PredictionRecord
}

func (f *fakeHistory) InsertPrediction(rec db.PredictionRecord) error {
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeHistory) RecentPredictions(limit int) ([]db.PredictionRecord, error) {
	return f.inserted, nil
}

type fakePublisher struct {
	events []monitoring.Event
}

func (f *fakePublisher) Publish(e monitoring.Event) {
	f.events = append(f.events, e)
}

func diabetesModel(t *testing.T, weights []float64, intercept float64) *ml.LoadedModel {
	t.Helper()
	schema, _ := vector.SchemaFor("diabetes")
	artifact := &ml.Artifact{
		Disease:   "diabetes",
		ModelType: "logistic",
		Fields:    schema.Fields,
		Logistic:  &ml.Logistic{Weights: weights, Intercept: intercept},
	}
	model, err := artifact.Build()
	if err != nil {
		t.Fatalf("artifact build failed: %v", err)
	}
	return model
}

func generalModel(t *testing.T) *ml.LoadedModel {
	t.Helper()
	vocab := []string{"itching", "chills", "fatigue", "vomiting"}
	artifact := &ml.Artifact{
		Disease:    "general",
		ModelType:  "logistic",
		Vocabulary: vocab,
		Logistic:   &ml.Logistic{Weights: []float64{1, 1, 1, 1}, Intercept: -1},
	}
	model, err := artifact.Build()
	if err != nil {
		t.Fatalf("artifact build failed: %v", err)
	}
	return model
}

func newTestMux(h *PredictHandler) *http.ServeMux {
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

const diabetesBody = `{"Pregnancies":4,"Glucose":130,"BloodPressure":78,"SkinThickness":25,` +
	`"Insulin":120,"BMI":28.5,"DiabetesPedigreeFunction":0.85,"Age":35}`

func TestHandlePredictTabular(t *testing.T) {
	models := &fakeModels{models: map[string]*ml.LoadedModel{
		// Zero weights, intercept 1: probability sigmoid(1) ~ 0.731.
		"diabetes": diabetesModel(t, make([]float64, 8), 1),
	}}
	history := &fakeHistory{}
	events := &fakePublisher{}
	h := NewPredictHandler(models, history, events, 0, zap.NewNop())
	mux := newTestMux(h)

	req := httptest.NewRequest(http.MethodPost, "/predict/diabetes", strings.NewReader(diabetesBody))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result ml.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !result.Prediction {
		t.Fatalf("expected positive prediction: %+v", result)
	}
	if result.RiskLevel != ml.RiskHigh {
		t.Fatalf("expected High risk at sigmoid(1), got %s", result.RiskLevel)
	}
	if len(history.inserted) != 1 || history.inserted[0].Disease != "diabetes" {
		t.Fatalf("prediction not recorded: %+v", history.inserted)
	}
	if len(events.events) != 1 || events.events[0].Type != "prediction" {
		t.Fatalf("prediction not published: %+v", events.events)
	}
}

func TestHandlePredictUnknownDisease(t *testing.T) {
	h := NewPredictHandler(&fakeModels{models: map[string]*ml.LoadedModel{}}, nil, nil, 0, zap.NewNop())
	mux := newTestMux(h)

	req := httptest.NewRequest(http.MethodPost, "/predict/gout", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandlePredictBadInput(t *testing.T) {
	models := &fakeModels{models: map[string]*ml.LoadedModel{
		"diabetes": diabetesModel(t, make([]float64, 8), 0),
	}}
	h := NewPredictHandler(models, nil, nil, 0, zap.NewNop())
	mux := newTestMux(h)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `pregnancies=4`},
		{"missing field", `{"Pregnancies":4}`},
		{"unparsable numeric", strings.Replace(diabetesBody, "28.5", `"heavy"`, 1)},
		{"non-finite numeric", strings.Replace(diabetesBody, "130", `"NaN"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/predict/diabetes", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestHandlePredictUnknownCategory(t *testing.T) {
	schema, _ := vector.SchemaFor("kidney")
	artifact := &ml.Artifact{
		Disease:   "kidney",
		ModelType: "logistic",
		Fields:    schema.Fields,
		Logistic:  &ml.Logistic{Weights: make([]float64, 24)},
	}
	model, err := artifact.Build()
	if err != nil {
		t.Fatal(err)
	}

	h := NewPredictHandler(&fakeModels{models: map[string]*ml.LoadedModel{"kidney": model}}, nil, nil, 0, zap.NewNop())
	mux := newTestMux(h)

	body := `{"age":48,"bp":80,"sg":1.02,"al":1,"su":0,"rbc":"normal","pc":"normal",` +
		`"pcc":"notpresent","ba":"notpresent","bgr":121,"bu":36,"sc":1.2,"sod":135,` +
		`"pot":4.2,"hemo":15.4,"pcv":44,"wc":7800,"rc":5.2,"htn":"yes","dm":"no",` +
		`"cad":"no","appet":"excellent","pe":"no","ane":"no"}`

	req := httptest.NewRequest(http.MethodPost, "/predict/kidney", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "appet") {
		t.Fatalf("error should name the offending field: %s", w.Body.String())
	}
}

func TestHandlePredictSymptoms(t *testing.T) {
	models := &fakeModels{models: map[string]*ml.LoadedModel{"general": generalModel(t)}}
	h := NewPredictHandler(models, nil, nil, 0, zap.NewNop())
	mux := newTestMux(h)

	// One valid symptom plus one the vocabulary has never seen.
	body := `{"symptoms":["chills","glowing_aura"]}`
	req := httptest.NewRequest(http.MethodPost, "/predict/general", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unknown symptom must not fail the request: %d %s", w.Code, w.Body.String())
	}

	var result ml.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	// Same score as a request with only the valid symptom.
	req = httptest.NewRequest(http.MethodPost, "/predict/general", strings.NewReader(`{"symptoms":["chills"]}`))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	var validOnly ml.Result
	if err := json.Unmarshal(w.Body.Bytes(), &validOnly); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if result.Probability != validOnly.Probability {
		t.Fatalf("unknown symptom changed the score: %v vs %v", result.Probability, validOnly.Probability)
	}
}

func TestHandlePredictEmptySymptoms(t *testing.T) {
	models := &fakeModels{models: map[string]*ml.LoadedModel{"general": generalModel(t)}}
	h := NewPredictHandler(models, nil, nil, 0, zap.NewNop())
	mux := newTestMux(h)

	req := httptest.NewRequest(http.MethodPost, "/predict/general", strings.NewReader(`{"symptoms":[]}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty symptom list, got %d", w.Code)
	}
}

func TestHandlePredictCache(t *testing.T) {
	models := &fakeModels{models: map[string]*ml.LoadedModel{
		"diabetes": diabetesModel(t, make([]float64, 8), 1),
	}}
	history := &fakeHistory{}
	h := NewPredictHandler(models, history, nil, 16, zap.NewNop())
	mux := newTestMux(h)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/predict/diabetes", strings.NewReader(diabetesBody))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	// Cache hits still count as served predictions.
	if len(history.inserted) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history.inserted))
	}
	if h.cache.Len() != 1 {
		t.Fatalf("expected 1 cached result, got %d", h.cache.Len())
	}
}

func TestHandleHealthAndDiseases(t *testing.T) {
	models := &fakeModels{models: map[string]*ml.LoadedModel{
		"diabetes": diabetesModel(t, make([]float64, 8), 0),
	}}
	h := NewPredictHandler(models, nil, nil, 0, zap.NewNop())
	mux := newTestMux(h)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/diseases", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "diabetes") {
		t.Fatalf("diseases missing from response: %s", w.Body.String())
	}
}

func TestHandleSymptomsEndpoint(t *testing.T) {
	models := &fakeModels{models: map[string]*ml.LoadedModel{"general": generalModel(t)}}
	h := NewPredictHandler(models, nil, nil, 0, zap.NewNop())
	mux := newTestMux(h)

	req := httptest.NewRequest(http.MethodGet, "/api/symptoms", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "chills") {
		t.Fatalf("vocabulary missing from response: %s", w.Body.String())
	}
}
