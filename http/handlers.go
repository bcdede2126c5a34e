// Package http serves the prediction API.
package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"medpredict/db"
	"medpredict/ml"
	"medpredict/monitoring"
	"medpredict/vector"
)

const maxBodyBytes = 1 << 20

// Models provides the loaded disease models.
type Models interface {
	Get(disease string) (*ml.LoadedModel, bool)
	Diseases() []string
}

// History persists served predictions. May be nil to disable.
type History interface {
	InsertPrediction(db.PredictionRecord) error
	RecentPredictions(limit int) ([]db.PredictionRecord, error)
}

// Publisher broadcasts served predictions. May be nil to disable.
type Publisher interface {
	Publish(monitoring.Event)
}

// PredictHandler drives vectorize -> score -> classify for every disease.
type PredictHandler struct {
	models  Models
	history History
	events  Publisher
	cache   *lru.Cache[string, ml.Result]
	log     *zap.Logger
}

// NewPredictHandler wires the prediction pipeline. A cacheSize of zero
// disables the result cache.
func NewPredictHandler(models Models, history History, events Publisher, cacheSize int, log *zap.Logger) *PredictHandler {
	h := &PredictHandler{
		models:  models,
		history: history,
		events:  events,
		log:     log,
	}
	if cacheSize > 0 {
		// Scoring is a pure function of the payload, so identical request
		// bodies can be answered from cache without touching the model.
		cache, err := lru.New[string, ml.Result](cacheSize)
		if err == nil {
			h.cache = cache
		}
	}
	return h
}

// Register mounts all routes on the mux.
func (h *PredictHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/diseases", h.handleDiseases)
	mux.HandleFunc("GET /api/symptoms", h.handleSymptoms)
	mux.HandleFunc("GET /api/history", h.handleHistory)
	mux.HandleFunc("POST /predict/{disease}", h.handlePredict)
}

func (h *PredictHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func (h *PredictHandler) handleDiseases(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{"diseases": h.models.Diseases()})
}

func (h *PredictHandler) handleSymptoms(w http.ResponseWriter, r *http.Request) {
	model, ok := h.models.Get("general")
	if !ok || !model.Symptomatic() {
		errorJSON(w, http.StatusNotFound, "symptom model not loaded")
		return
	}
	respondJSON(w, map[string]any{"symptoms": model.Vocab.Terms()})
}

func (h *PredictHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		errorJSON(w, http.StatusNotFound, "history not enabled")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	records, err := h.history.RecentPredictions(limit)
	if err != nil {
		h.log.Error("history query failed", zap.Error(err))
		errorJSON(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	respondJSON(w, map[string]any{"predictions": records})
}

func (h *PredictHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	disease := r.PathValue("disease")
	model, ok := h.models.Get(disease)
	if !ok {
		errorJSON(w, http.StatusNotFound, "unknown disease: "+disease)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	cacheKey := cacheKey(disease, body)
	if h.cache != nil {
		if result, ok := h.cache.Get(cacheKey); ok {
			h.record(r, disease, result)
			respondJSON(w, result)
			return
		}
	}

	var vec []float64
	if model.Symptomatic() {
		vec, ok = h.symptomVector(w, r, model, body)
	} else {
		vec, ok = h.tabularVector(w, model, body)
	}
	if !ok {
		return
	}

	probability, err := model.Score(vec)
	if err != nil {
		// Dimensionality mismatch here means the artifact and its schema
		// disagree: a deployment inconsistency, not bad user input.
		h.log.Error("model inference failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("disease", disease),
			zap.Int("vector_len", len(vec)),
			zap.Int("model_dim", model.ExpectedDim()),
			zap.Error(err))
		errorJSON(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	result := ml.Classify(probability)
	if h.cache != nil {
		h.cache.Add(cacheKey, result)
	}
	h.record(r, disease, result)
	respondJSON(w, result)
}

func (h *PredictHandler) tabularVector(w http.ResponseWriter, model *ml.LoadedModel, body []byte) ([]float64, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}

	vec, err := vector.Vectorize(model.Schema, fields)
	if err != nil {
		if errors.Is(err, vector.ErrMissingField) ||
			errors.Is(err, vector.ErrInvalidNumeric) ||
			errors.Is(err, vector.ErrUnknownCategory) {
			errorJSON(w, http.StatusBadRequest, err.Error())
		} else {
			errorJSON(w, http.StatusBadRequest, "invalid request")
		}
		return nil, false
	}
	return vec, true
}

func (h *PredictHandler) symptomVector(w http.ResponseWriter, r *http.Request, model *ml.LoadedModel, body []byte) ([]float64, bool) {
	var req struct {
		Symptoms []string `json:"symptoms"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if len(req.Symptoms) == 0 {
		errorJSON(w, http.StatusBadRequest, "at least one symptom is required")
		return nil, false
	}

	vec, unmatched := model.Vocab.Vectorize(req.Symptoms)
	if len(unmatched) > 0 {
		// Soft condition: unknown symptoms never fail the request.
		h.log.Warn("unmatched symptoms skipped",
			zap.String("request_id", RequestID(r.Context())),
			zap.Strings("symptoms", unmatched))
	}
	return vec, true
}

func (h *PredictHandler) record(r *http.Request, disease string, result ml.Result) {
	requestID := RequestID(r.Context())
	if h.history != nil {
		rec := db.PredictionRecord{
			RequestID:   requestID,
			Disease:     disease,
			Prediction:  result.Prediction,
			Probability: result.Probability,
			RiskLevel:   string(result.RiskLevel),
		}
		if err := h.history.InsertPrediction(rec); err != nil {
			h.log.Error("failed to record prediction", zap.Error(err))
		}
	}
	if h.events != nil {
		h.events.Publish(monitoring.Event{
			Type:        "prediction",
			Disease:     disease,
			Probability: result.Probability,
			RiskLevel:   string(result.RiskLevel),
			RequestID:   requestID,
			Timestamp:   time.Now().UTC(),
		})
	}
}

func cacheKey(disease string, body []byte) string {
	sum := sha256.Sum256(body)
	return disease + ":" + hex.EncodeToString(sum[:])
}

// respondJSON marshals before writing so an encode failure surfaces as a 500
// instead of a 200 with an empty body.
func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.Write(data)
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
