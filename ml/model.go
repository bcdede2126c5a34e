package ml

import "errors"

var (
	// ErrDimensionMismatch reports a feature vector whose length disagrees with
	// the model's trained input dimensionality. This is the structural guard
	// against schema drift between trainer and server: nothing upstream
	// guarantees alignment, so it must be checked here.
	ErrDimensionMismatch = errors.New("feature vector dimension mismatch")

	// ErrInference reports an artifact-level scoring failure.
	ErrInference = errors.New("model inference failed")

	// ErrArtifactLoad reports a serialized model that could not be loaded.
	// Fatal at startup; there is no per-request recovery.
	ErrArtifactLoad = errors.New("model artifact load failed")
)

// Model scores a fixed-length feature vector and returns the positive-class
// probability in [0, 1]. Implementations are read-only after load and safe
// for concurrent use.
type Model interface {
	Score(features []float64) (float64, error)
	Dim() int
}
