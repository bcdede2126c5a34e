package vector

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissingField reports a schema field absent from the request.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidNumeric reports a numeric field that could not be parsed.
	ErrInvalidNumeric = errors.New("invalid numeric value")
	// ErrUnknownCategory reports a categorical token outside the trained encoding.
	// There is no fallback: an unseen token is a hard error, since the model's
	// training-time encoding must be preserved exactly.
	ErrUnknownCategory = errors.New("unknown category token")
)

// Vectorize converts a decoded request body into a feature vector honoring the
// schema's declared field order. It is a pure function of its inputs: identical
// input always yields an identical vector.
func Vectorize(schema Schema, fields map[string]any) ([]float64, error) {
	vec := make([]float64, len(schema.Fields))
	for i, f := range schema.Fields {
		raw, ok := fields[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.Name)
		}
		switch f.Kind {
		case KindCategory:
			token, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %s expects a string token, got %T", ErrUnknownCategory, f.Name, raw)
			}
			code, ok := f.Tokens[token]
			if !ok {
				return nil, fmt.Errorf("%w: field %s value %q", ErrUnknownCategory, f.Name, token)
			}
			vec[i] = float64(code)
		default:
			v, err := parseNumeric(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s value %v", ErrInvalidNumeric, f.Name, raw)
			}
			vec[i] = v
		}
	}
	return vec, nil
}

// parseNumeric accepts the value types a decoded JSON body can carry.
// Non-finite values are rejected: ParseFloat accepts "NaN" and "Inf" strings,
// and a NaN slot would corrupt every downstream score without ever erroring.
func parseNumeric(raw any) (float64, error) {
	var v float64
	var err error
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		v, err = t.Float64()
	case string:
		v, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %v", v)
	}
	return v, nil
}
