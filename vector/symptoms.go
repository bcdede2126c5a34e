package vector

import (
	"strings"

	"golang.org/x/text/cases"
)

// Vocabulary is the fixed set of symptom terms known at training time.
// Terms keep their original casing; matching case-folds both sides.
// Immutable after construction, safe for concurrent readers.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// NewVocabulary builds the lookup index over the training-time term list.
// Duplicate terms after folding keep their first slot.
func NewVocabulary(terms []string) *Vocabulary {
	folder := cases.Fold()
	v := &Vocabulary{
		terms: append([]string(nil), terms...),
		index: make(map[string]int, len(terms)),
	}
	for i, term := range terms {
		key := folder.String(strings.TrimSpace(term))
		if _, dup := v.index[key]; !dup {
			v.index[key] = i
		}
	}
	return v
}

// Len returns the vocabulary size, which is also the vector length.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns a copy of the term list in slot order.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Vectorize maps free-text symptom names onto a one-hot vector over the full
// vocabulary. Unrecognized symptoms are skipped, never an error: vocabularies
// drift between client and training data, and one bad token must not abort a
// well-formed request. The skipped tokens come back for the caller to log.
// The returned vector's length always equals the vocabulary size.
func (v *Vocabulary) Vectorize(symptoms []string) (vec []float64, unmatched []string) {
	vec = make([]float64, len(v.terms))
	folder := cases.Fold()
	for _, symptom := range symptoms {
		key := folder.String(strings.TrimSpace(symptom))
		if key == "" {
			continue
		}
		idx, ok := v.index[key]
		if !ok {
			unmatched = append(unmatched, symptom)
			continue
		}
		vec[idx] = 1
	}
	return vec, unmatched
}
