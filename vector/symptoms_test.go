package vector

import "testing"

func testVocabulary() *Vocabulary {
	return NewVocabulary([]string{
		"itching", "skin_rash", "continuous_sneezing", "chills",
		"joint_pain", "stomach_pain", "vomiting", "fatigue",
	})
}

func TestVectorizeSymptoms(t *testing.T) {
	vocab := testVocabulary()

	vec, unmatched := vocab.Vectorize([]string{"chills", "vomiting"})
	if len(vec) != vocab.Len() {
		t.Fatalf("expected length %d, got %d", vocab.Len(), len(vec))
	}
	if len(unmatched) != 0 {
		t.Fatalf("unexpected unmatched symptoms: %v", unmatched)
	}
	if vec[3] != 1 || vec[6] != 1 {
		t.Fatalf("expected slots 3 and 6 set: %v", vec)
	}

	var sum float64
	for _, v := range vec {
		sum += v
	}
	if sum != 2 {
		t.Fatalf("expected exactly 2 slots set, got %v", sum)
	}
}

func TestVectorizeSymptomsEmptyList(t *testing.T) {
	vocab := testVocabulary()

	vec, unmatched := vocab.Vectorize(nil)
	if len(vec) != vocab.Len() {
		t.Fatalf("expected length %d, got %d", vocab.Len(), len(vec))
	}
	if len(unmatched) != 0 {
		t.Fatalf("unexpected unmatched symptoms: %v", unmatched)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("slot %d not zero for empty input", i)
		}
	}
}

func TestVectorizeSymptomsUnknownTolerated(t *testing.T) {
	vocab := testVocabulary()

	withUnknown, unmatched := vocab.Vectorize([]string{"fatigue", "glowing_aura"})
	if len(unmatched) != 1 || unmatched[0] != "glowing_aura" {
		t.Fatalf("expected glowing_aura unmatched, got %v", unmatched)
	}

	validOnly, _ := vocab.Vectorize([]string{"fatigue"})
	for i := range withUnknown {
		if withUnknown[i] != validOnly[i] {
			t.Fatalf("slot %d differs: unknown symptom changed the vector", i)
		}
	}
}

func TestVectorizeSymptomsCaseFold(t *testing.T) {
	vocab := testVocabulary()

	vec, unmatched := vocab.Vectorize([]string{"ITCHING", "  Joint_Pain "})
	if len(unmatched) != 0 {
		t.Fatalf("case-folded matches missed: %v", unmatched)
	}
	if vec[0] != 1 || vec[4] != 1 {
		t.Fatalf("expected slots 0 and 4 set: %v", vec)
	}
}

func TestVocabularyTermsCopy(t *testing.T) {
	vocab := testVocabulary()

	terms := vocab.Terms()
	terms[0] = "mutated"
	if vocab.Terms()[0] != "itching" {
		t.Fatal("Terms must return a copy")
	}
}
