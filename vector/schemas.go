package vector

// Canonical schemas for the tabular disease models. Field order mirrors the
// column order the serialized models were trained on and must not change.

var yesNo = map[string]int{"no": 0, "yes": 1}

var builtin = []Schema{
	{
		Disease: "diabetes",
		Fields: []Field{
			{Name: "Pregnancies", Kind: KindNumeric},
			{Name: "Glucose", Kind: KindNumeric},
			{Name: "BloodPressure", Kind: KindNumeric},
			{Name: "SkinThickness", Kind: KindNumeric},
			{Name: "Insulin", Kind: KindNumeric},
			{Name: "BMI", Kind: KindNumeric},
			{Name: "DiabetesPedigreeFunction", Kind: KindNumeric},
			{Name: "Age", Kind: KindNumeric},
		},
	},
	{
		Disease: "heart",
		Fields: []Field{
			{Name: "age", Kind: KindNumeric},
			{Name: "sex", Kind: KindBinary},
			{Name: "cp", Kind: KindNumeric},
			{Name: "trestbps", Kind: KindNumeric},
			{Name: "chol", Kind: KindNumeric},
			{Name: "fbs", Kind: KindBinary},
			{Name: "restecg", Kind: KindNumeric},
			{Name: "thalach", Kind: KindNumeric},
			{Name: "exang", Kind: KindBinary},
			{Name: "oldpeak", Kind: KindNumeric},
			{Name: "slope", Kind: KindNumeric},
			{Name: "ca", Kind: KindNumeric},
			{Name: "thal", Kind: KindNumeric},
		},
	},
	{
		Disease: "liver",
		Fields: []Field{
			{Name: "age", Kind: KindNumeric},
			{Name: "gender", Kind: KindCategory, Tokens: map[string]int{"Female": 0, "Male": 1}},
			{Name: "total_bilirubin", Kind: KindNumeric},
			{Name: "direct_bilirubin", Kind: KindNumeric},
			{Name: "alkaline_phosphotase", Kind: KindNumeric},
			{Name: "alamine_aminotransferase", Kind: KindNumeric},
			{Name: "aspartate_aminotransferase", Kind: KindNumeric},
			{Name: "total_proteins", Kind: KindNumeric},
			{Name: "albumin", Kind: KindNumeric},
			{Name: "albumin_globulin_ratio", Kind: KindNumeric},
		},
	},
	{
		Disease: "kidney",
		Fields: []Field{
			{Name: "age", Kind: KindNumeric},
			{Name: "bp", Kind: KindNumeric},
			{Name: "sg", Kind: KindNumeric},
			{Name: "al", Kind: KindNumeric},
			{Name: "su", Kind: KindNumeric},
			{Name: "rbc", Kind: KindCategory, Tokens: map[string]int{"normal": 0, "abnormal": 1}},
			{Name: "pc", Kind: KindCategory, Tokens: map[string]int{"normal": 0, "abnormal": 1}},
			{Name: "pcc", Kind: KindCategory, Tokens: map[string]int{"notpresent": 0, "present": 1}},
			{Name: "ba", Kind: KindCategory, Tokens: map[string]int{"notpresent": 0, "present": 1}},
			{Name: "bgr", Kind: KindNumeric},
			{Name: "bu", Kind: KindNumeric},
			{Name: "sc", Kind: KindNumeric},
			{Name: "sod", Kind: KindNumeric},
			{Name: "pot", Kind: KindNumeric},
			{Name: "hemo", Kind: KindNumeric},
			{Name: "pcv", Kind: KindNumeric},
			{Name: "wc", Kind: KindNumeric},
			{Name: "rc", Kind: KindNumeric},
			{Name: "htn", Kind: KindCategory, Tokens: yesNo},
			{Name: "dm", Kind: KindCategory, Tokens: yesNo},
			{Name: "cad", Kind: KindCategory, Tokens: yesNo},
			{Name: "appet", Kind: KindCategory, Tokens: map[string]int{"good": 0, "poor": 1}},
			{Name: "pe", Kind: KindCategory, Tokens: yesNo},
			{Name: "ane", Kind: KindCategory, Tokens: yesNo},
		},
	},
	{
		Disease: "breast",
		Fields: breastFields(),
	},
	{
		Disease: "lung",
		Fields: lungFields(),
	},
	{
		Disease: "parkinsons",
		Fields: []Field{
			{Name: "fo", Kind: KindNumeric},
			{Name: "fhi", Kind: KindNumeric},
			{Name: "flo", Kind: KindNumeric},
			{Name: "jitter_percent", Kind: KindNumeric},
			{Name: "jitter_abs", Kind: KindNumeric},
			{Name: "rap", Kind: KindNumeric},
			{Name: "ppq", Kind: KindNumeric},
			{Name: "ddp", Kind: KindNumeric},
			{Name: "shimmer", Kind: KindNumeric},
			{Name: "shimmer_db", Kind: KindNumeric},
			{Name: "apq3", Kind: KindNumeric},
			{Name: "apq5", Kind: KindNumeric},
			{Name: "apq", Kind: KindNumeric},
			{Name: "dda", Kind: KindNumeric},
			{Name: "nhr", Kind: KindNumeric},
			{Name: "hnr", Kind: KindNumeric},
			{Name: "rpde", Kind: KindNumeric},
			{Name: "dfa", Kind: KindNumeric},
			{Name: "spread1", Kind: KindNumeric},
			{Name: "spread2", Kind: KindNumeric},
			{Name: "d2", Kind: KindNumeric},
			{Name: "ppe", Kind: KindNumeric},
		},
	},
}

func breastFields() []Field {
	measurements := []string{
		"radius", "texture", "perimeter", "area", "smoothness",
		"compactness", "concavity", "concave_points", "symmetry", "fractal_dimension",
	}
	fields := make([]Field, 0, 30)
	for _, suffix := range []string{"mean", "se", "worst"} {
		for _, m := range measurements {
			fields = append(fields, Field{Name: m + "_" + suffix, Kind: KindNumeric})
		}
	}
	return fields
}

func lungFields() []Field {
	fields := []Field{
		{Name: "gender", Kind: KindCategory, Tokens: map[string]int{"F": 0, "M": 1}},
		{Name: "age", Kind: KindNumeric},
	}
	// Symptom severity columns: 0 no, 1 yes, 2 severe.
	for _, name := range []string{
		"smoking", "yellow_fingers", "anxiety", "peer_pressure", "chronic_disease",
		"fatigue", "allergy", "wheezing", "alcohol_consuming", "coughing",
		"shortness_of_breath", "swallowing_difficulty", "chest_pain",
	} {
		fields = append(fields, Field{Name: name, Kind: KindNumeric})
	}
	return fields
}

// BuiltinSchemas returns the canonical tabular schemas keyed by disease.
func BuiltinSchemas() map[string]Schema {
	schemas := make(map[string]Schema, len(builtin))
	for _, s := range builtin {
		schemas[s.Disease] = s
	}
	return schemas
}

// SchemaFor returns the canonical schema for a disease, if one exists.
func SchemaFor(disease string) (Schema, bool) {
	for _, s := range builtin {
		if s.Disease == disease {
			return s, true
		}
	}
	return Schema{}, false
}
