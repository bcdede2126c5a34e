package vector

// FieldKind tags how a raw request value is converted into its vector slot.
type FieldKind string

const (
	// KindNumeric parses the raw value as a float64.
	KindNumeric FieldKind = "numeric"
	// KindBinary parses the raw value as a float64 expected to be 0 or 1.
	// Parsing is identical to KindNumeric; the tag documents the trained column.
	KindBinary FieldKind = "binary"
	// KindCategory looks the raw string token up in the field's token table.
	KindCategory FieldKind = "category"
)

// Field is one column of a trained model's input.
type Field struct {
	Name   string         `json:"name"`
	Kind   FieldKind      `json:"kind"`
	Tokens map[string]int `json:"tokens,omitempty"`
}

// Schema is the ordered description of the input a trained model expects.
// Field order must match the column order the model was trained on exactly:
// nothing downstream can detect a reordering, it just corrupts predictions.
type Schema struct {
	Disease string  `json:"disease"`
	Fields  []Field `json:"fields"`
}

// Len returns the number of vector slots the schema produces.
func (s Schema) Len() int {
	return len(s.Fields)
}

// FieldNames returns the column names in declared order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
