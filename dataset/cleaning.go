package dataset

import (
	"fmt"
	"sort"
	"strconv"
)

// Rule rejects rows that cannot enter training.
type Rule interface {
	Apply(row map[string]string) error
	Name() string
}

// Stats counts what the cleaner did.
type Stats struct {
	Processed int
	Passed    int
	Rejected  int
	Imputed   int
	Issues    map[string]int
}

// Cleaner applies rejection rules and zero/missing imputation to a table.
type Cleaner struct {
	rules []Rule
	stats Stats
}

func NewCleaner(rules ...Rule) *Cleaner {
	return &Cleaner{
		rules: rules,
		stats: Stats{Issues: make(map[string]int)},
	}
}

// Clean drops rows any rule rejects and returns the surviving table.
func (c *Cleaner) Clean(t *Table) *Table {
	out := &Table{Columns: t.Columns}
	for _, row := range t.Rows {
		c.stats.Processed++
		rejected := false
		for _, rule := range c.rules {
			if err := rule.Apply(row); err != nil {
				c.stats.Rejected++
				c.stats.Issues[rule.Name()]++
				rejected = true
				break
			}
		}
		if !rejected {
			c.stats.Passed++
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// ImputeZeros replaces zero or empty values in the given columns with the
// column median over the non-zero values. Clinical datasets encode missing
// vitals as zero; a zero glucose is a gap, not a measurement.
func (c *Cleaner) ImputeZeros(t *Table, columns []string) {
	for _, col := range columns {
		var present []float64
		for _, row := range t.Rows {
			if v, ok := parseNonZero(row[col]); ok {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			continue
		}
		median := medianOf(present)
		for _, row := range t.Rows {
			if _, ok := parseNonZero(row[col]); !ok {
				row[col] = strconv.FormatFloat(median, 'g', -1, 64)
				c.stats.Imputed++
			}
		}
	}
}

func (c *Cleaner) Stats() Stats {
	return c.stats
}

func parseNonZero(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// RangeRule rejects rows whose numeric column falls outside [Min, Max].
type RangeRule struct {
	Column string
	Min    float64
	Max    float64
}

func (r RangeRule) Name() string {
	return "range:" + r.Column
}

func (r RangeRule) Apply(row map[string]string) error {
	raw, ok := row[r.Column]
	if !ok || raw == "" {
		return nil // missing values are the imputer's problem
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("column %s: unparsable value %q", r.Column, raw)
	}
	if v < r.Min || v > r.Max {
		return fmt.Errorf("column %s: %v outside [%v, %v]", r.Column, v, r.Min, r.Max)
	}
	return nil
}
