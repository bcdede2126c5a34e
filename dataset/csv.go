// Package dataset loads and cleans training CSVs for cmd/train.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Table is a header-keyed CSV: every row maps column name to its raw string.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Load reads a CSV with a header row.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &Table{Columns: header}
	for idx := 0; ; idx++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}
	return table, nil
}
