package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadRows reads an entire CSV stream. Rows may have ragged lengths; short
// rows are handled downstream by the transformer's bounds checks.
func ReadRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// WriteRows writes rows as CSV.
func WriteRows(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// CleanCell strips the artifacts spreadsheet tools leave in exported CSV
// cells: UTF-8 BOM, ="..." formula wrappers and surrounding whitespace.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// isEmptyRow reports whether every cell is blank after cleanup.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if CleanCell(v) != "" {
			return false
		}
	}
	return true
}
