package importer

import "io"

// WriteTemplate emits a CSV skeleton with the canonical header row and one
// example row, for operators preparing a bulk upload. orgCode, when given,
// pre-fills the organization column.
func WriteTemplate(w io.Writer, orgCode string) error {
	if orgCode == "" {
		orgCode = "ACME"
	}
	rows := [][]string{
		TemplateHeaders(),
		{
			"LPT-00123", "5CD1234XYZ", "ThinkPad T14 Gen 4", "Intel Core i7-1355U",
			"16GB", "512GB SSD", orgCode, "it-assets@example.com",
			"2026-08-01", "2026-08-31", "3000", "30", "Bangalore", "",
		},
	}
	return WriteRows(w, rows)
}
