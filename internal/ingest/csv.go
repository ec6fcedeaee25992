// Package ingest normalizes bank CSV exports into canonical transactions.
//
// Each supported export format (Chase, PayPal, credit union) has an adapter
// that validates the header row, maps data rows to core.Transaction records,
// and reports per-row failures without aborting the batch.
package ingest

import "strings"

// ParseCSV splits CSV text into rows of trimmed fields. Double quotes toggle
// an in-field state so commas inside quoted fields are not treated as
// delimiters. Known limitations: escaped quotes ("") and newlines embedded
// in quoted fields are not handled. Blank lines are dropped.
func ParseCSV(text string) [][]string {
	var rows [][]string

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var row []string
		var field strings.Builder
		inQuotes := false

		for _, ch := range line {
			switch {
			case ch == '"':
				inQuotes = !inQuotes
			case ch == ',' && !inQuotes:
				row = append(row, strings.TrimSpace(field.String()))
				field.Reset()
			default:
				field.WriteRune(ch)
			}
		}
		row = append(row, strings.TrimSpace(field.String()))
		rows = append(rows, row)
	}

	return rows
}

// blankRow reports whether every field in the row is empty.
func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// field returns row[i] or "" when the row is short.
func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
