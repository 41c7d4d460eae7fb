package model

import "strings"

// RawTable is the input boundary: an ordered sequence of rows of raw cell
// values plus an optional header row, already decoded from CSV or xlsx.
// Short rows are treated as having trailing empty cells.
type RawTable struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	HasHeader bool       `json:"hasHeader"`
	Source    string     `json:"source,omitempty"`
}

// ColumnCount returns the width of the table: the header width when a header
// exists, otherwise the widest row.
func (t *RawTable) ColumnCount() int {
	if t.HasHeader && len(t.Headers) > 0 {
		return len(t.Headers)
	}
	max := 0
	for _, row := range t.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Cell returns the trimmed cell at (row, col), or "" when the row is short.
func (t *RawTable) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// IsBlankRow reports whether every cell in the row is empty.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
