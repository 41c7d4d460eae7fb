package model

import "time"

// Summary carries the dataset grand totals.
type Summary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalUnits   *int    `json:"totalUnits,omitempty"` // absent without quantity data
	ProductCount int     `json:"productCount"`
	RecordCount  int     `json:"recordCount"`
	SkippedRows  int     `json:"skippedRows"`
}

// DataQuality is the 0-100 quality score plus human-readable issues.
type DataQuality struct {
	Score    int      `json:"score"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings,omitempty"`
}

// ResolutionInfo exposes how columns were mapped, for the report consumer.
type ResolutionInfo struct {
	Assignments     map[ColumnRole]RoleAssignment `json:"assignments"`
	ExaminedHeaders []string                      `json:"examinedHeaders"`
	Notes           []string                      `json:"notes,omitempty"`
}

// AnalysisReport is the sole contract with any presentation layer. Consumers
// never re-derive scores from it.
type AnalysisReport struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Source      string    `json:"source,omitempty"`

	HasQuantity bool `json:"hasQuantity"`

	Summary         Summary          `json:"summary"`
	Products        []ScoredProduct  `json:"products"`
	Recommendations []Recommendation `json:"recommendations"`
	Quality         DataQuality      `json:"quality"`
	Resolution      ResolutionInfo   `json:"resolution"`
}
