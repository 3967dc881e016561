package models

import "github.com/google/uuid"

// SheetCounts tallies the outcome of one sheet during an additive import.
type SheetCounts struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errored   int `json:"errored"`
}

// ImportSummary is the result of one additive ETL run. The run ID ties log
// lines and the summary together; counts are per sheet role.
type ImportSummary struct {
	RunID         uuid.UUID   `json:"run_id"`
	Registrations SheetCounts `json:"registrations"`
	Services      SheetCounts `json:"services"`
	Updates       SheetCounts `json:"updates"`
}

// Total returns the summed counts across all three sheets.
func (s *ImportSummary) Total() SheetCounts {
	return SheetCounts{
		Processed: s.Registrations.Processed + s.Services.Processed + s.Updates.Processed,
		Skipped:   s.Registrations.Skipped + s.Services.Skipped + s.Updates.Skipped,
		Errored:   s.Registrations.Errored + s.Services.Errored + s.Updates.Errored,
	}
}
