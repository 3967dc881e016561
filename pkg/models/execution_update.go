package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExecutionUpdate is a point-in-time progress report against one Service.
// Multiple updates per service form a time-ordered history; updates are
// immutable snapshots of one import, never edited in place.
type ExecutionUpdate struct {
	ID             int64
	ServiceID      int64
	Description    string
	ExecutedShare  *float64
	AdjustedBudget *decimal.Decimal
	ExecutedValue  *decimal.Decimal
	UpdatedAt      *time.Time
	Responsible    string
	Role           string
	Department     string

	// RiskKind/RiskDescription carry the raw risk columns from the update
	// sheet. On write they are resolved into Risk rows and linked; on export
	// Risks holds the resolved classifications.
	RiskKind        string
	RiskDescription string
	Risks           []Risk
}

// Risk is a reusable risk classification attached to execution updates.
type Risk struct {
	ID          int64
	Kind        string
	Description string
}
