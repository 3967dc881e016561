package models

import "fmt"

// Severity classifies a violation. Errors block a replace-mode sync;
// warnings are reported but never block.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one row-level problem found during validation: which sheet
// and row it was found on, the offending field, and a human-readable
// message. Validators accumulate violations instead of failing fast.
type Violation struct {
	Sheet    string   `json:"sheet"`
	Row      int      `json:"row"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%d].%s: %s", v.Sheet, v.Row, v.Field, v.Message)
}

// HasErrors reports whether any violation in the list is error-severity.
func HasErrors(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}
