package domain

import "fmt"

// ValidationError is a caller mistake: surfaced as-is, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError marks a uniqueness collision that the repository could not
// resolve by retrying as an update. Callers treat it as retryable, not
// fatal.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("uniqueness conflict on %s", e.Constraint)
}

// IncompleteApprovalError reports teams whose ledger rows are missing. It is
// a distinct administrative condition, never coerced into "approved".
type IncompleteApprovalError struct {
	MissingTeamIDs []int64
}

func (e *IncompleteApprovalError) Error() string {
	return fmt.Sprintf("approval records missing for %d team(s)", len(e.MissingTeamIDs))
}

// MaterializationError is fatal to an activation; the roster state stays
// unchanged and the transaction that carried the writes is rolled back.
type MaterializationError struct {
	Stage string
	Err   error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("materialization failed during %s: %v", e.Stage, e.Err)
}

func (e *MaterializationError) Unwrap() error {
	return e.Err
}
