/*
errors.go - Error taxonomy of the depreciation engine

PURPOSE:
  All error types in one place. Every structured error unwraps to a
  sentinel so callers branch with errors.Is and read details with errors.As.

ERROR CATEGORIES:
  ValidationError        malformed or out-of-range input, one item per field
  NotFoundError          unknown id
  ConflictError          referential-integrity violation
  InvalidStateError      operation illegal for the asset's lifecycle state
  InvalidTransitionError status toggle from a non-toggleable state
  NotImplementedError    method input missing from the data contract

  None of these are retryable: the engine makes no network calls and a
  computation is a deterministic function of stored state and date.

SEE ALSO:
  - validate.go: builds ValidationError from struct tags
  - api/errors.go: maps each category to an HTTP status
*/
package depreciation

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotImplemented    = errors.New("not implemented")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError is one violated constraint, keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field, not just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add records a violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field already has a violation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when nothing was recorded, so callers can
// `return v.OrNil()` without a typed-nil interface.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NotFoundError names the missing resource.
type NotFoundError struct {
	Kind string // "category", "asset", "entry"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError is returned when a delete would orphan dependent rows.
type ConflictError struct {
	Kind       string
	ID         string
	Dependents string
	Count      int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s is referenced by %d %s", e.Kind, e.ID, e.Count, e.Dependents)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InvalidStateError is returned when the asset state forbids the operation.
type InvalidStateError struct {
	AssetID   string
	Status    Status
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s asset %s in state %s", e.Operation, e.AssetID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InvalidTransitionError is returned by SetStatus from a non-toggleable state.
type InvalidTransitionError struct {
	AssetID string
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("asset %s cannot move from %s to %s; edit the asset instead", e.AssetID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// NotImplementedError marks a computation whose inputs the contract lacks.
type NotImplementedError struct {
	Feature string
	Reason  string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not available: %s", e.Feature, e.Reason)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is caused by the caller's request.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidTransition)
}
