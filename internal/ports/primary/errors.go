package primary

import (
	"errors"
	"fmt"

	"github.com/example/quitplan/internal/core/progression"
	"github.com/example/quitplan/internal/ports/secondary"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = secondary.ErrNotFound

	// ErrConflict is returned when a request collides with existing state
	// (an open plan already exists, a rating was already submitted, a status guard refused).
	ErrConflict = errors.New("conflict")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the actor does not own the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrDenied is matched by every *DeniedError.
	ErrDenied = errors.New("denied")
)

// ValidationError reports a rejected input. Rule names the failed check
// (InvalidRange, OutOfSequence, MissingField, ...).
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DeniedError reports a refused mutation that is a normal business outcome
// rather than a failure, such as deleting a stage that is not the last one.
type DeniedError struct {
	Code   string
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

func (e *DeniedError) Unwrap() error { return ErrDenied }

// IncompleteTasksError is returned by MoveToNextStage when the current stage
// still has open tasks.
type IncompleteTasksError = progression.IncompleteTasksError
