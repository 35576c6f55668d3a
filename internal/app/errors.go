package app

import (
	"fmt"
	"time"

	"github.com/example/quitplan/internal/core/calendar"
	"github.com/example/quitplan/internal/ports/primary"
)

// Validation rules reported in primary.ValidationError.Rule besides the sequencer's.
const (
	ruleMissingField = "MissingField"
	ruleInvalidDate  = "InvalidDate"
	ruleInvalidRange = "InvalidRange"
)

func validationError(rule, format string, args ...any) error {
	return &primary.ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func conflictError(reason string) error {
	return fmt.Errorf("%w: %s", primary.ErrConflict, reason)
}

func forbiddenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", primary.ErrForbidden, fmt.Sprintf(format, args...))
}

func requireField(name, value string) error {
	if value == "" {
		return validationError(ruleMissingField, "%s is required", name)
	}
	return nil
}

// parseDate parses a required YYYY-MM-DD field.
func parseDate(field, value string) (time.Time, error) {
	if err := requireField(field, value); err != nil {
		return time.Time{}, err
	}
	t, err := calendar.Parse(value)
	if err != nil {
		return time.Time{}, validationError(ruleInvalidDate, "%s must be a YYYY-MM-DD date (got %q)", field, value)
	}
	return t, nil
}

// parseOptionalDate parses a YYYY-MM-DD field that may be empty.
func parseOptionalDate(field, value string) error {
	if value == "" {
		return nil
	}
	_, err := parseDate(field, value)
	return err
}

// requireCoach checks that coachID owns a plan that already has a coach.
func requireCoach(planID, assignedCoach, coachID string) error {
	if assignedCoach != "" && assignedCoach != coachID {
		return forbiddenError("plan %s is assigned to coach %s", planID, assignedCoach)
	}
	return nil
}

// requireOwner checks that userID is the user the plan belongs to.
func requireOwner(planID, owner, userID string) error {
	if owner != userID {
		return forbiddenError("plan %s belongs to another user", planID)
	}
	return nil
}
