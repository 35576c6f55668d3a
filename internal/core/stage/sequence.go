// Package stage contains the pure business logic for stage sequencing.
// Guards are pure functions that evaluate preconditions without side effects.
package stage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/quitplan/internal/core/calendar"
)

// Rule names the sequencing rule a stage date range violated.
type Rule string

const (
	RuleInvalidRange  Rule = "InvalidRange"
	RuleOutOfSequence Rule = "OutOfSequence"
)

// Span is the part of a stage the sequencer cares about.
type Span struct {
	ID        string
	Number    int
	StartDate time.Time
	EndDate   time.Time
}

// ValidationResult is the outcome of a sequence check.
// Message carries the rule name; Detail is the human-readable explanation.
type ValidationResult struct {
	Valid   bool
	Rule    Rule
	Message string
	Detail  string
}

// StageLookup fetches the existing stages of a plan.
type StageLookup func(ctx context.Context, planID string) ([]Span, error)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// DeleteStageContext provides context for stage deletion guards.
type DeleteStageContext struct {
	StageID        string
	StageNumber    int
	MaxStageNumber int
	IsCompleted    bool
}

// ValidateStageSequence loads the plan's stages through lookup and checks
// the proposed range against them.
func ValidateStageSequence(ctx context.Context, start, end time.Time, planID string, lookup StageLookup) (ValidationResult, error) {
	existing, err := lookup(ctx, planID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to load stages for plan %s: %w", planID, err)
	}
	return CheckSequence(start, end, existing), nil
}

// CheckSequence evaluates a proposed date range against existing stages.
// Rules:
// - End date must be strictly after start date
// - Start date must be strictly after every existing stage's end date
func CheckSequence(start, end time.Time, existing []Span) ValidationResult {
	start, end = calendar.Day(start), calendar.Day(end)

	if !end.After(start) {
		return invalid(RuleInvalidRange, fmt.Sprintf("end date %s must be after start date %s",
			calendar.Format(end), calendar.Format(start)))
	}

	var latest *Span
	for i := range existing {
		if latest == nil || existing[i].EndDate.After(latest.EndDate) {
			latest = &existing[i]
		}
	}
	if latest != nil && !calendar.Day(latest.EndDate).Before(start) {
		return invalid(RuleOutOfSequence, fmt.Sprintf("stage %d ends on %s; the new stage must start after that date",
			latest.Number, calendar.Format(latest.EndDate)))
	}

	return ValidationResult{Valid: true}
}

func invalid(rule Rule, detail string) ValidationResult {
	return ValidationResult{
		Valid:   false,
		Rule:    rule,
		Message: string(rule),
		Detail:  detail,
	}
}

// NextStageNumber returns the number the next stage of the plan should get.
// It always reads the current stages; stages may be deleted between calls.
func NextStageNumber(ctx context.Context, planID string, lookup StageLookup) (int, error) {
	existing, err := lookup(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("failed to load stages for plan %s: %w", planID, err)
	}
	return NextNumber(existing), nil
}

// NextNumber returns max(stage number)+1, or 1 for an empty plan.
func NextNumber(existing []Span) int {
	maxNumber := 0
	for _, s := range existing {
		if s.Number > maxNumber {
			maxNumber = s.Number
		}
	}
	return maxNumber + 1
}

// VerifyOrdering checks that stage numbers run 1..N without gaps and that
// each stage starts strictly after the previous one ends.
func VerifyOrdering(stages []Span) error {
	ordered := make([]Span, len(stages))
	copy(ordered, stages)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	for i, s := range ordered {
		if s.Number != i+1 {
			return fmt.Errorf("stage numbers must run 1..%d without gaps (found %d at position %d)", len(ordered), s.Number, i+1)
		}
		if i > 0 && !calendar.Day(s.StartDate).After(calendar.Day(ordered[i-1].EndDate)) {
			return fmt.Errorf("stage %d starts on %s, not after stage %d ends on %s",
				s.Number, calendar.Format(s.StartDate), ordered[i-1].Number, calendar.Format(ordered[i-1].EndDate))
		}
	}
	return nil
}

// CanDeleteStage evaluates whether a stage can be deleted.
// Rules:
// - Stage must not be completed
// - Only the highest-numbered stage can be deleted (numbers stay 1..N)
func CanDeleteStage(ctx DeleteStageContext) GuardResult {
	if ctx.IsCompleted {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot delete completed stage %s", ctx.StageID),
		}
	}

	if ctx.StageNumber != ctx.MaxStageNumber {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot delete stage %s (stage %d of %d): only the last stage can be deleted", ctx.StageID, ctx.StageNumber, ctx.MaxStageNumber),
		}
	}

	return GuardResult{Allowed: true}
}
