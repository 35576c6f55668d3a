// Package task contains the pure business logic for task completion.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"time"

	"github.com/example/quitplan/internal/core/calendar"
)

// Denial identifies why a completion was refused.
type Denial string

const (
	DenialNone             Denial = ""
	DenialAlreadyCompleted Denial = "already_completed"
	DenialLocked           Denial = "locked"
	DenialUnknownTask      Denial = "unknown_task"
)

// GateResult represents the outcome of the completion gate.
// LockedUntil is set only for DenialLocked.
type GateResult struct {
	Allowed     bool
	Denial      Denial
	Reason      string
	LockedUntil time.Time
}

// Error converts the gate result to an error if not allowed.
func (r GateResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CompleteTaskContext provides context for the completion gate.
type CompleteTaskContext struct {
	TaskID       string
	IsCompleted  bool
	IsLast       bool
	StageEndDate time.Time
	Today        time.Time
}

// CanComplete evaluates whether a task may be marked complete.
// Rules:
// - Task must not already be completed (a repeat is a no-op, not an error)
// - The last task of a stage is locked until the stage's end date (date-only)
func CanComplete(ctx CompleteTaskContext) GateResult {
	if ctx.IsCompleted {
		return GateResult{
			Allowed: false,
			Denial:  DenialAlreadyCompleted,
			Reason:  fmt.Sprintf("task %s is already completed", ctx.TaskID),
		}
	}

	if !ctx.IsLast {
		return GateResult{Allowed: true}
	}

	if !calendar.OnOrAfter(ctx.Today, ctx.StageEndDate) {
		until := calendar.Day(ctx.StageEndDate)
		return GateResult{
			Allowed:     false,
			Denial:      DenialLocked,
			Reason:      fmt.Sprintf("task %s is the last task of its stage and is locked until %s", ctx.TaskID, calendar.Format(until)),
			LockedUntil: until,
		}
	}

	return GateResult{Allowed: true}
}

// CanCompleteInList runs the gate for taskID using its place in list.
func CanCompleteInList(list TaskList, taskID string, stageEndDate, today time.Time) GateResult {
	idx := list.IndexOf(taskID)
	if idx < 0 {
		return GateResult{
			Allowed: false,
			Denial:  DenialUnknownTask,
			Reason:  fmt.Sprintf("task %s does not belong to this stage", taskID),
		}
	}

	item := list.At(idx)
	return CanComplete(CompleteTaskContext{
		TaskID:       taskID,
		IsCompleted:  item.Completed,
		IsLast:       list.IsLast(taskID),
		StageEndDate: stageEndDate,
		Today:        today,
	})
}
