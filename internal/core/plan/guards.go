// Package plan contains the pure business logic for quit plan lifecycle.
// Guards are pure functions that evaluate preconditions without side effects.
package plan

import "fmt"

// Status is a quit plan status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCreated   Status = "created"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// transitions lists the allowed one-directional moves.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCreated},
	StatusCreated:  {StatusActive},
	StatusActive:   {StatusCompleted},
}

// IsTerminal reports whether no further transition exists from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsOpen reports whether a plan in status s still blocks a new request.
func (s Status) IsOpen() bool {
	return s != StatusRejected && s != StatusCompleted
}

// CanTransition reports whether from -> to is an allowed transition.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

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

// RequestPlanContext provides context for plan request guards.
type RequestPlanContext struct {
	UserID     string
	OpenPlanID string // empty when the user has no open plan
	OpenStatus Status
}

// ReviewPlanContext provides context for approve/reject guards.
type ReviewPlanContext struct {
	PlanID  string
	Status  Status
	CoachID string
}

// CreatePlanContext provides context for creating the plan from an approved request.
type CreatePlanContext struct {
	PlanID         string
	Status         Status
	AssignedCoach  string
	ActingCoach    string
	StartDate      string
	TargetQuitDate string
	Name           string
}

// EditPlanContext provides context for guards on editing plan content (stages, tasks).
type EditPlanContext struct {
	PlanID        string
	Status        Status
	AssignedCoach string
	ActingCoach   string
}

// CanRequestPlan evaluates whether a user can request a new plan.
// Rules:
// - User must not already have an open plan (anything but rejected/completed)
func CanRequestPlan(ctx RequestPlanContext) GuardResult {
	if ctx.OpenPlanID != "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("user %s already has an open quit plan %s (status: %s)", ctx.UserID, ctx.OpenPlanID, ctx.OpenStatus),
		}
	}

	return GuardResult{Allowed: true}
}

// CanApprovePlan evaluates whether a coach can approve a plan request.
// Rules:
// - Status must be "pending"
func CanApprovePlan(ctx ReviewPlanContext) GuardResult {
	if !CanTransition(ctx.Status, StatusApproved) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only approve pending plans (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanRejectPlan evaluates whether a coach can reject a plan request.
// Rules:
// - Status must be "pending"
func CanRejectPlan(ctx ReviewPlanContext) GuardResult {
	if !CanTransition(ctx.Status, StatusRejected) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only reject pending plans (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanCreatePlan evaluates whether a coach can turn an approved request into a plan.
// Rules:
// - Status must be "approved"
// - The acting coach must be the assigned coach
// - Name, start date and target quit date are required
func CanCreatePlan(ctx CreatePlanContext) GuardResult {
	if !CanTransition(ctx.Status, StatusCreated) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only create plans from approved requests (current status: %s)", ctx.Status),
		}
	}

	if ctx.AssignedCoach != ctx.ActingCoach {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("plan %s is assigned to coach %s", ctx.PlanID, ctx.AssignedCoach),
		}
	}

	if ctx.Name == "" || ctx.StartDate == "" || ctx.TargetQuitDate == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "name, start date and target quit date are required",
		}
	}

	return GuardResult{Allowed: true}
}

// CanEditPlan evaluates whether a coach can add or change stages and tasks of a plan.
// Rules:
// - Plan must be "created" or "active"
// - The acting coach must be the assigned coach
func CanEditPlan(ctx EditPlanContext) GuardResult {
	if ctx.Status != StatusCreated && ctx.Status != StatusActive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only edit created or active plans (current status: %s)", ctx.Status),
		}
	}

	if ctx.AssignedCoach != ctx.ActingCoach {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("plan %s is assigned to coach %s", ctx.PlanID, ctx.AssignedCoach),
		}
	}

	return GuardResult{Allowed: true}
}

// DeriveStatus applies the implicit transitions driven by stage state:
// created -> active once stages exist, active -> completed once all are done.
// Statuses never move backwards.
func DeriveStatus(current Status, stageCount int, allStagesCompleted bool) Status {
	status := current
	if status == StatusCreated && stageCount > 0 {
		status = StatusActive
	}
	if status == StatusActive && allStagesCompleted {
		status = StatusCompleted
	}
	return status
}
