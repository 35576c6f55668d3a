// Package rating decides when the coach-rating prompt opens and whether a
// rating may be submitted. Session state is passed in and returned; nothing
// here touches storage.
package rating

import "fmt"

// FeedbackTypeUserToCoach is the feedback type of a coach rating.
const FeedbackTypeUserToCoach = "user_to_coach"

const (
	MinRating = 1
	MaxRating = 5
)

// SessionState is what one session remembers about the prompt.
// HasRatedKnown is false until the rating-existence query has run once.
type SessionState struct {
	HasRated          bool
	HasRatedKnown     bool
	PromptShown       bool
	Dismissed         bool
	ObservedCompleted bool
}

// Observation is the freshly computed plan state.
type Observation struct {
	AllStagesCompleted bool
	CoachAssigned      bool
	Explicit           bool
}

// Decision tells the caller whether to open the prompt.
type Decision struct {
	Open   bool
	Reason string
}

// Evaluate decides whether the prompt opens for obs and returns the updated
// session state. Rules:
// - Plan must be fully completed, have a coach, and not be rated yet
// - Opens once per session; recomputation with unchanged state never reopens
// - Reopens when completion flips from false to true, or on explicit request
func Evaluate(state SessionState, obs Observation) (Decision, SessionState) {
	transitioned := obs.AllStagesCompleted && !state.ObservedCompleted
	state.ObservedCompleted = obs.AllStagesCompleted

	switch {
	case !obs.AllStagesCompleted:
		return Decision{Reason: "plan is not completed yet"}, state
	case !obs.CoachAssigned:
		return Decision{Reason: "plan has no coach to rate"}, state
	case state.HasRated:
		return Decision{Reason: "coach already rated for this plan"}, state
	}

	if obs.Explicit || !state.PromptShown || transitioned {
		state.PromptShown = true
		state.Dismissed = false
		return Decision{Open: true, Reason: "plan completed; rate your coach"}, state
	}

	return Decision{Reason: "prompt already shown this session"}, state
}

// Dismiss records that the user closed the prompt without rating.
func Dismiss(state SessionState) SessionState {
	state.Dismissed = true
	return state
}

// MarkRated flips the session's has-rated flag after a successful submission.
func MarkRated(state SessionState) SessionState {
	state.HasRated = true
	state.HasRatedKnown = true
	state.Dismissed = false
	return state
}

// Rules checked by CanSubmitRating, reported in GuardResult.Rule.
const (
	RuleInvalidFeedbackType = "InvalidFeedbackType"
	RuleInvalidRating       = "InvalidRating"
	RuleNoCoach             = "NoCoach"
	RuleCoachMismatch       = "CoachMismatch"
	RulePlanNotCompleted    = "PlanNotCompleted"
	RuleAlreadyRated        = "AlreadyRated"
)

// GuardResult represents the outcome of a guard evaluation.
// Rule names the failed check when not allowed.
type GuardResult struct {
	Allowed bool
	Rule    string
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SubmitContext provides context for rating submission guards.
type SubmitContext struct {
	PlanID             string
	Rating             int
	FeedbackType       string
	CoachID            string
	RequestedCoachID   string
	AllStagesCompleted bool
	AlreadyRated       bool
}

// CanSubmitRating evaluates whether a coach rating can be created.
// Rules:
// - Feedback type must be user_to_coach
// - Rating must be within 1..5
// - Plan must have a coach, matching the one being rated if given
// - Plan must be completed
// - No rating may exist yet for the (plan, user) pair
func CanSubmitRating(ctx SubmitContext) GuardResult {
	if ctx.FeedbackType != FeedbackTypeUserToCoach {
		return GuardResult{Rule: RuleInvalidFeedbackType, Reason: fmt.Sprintf("unsupported feedback type %q (want %s)", ctx.FeedbackType, FeedbackTypeUserToCoach)}
	}

	if ctx.Rating < MinRating || ctx.Rating > MaxRating {
		return GuardResult{Rule: RuleInvalidRating, Reason: fmt.Sprintf("rating must be between %d and %d (got %d)", MinRating, MaxRating, ctx.Rating)}
	}

	if ctx.CoachID == "" {
		return GuardResult{Rule: RuleNoCoach, Reason: fmt.Sprintf("plan %s has no coach to rate", ctx.PlanID)}
	}

	if ctx.RequestedCoachID != "" && ctx.RequestedCoachID != ctx.CoachID {
		return GuardResult{Rule: RuleCoachMismatch, Reason: fmt.Sprintf("coach %s is not the coach of plan %s", ctx.RequestedCoachID, ctx.PlanID)}
	}

	if !ctx.AllStagesCompleted {
		return GuardResult{Rule: RulePlanNotCompleted, Reason: fmt.Sprintf("plan %s is not completed yet", ctx.PlanID)}
	}

	if ctx.AlreadyRated {
		return GuardResult{Rule: RuleAlreadyRated, Reason: fmt.Sprintf("coach already rated for plan %s", ctx.PlanID)}
	}

	return GuardResult{Allowed: true}
}
