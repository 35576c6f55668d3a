package rating

import "testing"

func completed() Observation {
	return Observation{AllStagesCompleted: true, CoachAssigned: true}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		state    SessionState
		obs      Observation
		wantOpen bool
	}{
		{
			name:     "opens on first completed observation",
			state:    SessionState{HasRatedKnown: true},
			obs:      completed(),
			wantOpen: true,
		},
		{
			name:  "does not open while plan is in progress",
			state: SessionState{HasRatedKnown: true},
			obs:   Observation{AllStagesCompleted: false, CoachAssigned: true},
		},
		{
			name:  "does not open without a coach",
			state: SessionState{HasRatedKnown: true},
			obs:   Observation{AllStagesCompleted: true},
		},
		{
			name:  "does not open once rated",
			state: SessionState{HasRated: true, HasRatedKnown: true},
			obs:   completed(),
		},
		{
			name:  "does not reopen on recomputation",
			state: SessionState{HasRatedKnown: true, PromptShown: true, ObservedCompleted: true},
			obs:   completed(),
		},
		{
			name:  "does not reopen after dismissal",
			state: SessionState{HasRatedKnown: true, PromptShown: true, Dismissed: true, ObservedCompleted: true},
			obs:   completed(),
		},
		{
			name:     "reopens when completion transitions from false to true",
			state:    SessionState{HasRatedKnown: true, PromptShown: true, ObservedCompleted: false},
			obs:      completed(),
			wantOpen: true,
		},
		{
			name:     "reopens on explicit request",
			state:    SessionState{HasRatedKnown: true, PromptShown: true, Dismissed: true, ObservedCompleted: true},
			obs:      Observation{AllStagesCompleted: true, CoachAssigned: true, Explicit: true},
			wantOpen: true,
		},
		{
			name:  "explicit request still needs a completed plan",
			state: SessionState{HasRatedKnown: true},
			obs:   Observation{CoachAssigned: true, Explicit: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, next := Evaluate(tt.state, tt.obs)
			if decision.Open != tt.wantOpen {
				t.Errorf("Open = %v, want %v (reason: %s)", decision.Open, tt.wantOpen, decision.Reason)
			}
			if decision.Reason == "" {
				t.Error("expected a reason")
			}
			if next.ObservedCompleted != tt.obs.AllStagesCompleted {
				t.Errorf("ObservedCompleted = %v, want %v", next.ObservedCompleted, tt.obs.AllStagesCompleted)
			}
			if decision.Open && !next.PromptShown {
				t.Error("opened prompt must be recorded as shown")
			}
		})
	}
}

// The prompt opens at most once no matter how often completion is recomputed.
func TestEvaluate_AtMostOncePerSession(t *testing.T) {
	state := SessionState{HasRatedKnown: true}
	opens := 0
	for i := 0; i < 50; i++ {
		var d Decision
		d, state = Evaluate(state, completed())
		if d.Open {
			opens++
		}
		if i == 10 {
			state = Dismiss(state)
		}
	}
	if opens != 1 {
		t.Errorf("prompt opened %d times, want 1", opens)
	}
}

func TestEvaluate_NeverAfterSubmission(t *testing.T) {
	state := SessionState{HasRatedKnown: true}
	d, state := Evaluate(state, completed())
	if !d.Open {
		t.Fatal("expected prompt to open")
	}

	state = MarkRated(state)
	for i := 0; i < 5; i++ {
		obs := completed()
		obs.Explicit = i%2 == 0
		d, state = Evaluate(state, obs)
		if d.Open {
			t.Fatalf("prompt reopened after rating on iteration %d", i)
		}
	}
}

func TestCanSubmitRating(t *testing.T) {
	valid := SubmitContext{
		PlanID:             "PLAN-001",
		Rating:             5,
		FeedbackType:       FeedbackTypeUserToCoach,
		CoachID:            "COACH-001",
		AllStagesCompleted: true,
	}

	tests := []struct {
		name        string
		mutate      func(c *SubmitContext)
		wantAllowed bool
		wantRule    string
		wantReason  string
	}{
		{
			name:        "can rate a completed plan",
			mutate:      func(c *SubmitContext) {},
			wantAllowed: true,
		},
		{
			name:       "wrong feedback type",
			mutate:     func(c *SubmitContext) { c.FeedbackType = "coach_to_user" },
			wantRule:   RuleInvalidFeedbackType,
			wantReason: `unsupported feedback type "coach_to_user" (want user_to_coach)`,
		},
		{
			name:       "rating too low",
			mutate:     func(c *SubmitContext) { c.Rating = 0 },
			wantRule:   RuleInvalidRating,
			wantReason: "rating must be between 1 and 5 (got 0)",
		},
		{
			name:       "rating too high",
			mutate:     func(c *SubmitContext) { c.Rating = 6 },
			wantRule:   RuleInvalidRating,
			wantReason: "rating must be between 1 and 5 (got 6)",
		},
		{
			name:       "no coach",
			mutate:     func(c *SubmitContext) { c.CoachID = "" },
			wantRule:   RuleNoCoach,
			wantReason: "plan PLAN-001 has no coach to rate",
		},
		{
			name:       "different coach",
			mutate:     func(c *SubmitContext) { c.RequestedCoachID = "COACH-999" },
			wantRule:   RuleCoachMismatch,
			wantReason: "coach COACH-999 is not the coach of plan PLAN-001",
		},
		{
			name:       "plan in progress",
			mutate:     func(c *SubmitContext) { c.AllStagesCompleted = false },
			wantRule:   RulePlanNotCompleted,
			wantReason: "plan PLAN-001 is not completed yet",
		},
		{
			name:       "already rated",
			mutate:     func(c *SubmitContext) { c.AlreadyRated = true },
			wantRule:   RuleAlreadyRated,
			wantReason: "coach already rated for plan PLAN-001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := valid
			tt.mutate(&ctx)
			result := CanSubmitRating(ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if result.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", result.Rule, tt.wantRule)
			}
		})
	}
}
