package stage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func lookupOf(spans []Span, err error) StageLookup {
	return func(ctx context.Context, planID string) ([]Span, error) {
		return spans, err
	}
}

func TestCheckSequence(t *testing.T) {
	stageA := Span{ID: "STAGE-001", Number: 1, StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}

	tests := []struct {
		name      string
		start     string
		end       string
		existing  []Span
		wantValid bool
		wantRule  Rule
	}{
		{
			name:      "empty plan accepts any valid range",
			start:     "2024-01-01",
			end:       "2024-01-02",
			wantValid: true,
		},
		{
			name:     "end equal to start is invalid",
			start:    "2024-01-01",
			end:      "2024-01-01",
			wantRule: RuleInvalidRange,
		},
		{
			name:     "end before start is invalid",
			start:    "2024-01-10",
			end:      "2024-01-01",
			wantRule: RuleInvalidRange,
		},
		{
			name:     "start overlapping previous stage is out of sequence",
			start:    "2024-01-30",
			end:      "2024-02-28",
			existing: []Span{stageA},
			wantRule: RuleOutOfSequence,
		},
		{
			name:     "start on previous end date is out of sequence",
			start:    "2024-01-31",
			end:      "2024-02-28",
			existing: []Span{stageA},
			wantRule: RuleOutOfSequence,
		},
		{
			name:      "start the day after previous end is valid",
			start:     "2024-02-01",
			end:       "2024-02-28",
			existing:  []Span{stageA},
			wantValid: true,
		},
		{
			name:  "checked against the latest stage, not the last listed",
			start: "2024-02-15",
			end:   "2024-03-01",
			existing: []Span{
				{ID: "STAGE-002", Number: 2, StartDate: day("2024-02-01"), EndDate: day("2024-02-28")},
				stageA,
			},
			wantRule: RuleOutOfSequence,
		},
		{
			name:     "range check runs before sequence check",
			start:    "2024-01-15",
			end:      "2024-01-10",
			existing: []Span{stageA},
			wantRule: RuleInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckSequence(day(tt.start), day(tt.end), tt.existing)
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", result.Valid, tt.wantValid)
			}
			if !tt.wantValid {
				if result.Rule != tt.wantRule {
					t.Errorf("Rule = %q, want %q", result.Rule, tt.wantRule)
				}
				if result.Message != string(tt.wantRule) {
					t.Errorf("Message = %q, want %q", result.Message, tt.wantRule)
				}
				if result.Detail == "" {
					t.Error("expected a detail message")
				}
			}
		})
	}
}

func TestValidateStageSequence(t *testing.T) {
	ctx := context.Background()
	stageA := Span{ID: "STAGE-001", Number: 1, StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}

	result, err := ValidateStageSequence(ctx, day("2024-01-30"), day("2024-02-28"), "PLAN-001", lookupOf([]Span{stageA}, nil))
	if err != nil {
		t.Fatalf("ValidateStageSequence failed: %v", err)
	}
	if result.Valid || result.Message != "OutOfSequence" {
		t.Errorf("expected OutOfSequence, got %+v", result)
	}

	result, err = ValidateStageSequence(ctx, day("2024-02-01"), day("2024-02-28"), "PLAN-001", lookupOf([]Span{stageA}, nil))
	if err != nil {
		t.Fatalf("ValidateStageSequence failed: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got %+v", result)
	}

	next, err := NextStageNumber(ctx, "PLAN-001", lookupOf([]Span{stageA}, nil))
	if err != nil {
		t.Fatalf("NextStageNumber failed: %v", err)
	}
	if next != 2 {
		t.Errorf("NextStageNumber = %d, want 2", next)
	}
}

func TestValidateStageSequence_LookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := ValidateStageSequence(context.Background(), day("2024-01-01"), day("2024-01-02"), "PLAN-001", lookupOf(nil, boom))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped lookup error, got %v", err)
	}
}

func TestNextStageNumber_RecomputedEachCall(t *testing.T) {
	ctx := context.Background()
	spans := []Span{{Number: 1}, {Number: 2}, {Number: 3}}
	lookup := func(ctx context.Context, planID string) ([]Span, error) {
		return spans, nil
	}

	first, _ := NextStageNumber(ctx, "PLAN-001", lookup)
	if first != 4 {
		t.Fatalf("first NextStageNumber = %d, want 4", first)
	}

	// last stage deleted between calls
	spans = spans[:2]
	second, _ := NextStageNumber(ctx, "PLAN-001", lookup)
	if second != 3 {
		t.Errorf("second NextStageNumber = %d, want 3", second)
	}
}

func TestNextNumber(t *testing.T) {
	if got := NextNumber(nil); got != 1 {
		t.Errorf("NextNumber(nil) = %d, want 1", got)
	}
	if got := NextNumber([]Span{{Number: 2}, {Number: 1}}); got != 3 {
		t.Errorf("NextNumber = %d, want 3", got)
	}
}

func TestVerifyOrdering(t *testing.T) {
	tests := []struct {
		name    string
		stages  []Span
		wantErr bool
	}{
		{
			name:   "empty",
			stages: nil,
		},
		{
			name: "contiguous and sequential, unsorted input",
			stages: []Span{
				{Number: 2, StartDate: day("2024-02-01"), EndDate: day("2024-02-28")},
				{Number: 1, StartDate: day("2024-01-01"), EndDate: day("2024-01-31")},
			},
		},
		{
			name: "gap in numbering",
			stages: []Span{
				{Number: 1, StartDate: day("2024-01-01"), EndDate: day("2024-01-31")},
				{Number: 3, StartDate: day("2024-02-01"), EndDate: day("2024-02-28")},
			},
			wantErr: true,
		},
		{
			name: "overlapping dates",
			stages: []Span{
				{Number: 1, StartDate: day("2024-01-01"), EndDate: day("2024-01-31")},
				{Number: 2, StartDate: day("2024-01-31"), EndDate: day("2024-02-28")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyOrdering(tt.stages)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyOrdering() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// Building a plan through CheckSequence + NextNumber always yields a valid ordering.
func TestSequencedStagesSatisfyOrdering(t *testing.T) {
	var stages []Span
	start := day("2024-01-01")
	for i := 0; i < 6; i++ {
		end := start.AddDate(0, 0, 7+i)
		if result := CheckSequence(start, end, stages); !result.Valid {
			t.Fatalf("stage %d rejected: %+v", i+1, result)
		}
		stages = append(stages, Span{Number: NextNumber(stages), StartDate: start, EndDate: end})

		// an overlapping candidate is always rejected
		if result := CheckSequence(end, end.AddDate(0, 0, 3), stages); result.Valid {
			t.Fatalf("overlapping candidate after stage %d accepted", i+1)
		}
		start = end.AddDate(0, 0, 1)
	}

	if err := VerifyOrdering(stages); err != nil {
		t.Errorf("VerifyOrdering() = %v", err)
	}
}

func TestCanDeleteStage(t *testing.T) {
	tests := []struct {
		name        string
		ctx         DeleteStageContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can delete last stage",
			ctx:         DeleteStageContext{StageID: "STAGE-003", StageNumber: 3, MaxStageNumber: 3},
			wantAllowed: true,
		},
		{
			name:       "cannot delete a middle stage",
			ctx:        DeleteStageContext{StageID: "STAGE-002", StageNumber: 2, MaxStageNumber: 3},
			wantReason: "cannot delete stage STAGE-002 (stage 2 of 3): only the last stage can be deleted",
		},
		{
			name:       "cannot delete completed stage",
			ctx:        DeleteStageContext{StageID: "STAGE-001", StageNumber: 1, MaxStageNumber: 1, IsCompleted: true},
			wantReason: "cannot delete completed stage STAGE-001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanDeleteStage(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if tt.wantAllowed && result.Error() != nil {
				t.Errorf("Error() = %v, want nil", result.Error())
			}
		})
	}
}
