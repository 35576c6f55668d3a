package primary

import "context"

// ProgressionService defines the primary port for plan progression.
type ProgressionService interface {
	// GetProgression returns the derived progression view of a plan.
	GetProgression(ctx context.Context, planID string) (*Progression, error)

	// MoveToNextStage completes the current stage when all its tasks are done.
	MoveToNextStage(ctx context.Context, req AdvanceRequest) (*AdvanceResponse, error)
}

// AdvanceRequest contains parameters for advancing a plan.
type AdvanceRequest struct {
	PlanID string
	UserID string
}

// AdvanceResponse reports the completed stage and the recomputed progression.
type AdvanceResponse struct {
	CompletedStage *Stage       `json:"completed_stage"`
	Progression    *Progression `json:"progression"`
	PlanCompleted  bool         `json:"plan_completed"`
}

// ProgressFigure is a completion percentage with its counts.
type ProgressFigure struct {
	Percent        int `json:"percent"`
	CompletedCount int `json:"completed_count"`
	Total          int `json:"total"`
}

// StageProgress is a stage with its task progress.
type StageProgress struct {
	Stage    *Stage         `json:"stage"`
	Progress ProgressFigure `json:"progress"`
}

// Progression is the derived state of a plan.
// CurrentStage is nil when the plan has no stages or all stages are completed.
type Progression struct {
	PlanID             string          `json:"plan_id"`
	PlanStatus         string          `json:"plan_status"`
	Stages             []StageProgress `json:"stages"`
	CurrentStage       *StageProgress  `json:"current_stage"`
	Plan               ProgressFigure  `json:"plan_progress"`
	AllStagesCompleted bool            `json:"all_stages_completed"`
	ReadyToAdvance     bool            `json:"ready_to_advance"`
}
