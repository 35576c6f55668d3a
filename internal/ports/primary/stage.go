package primary

import "context"

// StageService defines the primary port for stage operations.
type StageService interface {
	// ValidateStageSequence checks a proposed date range against the plan's stages without writing.
	ValidateStageSequence(ctx context.Context, req ValidateStageRequest) (*StageValidation, error)

	// NextStageNumber returns the number the next stage of the plan will get.
	NextStageNumber(ctx context.Context, planID string) (int, error)

	// CreateStage appends a stage to a plan.
	CreateStage(ctx context.Context, req CreateStageRequest) (*Stage, error)

	// GetStage retrieves a single stage.
	GetStage(ctx context.Context, stageID string) (*Stage, error)

	// ListStages lists the stages of a plan ordered by stage number.
	ListStages(ctx context.Context, planID string) ([]*Stage, error)

	// DeleteStage removes the last stage of a plan.
	DeleteStage(ctx context.Context, req DeleteStageRequest) error

	// ImportStages appends stages (with their tasks) from a template in order.
	ImportStages(ctx context.Context, req ImportStagesRequest) ([]*Stage, error)
}

// ValidateStageRequest contains parameters for a sequence dry run.
type ValidateStageRequest struct {
	PlanID    string
	StartDate string
	EndDate   string
}

// StageValidation is the outcome of a sequence dry run.
type StageValidation struct {
	Valid           bool   `json:"valid"`
	Rule            string `json:"rule,omitempty"`
	Message         string `json:"message,omitempty"`
	Detail          string `json:"detail,omitempty"`
	NextStageNumber int    `json:"next_stage_number"`
}

// CreateStageRequest contains parameters for creating a stage.
type CreateStageRequest struct {
	PlanID      string
	CoachID     string
	Title       string
	Description string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
}

// DeleteStageRequest contains parameters for deleting a stage.
type DeleteStageRequest struct {
	StageID string
	CoachID string
}

// ImportStagesRequest contains a parsed plan template.
type ImportStagesRequest struct {
	PlanID  string
	CoachID string
	Stages  []StageDraft
}

// StageDraft is one stage of an imported template.
type StageDraft struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	Tasks       []TaskDraft
}

// TaskDraft is one task of an imported template stage.
type TaskDraft struct {
	Title       string
	Description string
	Deadline    string
}

// Stage represents a stage entity at the port boundary.
type Stage struct {
	ID          string `json:"id"`
	PlanID      string `json:"plan_id"`
	StageNumber int    `json:"stage_number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsCompleted bool   `json:"is_completed"`
	CompletedAt string `json:"completed_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}
