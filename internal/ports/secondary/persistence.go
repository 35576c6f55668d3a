// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// PlanRepository defines the secondary port for quit plan persistence.
type PlanRepository interface {
	// Create persists a new plan.
	Create(ctx context.Context, plan *PlanRecord) error

	// GetByID retrieves a plan by its ID.
	GetByID(ctx context.Context, id string) (*PlanRecord, error)

	// List retrieves plans matching the given filters.
	List(ctx context.Context, filters PlanFilters) ([]*PlanRecord, error)

	// Update updates name, reason and dates of an existing plan.
	Update(ctx context.Context, plan *PlanRecord) error

	// UpdateStatus sets the plan status.
	UpdateStatus(ctx context.Context, id, status string) error

	// AssignCoach sets the coach of a plan.
	AssignCoach(ctx context.Context, id, coachID string) error

	// GetOpenPlanForUser returns the user's plan that is neither rejected nor completed.
	// Returns nil, nil if there is none.
	GetOpenPlanForUser(ctx context.Context, userID string) (*PlanRecord, error)

	// GetNextID returns the next available plan ID.
	GetNextID(ctx context.Context) (string, error)
}

// PlanRecord represents a quit plan as stored in persistence.
type PlanRecord struct {
	ID             string
	UserID         string
	CoachID        string // Empty string means null (not yet approved)
	Name           string
	Reason         string
	StartDate      string // YYYY-MM-DD, empty until created
	TargetQuitDate string // YYYY-MM-DD, empty until created
	Status         string // pending, approved, rejected, created, active, completed
	CreatedAt      string
	UpdatedAt      string
}

// PlanFilters contains filter options for querying plans.
type PlanFilters struct {
	UserID  string
	CoachID string
	Status  string
}

// StageRepository defines the secondary port for stage persistence.
type StageRepository interface {
	// Create persists a new stage.
	Create(ctx context.Context, stage *StageRecord) error

	// GetByID retrieves a stage by its ID.
	GetByID(ctx context.Context, id string) (*StageRecord, error)

	// ListByPlan retrieves the stages of a plan ordered by stage number.
	ListByPlan(ctx context.Context, planID string) ([]*StageRecord, error)

	// Delete removes a stage (and its tasks) from persistence.
	Delete(ctx context.Context, id string) error

	// MarkCompleted sets is_completed and completed_at on a stage.
	MarkCompleted(ctx context.Context, id string) error

	// GetNextID returns the next available stage ID.
	GetNextID(ctx context.Context) (string, error)
}

// StageRecord represents a stage as stored in persistence.
type StageRecord struct {
	ID          string
	PlanID      string
	StageNumber int
	Title       string
	Description string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
	IsCompleted bool
	CompletedAt string // Empty string means null
	CreatedAt   string
	UpdatedAt   string
}

// TaskRepository defines the secondary port for task persistence.
// Completion is a separate record keyed by task ID; IsCompleted on TaskRecord
// is derived from it.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)

	// ListByStage retrieves the tasks of a stage ordered by position.
	ListByStage(ctx context.Context, stageID string) ([]*TaskRecord, error)

	// Update updates title, description and deadline of an existing task.
	Update(ctx context.Context, task *TaskRecord) error

	// Delete removes a task from persistence.
	Delete(ctx context.Context, id string) error

	// MarkCompleted writes the completion record for a task.
	// Returns false if the record already existed.
	MarkCompleted(ctx context.Context, taskID, completedBy string) (bool, error)

	// GetNextID returns the next available task ID.
	GetNextID(ctx context.Context) (string, error)
}

// TaskRecord represents a task as stored in persistence.
type TaskRecord struct {
	ID          string
	StageID     string
	Position    int
	Title       string
	Description string // Empty string means null
	Deadline    string // YYYY-MM-DD, empty string means null
	IsCompleted bool   // Derived from the completion record
	CompletedBy string
	CompletedAt string
	CreatedAt   string
	UpdatedAt   string
}

// RatingRepository defines the secondary port for coach rating persistence.
type RatingRepository interface {
	// Create persists a new rating.
	Create(ctx context.Context, rating *RatingRecord) error

	// GetByPlanAndUser returns the rating for a (plan, user) pair.
	// Returns nil, nil if none exists.
	GetByPlanAndUser(ctx context.Context, planID, userID string) (*RatingRecord, error)

	// ListByCoach returns the ratings a coach received.
	ListByCoach(ctx context.Context, coachID string) ([]*RatingRecord, error)

	// GetNextID returns the next available rating ID.
	GetNextID(ctx context.Context) (string, error)
}

// RatingRecord represents a coach rating as stored in persistence.
type RatingRecord struct {
	ID           string
	PlanID       string
	CoachID      string
	UserID       string
	Rating       int
	Content      string
	FeedbackType string
	CreatedAt    string
}
