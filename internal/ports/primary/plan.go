package primary

import "context"

// PlanService defines the primary port for quit plan lifecycle operations.
type PlanService interface {
	// RequestPlan opens a pending plan request for a user.
	RequestPlan(ctx context.Context, req RequestPlanRequest) (*Plan, error)

	// ApprovePlan accepts a pending request and assigns the acting coach.
	ApprovePlan(ctx context.Context, req ReviewPlanRequest) (*Plan, error)

	// RejectPlan declines a pending request.
	RejectPlan(ctx context.Context, req ReviewPlanRequest) (*Plan, error)

	// CreatePlan fills in an approved request and moves it to created.
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)

	// GetPlan retrieves a plan by ID.
	GetPlan(ctx context.Context, planID string) (*Plan, error)

	// ListPlans lists plans with optional filters.
	ListPlans(ctx context.Context, filters PlanFilters) ([]*Plan, error)
}

// RequestPlanRequest contains parameters for requesting a plan.
type RequestPlanRequest struct {
	UserID string
	Name   string
	Reason string
}

// ReviewPlanRequest contains parameters for approving or rejecting a request.
type ReviewPlanRequest struct {
	PlanID  string
	CoachID string
}

// CreatePlanRequest contains parameters for creating a plan from an approved request.
type CreatePlanRequest struct {
	PlanID         string
	CoachID        string
	Name           string // Optional; keeps the requested name when empty
	Reason         string
	StartDate      string // YYYY-MM-DD
	TargetQuitDate string // YYYY-MM-DD
}

// Plan represents a quit plan entity at the port boundary.
type Plan struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	CoachID        string `json:"coach_id,omitempty"`
	Name           string `json:"name"`
	Reason         string `json:"reason,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	TargetQuitDate string `json:"target_quit_date,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// PlanFilters contains filter options for listing plans.
type PlanFilters struct {
	UserID  string
	CoachID string
	Status  string
}
