package primary

import "context"

// RatingService defines the primary port for the coach rating prompt.
type RatingService interface {
	// CheckPrompt decides whether the rating prompt should open for this session.
	CheckPrompt(ctx context.Context, req PromptRequest) (*PromptDecision, error)

	// DismissPrompt records that the prompt was closed without rating.
	DismissPrompt(ctx context.Context, req PromptRequest) error

	// SubmitRating creates the single coach rating for a plan.
	SubmitRating(ctx context.Context, req SubmitRatingRequest) (*Rating, error)
}

// PromptRequest identifies the session and plan the prompt is evaluated for.
type PromptRequest struct {
	SessionID string
	PlanID    string
	UserID    string
	Explicit  bool
}

// PromptDecision tells the caller whether to show the prompt.
type PromptDecision struct {
	Open    bool   `json:"open"`
	Reason  string `json:"reason"`
	PlanID  string `json:"plan_id"`
	CoachID string `json:"coach_id,omitempty"`
}

// SubmitRatingRequest contains parameters for rating a coach.
type SubmitRatingRequest struct {
	SessionID    string
	PlanID       string
	UserID       string
	CoachID      string
	Rating       int
	Content      string
	FeedbackType string
}

// Rating represents a coach rating at the port boundary.
type Rating struct {
	ID           string `json:"id"`
	PlanID       string `json:"plan_id"`
	CoachID      string `json:"coach_id"`
	UserID       string `json:"user_id"`
	Rating       int    `json:"rating"`
	Content      string `json:"content,omitempty"`
	FeedbackType string `json:"feedback_type"`
	CreatedAt    string `json:"created_at"`
}
