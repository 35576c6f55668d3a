package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/quitplan/internal/core/rating"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/ports/secondary"
)

// RatingServiceImpl implements the RatingService interface.
type RatingServiceImpl struct {
	planRepo   secondary.PlanRepository
	stageRepo  secondary.StageRepository
	ratingRepo secondary.RatingRepository
	sessions   secondary.SessionStore
	sessionTTL time.Duration
}

// NewRatingService creates a new RatingService with injected dependencies.
// Session state lives in sessions for sessionTTL.
func NewRatingService(
	planRepo secondary.PlanRepository,
	stageRepo secondary.StageRepository,
	ratingRepo secondary.RatingRepository,
	sessions secondary.SessionStore,
	sessionTTL time.Duration,
) *RatingServiceImpl {
	return &RatingServiceImpl{
		planRepo:   planRepo,
		stageRepo:  stageRepo,
		ratingRepo: ratingRepo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

func sessionKey(sessionID, planID, userID string) string {
	return sessionID + ":" + planID + ":" + userID
}

// CheckPrompt decides whether the rating prompt should open for this session.
// The has-rated query runs at most once per session; its answer is cached.
func (s *RatingServiceImpl) CheckPrompt(ctx context.Context, req primary.PromptRequest) (*primary.PromptDecision, error) {
	if err := requireField("session", req.SessionID); err != nil {
		return nil, err
	}

	planRecord, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(planRecord.ID, planRecord.UserID, req.UserID); err != nil {
		return nil, err
	}

	key := sessionKey(req.SessionID, req.PlanID, req.UserID)
	state, err := s.loadSession(ctx, key)
	if err != nil {
		return nil, err
	}

	if !state.HasRatedKnown {
		existing, err := s.ratingRepo.GetByPlanAndUser(ctx, req.PlanID, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing rating: %w", err)
		}
		state.HasRated = existing != nil
		state.HasRatedKnown = true
	}

	allCompleted, err := s.allStagesCompleted(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	decision, next := rating.Evaluate(state, rating.Observation{
		AllStagesCompleted: allCompleted,
		CoachAssigned:      planRecord.CoachID != "",
		Explicit:           req.Explicit,
	})
	if err := s.saveSession(ctx, key, next); err != nil {
		return nil, err
	}

	if decision.Open {
		slog.InfoContext(ctx, "rating prompt opened", "plan_id", req.PlanID, "user_id", req.UserID, "explicit", req.Explicit)
	}

	return &primary.PromptDecision{
		Open:    decision.Open,
		Reason:  decision.Reason,
		PlanID:  planRecord.ID,
		CoachID: planRecord.CoachID,
	}, nil
}

// DismissPrompt records that the prompt was closed without rating.
func (s *RatingServiceImpl) DismissPrompt(ctx context.Context, req primary.PromptRequest) error {
	if err := requireField("session", req.SessionID); err != nil {
		return err
	}
	planRecord, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return err
	}
	if err := requireOwner(planRecord.ID, planRecord.UserID, req.UserID); err != nil {
		return err
	}

	key := sessionKey(req.SessionID, req.PlanID, req.UserID)
	state, err := s.loadSession(ctx, key)
	if err != nil {
		return err
	}
	return s.saveSession(ctx, key, rating.Dismiss(state))
}

// SubmitRating creates the single coach rating for a plan and flips the
// session's has-rated flag so the prompt never reopens.
func (s *RatingServiceImpl) SubmitRating(ctx context.Context, req primary.SubmitRatingRequest) (*primary.Rating, error) {
	planRecord, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(planRecord.ID, planRecord.UserID, req.UserID); err != nil {
		return nil, err
	}

	allCompleted, err := s.allStagesCompleted(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	existing, err := s.ratingRepo.GetByPlanAndUser(ctx, req.PlanID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}

	feedbackType := req.FeedbackType
	if feedbackType == "" {
		feedbackType = rating.FeedbackTypeUserToCoach
	}

	result := rating.CanSubmitRating(rating.SubmitContext{
		PlanID:             planRecord.ID,
		Rating:             req.Rating,
		FeedbackType:       feedbackType,
		CoachID:            planRecord.CoachID,
		RequestedCoachID:   req.CoachID,
		AllStagesCompleted: allCompleted,
		AlreadyRated:       existing != nil,
	})
	if !result.Allowed {
		switch result.Rule {
		case rating.RuleInvalidFeedbackType, rating.RuleInvalidRating, rating.RuleCoachMismatch:
			return nil, &primary.ValidationError{Rule: result.Rule, Message: result.Reason}
		default:
			return nil, conflictError(result.Reason)
		}
	}

	nextID, err := s.ratingRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rating ID: %w", err)
	}

	record := &secondary.RatingRecord{
		ID:           nextID,
		PlanID:       planRecord.ID,
		CoachID:      planRecord.CoachID,
		UserID:       req.UserID,
		Rating:       req.Rating,
		Content:      req.Content,
		FeedbackType: feedbackType,
	}
	if err := s.ratingRepo.Create(ctx, record); err != nil {
		if errors.Is(err, secondary.ErrDuplicate) {
			return nil, conflictError(fmt.Sprintf("coach already rated for plan %s", planRecord.ID))
		}
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	if req.SessionID != "" {
		key := sessionKey(req.SessionID, req.PlanID, req.UserID)
		state, err := s.loadSession(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := s.saveSession(ctx, key, rating.MarkRated(state)); err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "coach rated", "plan_id", planRecord.ID, "coach_id", planRecord.CoachID, "rating", req.Rating)

	created, err := s.ratingRepo.GetByPlanAndUser(ctx, planRecord.ID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created rating: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("rating %s not found after create", nextID)
	}
	return recordToRating(created), nil
}

func (s *RatingServiceImpl) allStagesCompleted(ctx context.Context, planID string) (bool, error) {
	stages, err := s.stageRepo.ListByPlan(ctx, planID)
	if err != nil {
		return false, fmt.Errorf("failed to list stages: %w", err)
	}
	if len(stages) == 0 {
		return false, nil
	}
	for _, st := range stages {
		if !st.IsCompleted {
			return false, nil
		}
	}
	return true, nil
}

func (s *RatingServiceImpl) loadSession(ctx context.Context, key string) (rating.SessionState, error) {
	record, err := s.sessions.Get(ctx, key)
	if err != nil {
		return rating.SessionState{}, fmt.Errorf("failed to load rating session: %w", err)
	}
	if record == nil {
		return rating.SessionState{}, nil
	}
	return rating.SessionState{
		HasRated:          record.HasRated,
		HasRatedKnown:     record.HasRatedKnown,
		PromptShown:       record.PromptShown,
		Dismissed:         record.Dismissed,
		ObservedCompleted: record.ObservedCompleted,
	}, nil
}

func (s *RatingServiceImpl) saveSession(ctx context.Context, key string, state rating.SessionState) error {
	err := s.sessions.Put(ctx, key, &secondary.RatingSessionRecord{
		HasRated:          state.HasRated,
		HasRatedKnown:     state.HasRatedKnown,
		PromptShown:       state.PromptShown,
		Dismissed:         state.Dismissed,
		ObservedCompleted: state.ObservedCompleted,
	}, s.sessionTTL)
	if err != nil {
		return fmt.Errorf("failed to save rating session: %w", err)
	}
	return nil
}

// Ensure RatingServiceImpl implements the interface
var _ primary.RatingService = (*RatingServiceImpl)(nil)
