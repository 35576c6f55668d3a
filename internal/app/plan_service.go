package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/quitplan/internal/core/calendar"
	"github.com/example/quitplan/internal/core/plan"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/ports/secondary"
)

// PlanServiceImpl implements the PlanService interface.
type PlanServiceImpl struct {
	planRepo secondary.PlanRepository
}

// NewPlanService creates a new PlanService with injected dependencies.
func NewPlanService(planRepo secondary.PlanRepository) *PlanServiceImpl {
	return &PlanServiceImpl{planRepo: planRepo}
}

// RequestPlan opens a pending plan request for a user.
func (s *PlanServiceImpl) RequestPlan(ctx context.Context, req primary.RequestPlanRequest) (*primary.Plan, error) {
	if err := requireField("user", req.UserID); err != nil {
		return nil, err
	}
	if err := requireField("name", req.Name); err != nil {
		return nil, err
	}

	open, err := s.planRepo.GetOpenPlanForUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open plans: %w", err)
	}

	guardCtx := plan.RequestPlanContext{UserID: req.UserID}
	if open != nil {
		guardCtx.OpenPlanID = open.ID
		guardCtx.OpenStatus = plan.Status(open.Status)
	}
	if result := plan.CanRequestPlan(guardCtx); !result.Allowed {
		return nil, conflictError(result.Reason)
	}

	nextID, err := s.planRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan ID: %w", err)
	}

	record := &secondary.PlanRecord{
		ID:     nextID,
		UserID: req.UserID,
		Name:   req.Name,
		Reason: req.Reason,
		Status: string(plan.StatusPending),
	}
	if err := s.planRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	slog.InfoContext(ctx, "quit plan requested", "plan_id", nextID, "user_id", req.UserID)
	return s.GetPlan(ctx, nextID)
}

// ApprovePlan accepts a pending request and assigns the acting coach.
func (s *PlanServiceImpl) ApprovePlan(ctx context.Context, req primary.ReviewPlanRequest) (*primary.Plan, error) {
	return s.review(ctx, req, plan.StatusApproved, plan.CanApprovePlan)
}

// RejectPlan declines a pending request.
func (s *PlanServiceImpl) RejectPlan(ctx context.Context, req primary.ReviewPlanRequest) (*primary.Plan, error) {
	return s.review(ctx, req, plan.StatusRejected, plan.CanRejectPlan)
}

func (s *PlanServiceImpl) review(ctx context.Context, req primary.ReviewPlanRequest, to plan.Status, guard func(plan.ReviewPlanContext) plan.GuardResult) (*primary.Plan, error) {
	if err := requireField("coach", req.CoachID); err != nil {
		return nil, err
	}

	record, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	result := guard(plan.ReviewPlanContext{
		PlanID:  record.ID,
		Status:  plan.Status(record.Status),
		CoachID: req.CoachID,
	})
	if !result.Allowed {
		return nil, conflictError(result.Reason)
	}

	if err := s.planRepo.AssignCoach(ctx, record.ID, req.CoachID); err != nil {
		return nil, fmt.Errorf("failed to assign coach: %w", err)
	}
	if err := s.planRepo.UpdateStatus(ctx, record.ID, string(to)); err != nil {
		return nil, fmt.Errorf("failed to update plan status: %w", err)
	}

	slog.InfoContext(ctx, "quit plan reviewed", "plan_id", record.ID, "coach_id", req.CoachID, "status", to)
	return s.GetPlan(ctx, record.ID)
}

// CreatePlan fills in an approved request and moves it to created.
func (s *PlanServiceImpl) CreatePlan(ctx context.Context, req primary.CreatePlanRequest) (*primary.Plan, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	target, err := parseDate("target_quit_date", req.TargetQuitDate)
	if err != nil {
		return nil, err
	}
	if !target.After(start) {
		return nil, validationError(ruleInvalidRange, "target quit date %s must be after start date %s",
			calendar.Format(target), calendar.Format(start))
	}

	record, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if err := requireCoach(record.ID, record.CoachID, req.CoachID); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = record.Name
	}

	result := plan.CanCreatePlan(plan.CreatePlanContext{
		PlanID:         record.ID,
		Status:         plan.Status(record.Status),
		AssignedCoach:  record.CoachID,
		ActingCoach:    req.CoachID,
		StartDate:      req.StartDate,
		TargetQuitDate: req.TargetQuitDate,
		Name:           name,
	})
	if !result.Allowed {
		return nil, conflictError(result.Reason)
	}

	update := &secondary.PlanRecord{
		ID:             record.ID,
		Name:           name,
		Reason:         req.Reason,
		StartDate:      calendar.Format(start),
		TargetQuitDate: calendar.Format(target),
	}
	if err := s.planRepo.Update(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	if err := s.planRepo.UpdateStatus(ctx, record.ID, string(plan.StatusCreated)); err != nil {
		return nil, fmt.Errorf("failed to update plan status: %w", err)
	}

	slog.InfoContext(ctx, "quit plan created", "plan_id", record.ID, "coach_id", req.CoachID)
	return s.GetPlan(ctx, record.ID)
}

// GetPlan retrieves a plan by ID.
func (s *PlanServiceImpl) GetPlan(ctx context.Context, planID string) (*primary.Plan, error) {
	record, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return recordToPlan(record), nil
}

// ListPlans lists plans with optional filters.
func (s *PlanServiceImpl) ListPlans(ctx context.Context, filters primary.PlanFilters) ([]*primary.Plan, error) {
	records, err := s.planRepo.List(ctx, secondary.PlanFilters{
		UserID:  filters.UserID,
		CoachID: filters.CoachID,
		Status:  filters.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans := make([]*primary.Plan, len(records))
	for i, r := range records {
		plans[i] = recordToPlan(r)
	}
	return plans, nil
}

// Ensure PlanServiceImpl implements the interface
var _ primary.PlanService = (*PlanServiceImpl)(nil)
