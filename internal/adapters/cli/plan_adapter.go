// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/quitplan/internal/ports/primary"
)

// PlanAdapter is a thin adapter that translates CLI operations to PlanService calls.
type PlanAdapter struct {
	service primary.PlanService
	out     io.Writer
}

// NewPlanAdapter creates a new PlanAdapter with the given service.
func NewPlanAdapter(service primary.PlanService, out io.Writer) *PlanAdapter {
	return &PlanAdapter{
		service: service,
		out:     out,
	}
}

// Request opens a plan request for the user.
func (a *PlanAdapter) Request(ctx context.Context, userID, name, reason string) error {
	plan, err := a.service.RequestPlan(ctx, primary.RequestPlanRequest{
		UserID: userID,
		Name:   name,
		Reason: reason,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Requested plan %s: %s\n", ok(), plan.ID, plan.Name)
	return nil
}

// Approve accepts a pending request.
func (a *PlanAdapter) Approve(ctx context.Context, planID, coachID string) error {
	plan, err := a.service.ApprovePlan(ctx, primary.ReviewPlanRequest{PlanID: planID, CoachID: coachID})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Plan %s approved (coach: %s)\n", ok(), plan.ID, plan.CoachID)
	return nil
}

// Reject declines a pending request.
func (a *PlanAdapter) Reject(ctx context.Context, planID, coachID string) error {
	plan, err := a.service.RejectPlan(ctx, primary.ReviewPlanRequest{PlanID: planID, CoachID: coachID})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Plan %s rejected\n", ok(), plan.ID)
	return nil
}

// Create fills in an approved request.
func (a *PlanAdapter) Create(ctx context.Context, req primary.CreatePlanRequest) error {
	plan, err := a.service.CreatePlan(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Plan %s created: %s (%s → %s)\n", ok(), plan.ID, plan.Name, plan.StartDate, plan.TargetQuitDate)
	return nil
}

// List lists plans with optional filters.
func (a *PlanAdapter) List(ctx context.Context, filters primary.PlanFilters) error {
	plans, err := a.service.ListPlans(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	if len(plans) == 0 {
		fmt.Fprintln(a.out, "No plans found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-10s %-10s %s\n", "ID", "STATUS", "USER", "COACH", "NAME")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, p := range plans {
		coach := p.CoachID
		if coach == "" {
			coach = "-"
		}
		fmt.Fprintf(a.out, "%-10s %-10s %-10s %-10s %s\n", p.ID, p.Status, p.UserID, coach, p.Name)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single plan.
func (a *PlanAdapter) Show(ctx context.Context, planID string) (*primary.Plan, error) {
	plan, err := a.service.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	fmt.Fprintf(a.out, "\nPlan:    %s\n", plan.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", plan.Name)
	fmt.Fprintf(a.out, "Status:  %s\n", plan.Status)
	fmt.Fprintf(a.out, "User:    %s\n", plan.UserID)
	if plan.CoachID != "" {
		fmt.Fprintf(a.out, "Coach:   %s\n", plan.CoachID)
	}
	if plan.Reason != "" {
		fmt.Fprintf(a.out, "Reason:  %s\n", plan.Reason)
	}
	if plan.StartDate != "" {
		fmt.Fprintf(a.out, "Dates:   %s → %s\n", plan.StartDate, plan.TargetQuitDate)
	}
	fmt.Fprintf(a.out, "Created: %s\n", plan.CreatedAt)
	fmt.Fprintln(a.out)

	return plan, nil
}
