package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/quitplan/internal/core/plan"
	"github.com/example/quitplan/internal/ports/secondary"
)

// syncPlanStatus applies the implicit created->active and active->completed
// transitions and updates record in place.
func syncPlanStatus(ctx context.Context, planRepo secondary.PlanRepository, record *secondary.PlanRecord, stageCount int, allStagesCompleted bool) error {
	current := plan.Status(record.Status)
	next := plan.DeriveStatus(current, stageCount, allStagesCompleted)
	if next == current {
		return nil
	}

	if err := planRepo.UpdateStatus(ctx, record.ID, string(next)); err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}

	slog.InfoContext(ctx, "plan status changed", "plan_id", record.ID, "from", current, "to", next)
	record.Status = string(next)
	return nil
}
