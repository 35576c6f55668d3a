package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/quitplan/internal/core/plan"
	"github.com/example/quitplan/internal/core/progress"
	"github.com/example/quitplan/internal/core/progression"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/ports/secondary"
)

// ProgressionServiceImpl implements the ProgressionService interface.
type ProgressionServiceImpl struct {
	planRepo  secondary.PlanRepository
	stageRepo secondary.StageRepository
	taskRepo  secondary.TaskRepository
}

// NewProgressionService creates a new ProgressionService with injected dependencies.
func NewProgressionService(
	planRepo secondary.PlanRepository,
	stageRepo secondary.StageRepository,
	taskRepo secondary.TaskRepository,
) *ProgressionServiceImpl {
	return &ProgressionServiceImpl{
		planRepo:  planRepo,
		stageRepo: stageRepo,
		taskRepo:  taskRepo,
	}
}

// GetProgression returns the derived progression view of a plan.
func (s *ProgressionServiceImpl) GetProgression(ctx context.Context, planID string) (*primary.Progression, error) {
	planRecord, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	stages, states, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	return buildProgression(planRecord, stages, states), nil
}

// MoveToNextStage completes the current stage when all its tasks are done,
// then recomputes the current stage from the reloaded list.
func (s *ProgressionServiceImpl) MoveToNextStage(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error) {
	planRecord, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(planRecord.ID, planRecord.UserID, req.UserID); err != nil {
		return nil, err
	}

	stages, states, err := s.load(ctx, planRecord.ID)
	if err != nil {
		return nil, err
	}

	if err := progression.CanAdvance(states); err != nil {
		var incomplete *progression.IncompleteTasksError
		if errors.As(err, &incomplete) {
			slog.InfoContext(ctx, "advance denied", "plan_id", planRecord.ID, "stage_id", incomplete.StageID, "remaining", incomplete.Remaining)
			return nil, err
		}
		return nil, conflictError(fmt.Sprintf("plan %s: %v", planRecord.ID, err))
	}

	idx, _ := progression.CurrentStage(states)
	current := stages[idx]
	if err := s.stageRepo.MarkCompleted(ctx, current.ID); err != nil {
		return nil, fmt.Errorf("failed to complete stage: %w", err)
	}

	stages, states, err = s.load(ctx, planRecord.ID)
	if err != nil {
		return nil, err
	}
	allCompleted := progression.AllStagesCompleted(states)
	if err := syncPlanStatus(ctx, s.planRepo, planRecord, len(stages), allCompleted); err != nil {
		return nil, err
	}

	completed, err := s.stageRepo.GetByID(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed stage: %w", err)
	}

	slog.InfoContext(ctx, "stage completed", "plan_id", planRecord.ID, "stage_id", current.ID, "plan_completed", allCompleted)

	return &primary.AdvanceResponse{
		CompletedStage: recordToStage(completed),
		Progression:    buildProgression(planRecord, stages, states),
		PlanCompleted:  plan.Status(planRecord.Status) == plan.StatusCompleted,
	}, nil
}

// load reads the plan's stages with per-stage task progress.
func (s *ProgressionServiceImpl) load(ctx context.Context, planID string) ([]*secondary.StageRecord, []progression.StageState, error) {
	return loadStageStates(ctx, s.stageRepo, s.taskRepo, planID)
}

func loadStageStates(ctx context.Context, stageRepo secondary.StageRepository, taskRepo secondary.TaskRepository, planID string) ([]*secondary.StageRecord, []progression.StageState, error) {
	stages, err := stageRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list stages: %w", err)
	}

	states := make([]progression.StageState, len(stages))
	for i, st := range stages {
		tasks, err := taskRepo.ListByStage(ctx, st.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list tasks for stage %s: %w", st.ID, err)
		}
		states[i] = progression.StageState{
			ID:          st.ID,
			Number:      st.StageNumber,
			IsCompleted: st.IsCompleted,
			Progress:    progress.Compute(recordsToTaskList(tasks).Completed()),
		}
	}
	return stages, states, nil
}

func buildProgression(planRecord *secondary.PlanRecord, stages []*secondary.StageRecord, states []progression.StageState) *primary.Progression {
	snap := progression.BuildSnapshot(states)

	out := &primary.Progression{
		PlanID:             planRecord.ID,
		PlanStatus:         planRecord.Status,
		Stages:             make([]primary.StageProgress, len(stages)),
		Plan:               toFigure(snap.Plan),
		AllStagesCompleted: snap.AllCompleted,
		ReadyToAdvance:     snap.ReadyToAdvance,
	}
	for i, st := range stages {
		out.Stages[i] = primary.StageProgress{
			Stage:    recordToStage(st),
			Progress: toFigure(states[i].Progress),
		}
	}
	if snap.Current != nil {
		current := out.Stages[snap.CurrentIndex]
		out.CurrentStage = &current
	}
	return out
}

// Ensure ProgressionServiceImpl implements the interface
var _ primary.ProgressionService = (*ProgressionServiceImpl)(nil)
