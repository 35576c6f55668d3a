package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/quitplan/internal/core/calendar"
	"github.com/example/quitplan/internal/core/plan"
	"github.com/example/quitplan/internal/core/progression"
	"github.com/example/quitplan/internal/core/stage"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/ports/secondary"
)

// StageServiceImpl implements the StageService interface.
type StageServiceImpl struct {
	planRepo  secondary.PlanRepository
	stageRepo secondary.StageRepository
	taskRepo  secondary.TaskRepository
}

// NewStageService creates a new StageService with injected dependencies.
func NewStageService(
	planRepo secondary.PlanRepository,
	stageRepo secondary.StageRepository,
	taskRepo secondary.TaskRepository,
) *StageServiceImpl {
	return &StageServiceImpl{
		planRepo:  planRepo,
		stageRepo: stageRepo,
		taskRepo:  taskRepo,
	}
}

// spans is the stage.StageLookup backed by the stage repository.
func (s *StageServiceImpl) spans(ctx context.Context, planID string) ([]stage.Span, error) {
	records, err := s.stageRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return recordsToSpans(records)
}

func recordsToSpans(records []*secondary.StageRecord) ([]stage.Span, error) {
	spans := make([]stage.Span, len(records))
	for i, r := range records {
		start, err := calendar.Parse(r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("stage %s has invalid start date: %w", r.ID, err)
		}
		end, err := calendar.Parse(r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("stage %s has invalid end date: %w", r.ID, err)
		}
		spans[i] = stage.Span{ID: r.ID, Number: r.StageNumber, StartDate: start, EndDate: end}
	}
	return spans, nil
}

// ValidateStageSequence checks a proposed date range without writing.
func (s *StageServiceImpl) ValidateStageSequence(ctx context.Context, req primary.ValidateStageRequest) (*primary.StageValidation, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.GetByID(ctx, req.PlanID); err != nil {
		return nil, err
	}

	existing, err := s.spans(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}
	lookup := func(context.Context, string) ([]stage.Span, error) { return existing, nil }

	result, err := stage.ValidateStageSequence(ctx, start, end, req.PlanID, lookup)
	if err != nil {
		return nil, err
	}

	return &primary.StageValidation{
		Valid:           result.Valid,
		Rule:            string(result.Rule),
		Message:         result.Message,
		Detail:          result.Detail,
		NextStageNumber: stage.NextNumber(existing),
	}, nil
}

// NextStageNumber returns the number the next stage of the plan will get.
func (s *StageServiceImpl) NextStageNumber(ctx context.Context, planID string) (int, error) {
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		return 0, err
	}
	return stage.NextStageNumber(ctx, planID, s.spans)
}

// CreateStage appends a stage to a plan.
func (s *StageServiceImpl) CreateStage(ctx context.Context, req primary.CreateStageRequest) (*primary.Stage, error) {
	if err := requireField("title", req.Title); err != nil {
		return nil, err
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	planRecord, err := s.editablePlan(ctx, req.PlanID, req.CoachID)
	if err != nil {
		return nil, err
	}

	result, err := stage.ValidateStageSequence(ctx, start, end, req.PlanID, s.spans)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &primary.ValidationError{Rule: string(result.Rule), Message: result.Detail}
	}

	record, err := s.insertStage(ctx, planRecord, primary.StageDraft{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   calendar.Format(start),
		EndDate:     calendar.Format(end),
	})
	if err != nil {
		return nil, err
	}
	return recordToStage(record), nil
}

// ListStages lists the stages of a plan ordered by stage number.
// GetStage retrieves a single stage.
func (s *StageServiceImpl) GetStage(ctx context.Context, stageID string) (*primary.Stage, error) {
	record, err := s.stageRepo.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	return recordToStage(record), nil
}

func (s *StageServiceImpl) ListStages(ctx context.Context, planID string) ([]*primary.Stage, error) {
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		return nil, err
	}

	records, err := s.stageRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	stages := make([]*primary.Stage, len(records))
	for i, r := range records {
		stages[i] = recordToStage(r)
	}
	return stages, nil
}

// DeleteStage removes the last stage of a plan.
func (s *StageServiceImpl) DeleteStage(ctx context.Context, req primary.DeleteStageRequest) error {
	record, err := s.stageRepo.GetByID(ctx, req.StageID)
	if err != nil {
		return err
	}
	planRecord, err := s.editablePlan(ctx, record.PlanID, req.CoachID)
	if err != nil {
		return err
	}

	existing, err := s.spans(ctx, record.PlanID)
	if err != nil {
		return fmt.Errorf("failed to load stages: %w", err)
	}

	result := stage.CanDeleteStage(stage.DeleteStageContext{
		StageID:        record.ID,
		StageNumber:    record.StageNumber,
		MaxStageNumber: stage.NextNumber(existing) - 1,
		IsCompleted:    record.IsCompleted,
	})
	if !result.Allowed {
		code := "not_last_stage"
		if record.IsCompleted {
			code = "stage_completed"
		}
		return &primary.DeniedError{Code: code, Reason: result.Reason}
	}

	if err := s.stageRepo.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}

	slog.InfoContext(ctx, "stage deleted", "plan_id", planRecord.ID, "stage_id", record.ID, "stage_number", record.StageNumber)

	// The stages left may all be completed already.
	remaining, states, err := loadStageStates(ctx, s.stageRepo, s.taskRepo, planRecord.ID)
	if err != nil {
		return err
	}
	return syncPlanStatus(ctx, s.planRepo, planRecord, len(remaining), progression.AllStagesCompleted(states))
}

// ImportStages appends the template's stages and tasks after the plan's existing stages.
// The whole template is sequence-checked before anything is written.
func (s *StageServiceImpl) ImportStages(ctx context.Context, req primary.ImportStagesRequest) ([]*primary.Stage, error) {
	if len(req.Stages) == 0 {
		return nil, validationError(ruleMissingField, "template has no stages")
	}

	planRecord, err := s.editablePlan(ctx, req.PlanID, req.CoachID)
	if err != nil {
		return nil, err
	}

	existing, err := s.spans(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}

	drafts := make([]primary.StageDraft, len(req.Stages))
	for i, d := range req.Stages {
		if err := requireField(fmt.Sprintf("stages[%d].title", i), d.Title); err != nil {
			return nil, err
		}
		start, end, err := parseRange(d.StartDate, d.EndDate)
		if err != nil {
			return nil, err
		}
		if result := stage.CheckSequence(start, end, existing); !result.Valid {
			return nil, &primary.ValidationError{
				Rule:    string(result.Rule),
				Message: fmt.Sprintf("stage %q: %s", d.Title, result.Detail),
			}
		}
		for j, t := range d.Tasks {
			if err := requireField(fmt.Sprintf("stages[%d].tasks[%d].title", i, j), t.Title); err != nil {
				return nil, err
			}
			if err := parseOptionalDate("deadline", t.Deadline); err != nil {
				return nil, err
			}
		}

		existing = append(existing, stage.Span{Number: stage.NextNumber(existing), StartDate: start, EndDate: end})
		d.StartDate = calendar.Format(start)
		d.EndDate = calendar.Format(end)
		drafts[i] = d
	}

	created := make([]*primary.Stage, 0, len(drafts))
	for _, d := range drafts {
		record, err := s.insertStage(ctx, planRecord, d)
		if err != nil {
			return nil, err
		}
		created = append(created, recordToStage(record))
	}

	slog.InfoContext(ctx, "stages imported", "plan_id", planRecord.ID, "count", len(created))
	return created, nil
}

// editablePlan loads a plan and checks the coach may change its content.
func (s *StageServiceImpl) editablePlan(ctx context.Context, planID, coachID string) (*secondary.PlanRecord, error) {
	if err := requireField("coach", coachID); err != nil {
		return nil, err
	}

	record, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := requireCoach(record.ID, record.CoachID, coachID); err != nil {
		return nil, err
	}

	result := plan.CanEditPlan(plan.EditPlanContext{
		PlanID:        record.ID,
		Status:        plan.Status(record.Status),
		AssignedCoach: record.CoachID,
		ActingCoach:   coachID,
	})
	if !result.Allowed {
		return nil, conflictError(result.Reason)
	}
	return record, nil
}

// insertStage writes one already-validated stage with its tasks, then
// re-verifies the ordering invariant and applies the implicit plan status.
func (s *StageServiceImpl) insertStage(ctx context.Context, planRecord *secondary.PlanRecord, d primary.StageDraft) (*secondary.StageRecord, error) {
	number, err := stage.NextStageNumber(ctx, planRecord.ID, s.spans)
	if err != nil {
		return nil, err
	}

	nextID, err := s.stageRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate stage ID: %w", err)
	}

	record := &secondary.StageRecord{
		ID:          nextID,
		PlanID:      planRecord.ID,
		StageNumber: number,
		Title:       d.Title,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
	}
	if err := s.stageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}

	for i, t := range d.Tasks {
		taskID, err := s.taskRepo.GetNextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate task ID: %w", err)
		}
		err = s.taskRepo.Create(ctx, &secondary.TaskRecord{
			ID:          taskID,
			StageID:     nextID,
			Position:    i + 1,
			Title:       t.Title,
			Description: t.Description,
			Deadline:    t.Deadline,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
	}

	after, err := s.spans(ctx, planRecord.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload stages: %w", err)
	}
	if err := stage.VerifyOrdering(after); err != nil {
		return nil, fmt.Errorf("stage ordering violated after creating %s: %w", nextID, err)
	}

	if err := syncPlanStatus(ctx, s.planRepo, planRecord, len(after), false); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "stage created", "plan_id", planRecord.ID, "stage_id", nextID, "stage_number", number, "tasks", len(d.Tasks))

	created, err := s.stageRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created stage: %w", err)
	}
	return created, nil
}

func parseRange(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := parseDate("start_date", startValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("end_date", endValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Ensure StageServiceImpl implements the interface
var _ primary.StageService = (*StageServiceImpl)(nil)
