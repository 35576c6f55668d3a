package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/quitplan/internal/core/calendar"
	"github.com/example/quitplan/internal/core/plan"
	"github.com/example/quitplan/internal/core/progress"
	"github.com/example/quitplan/internal/core/task"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/ports/secondary"
)

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	planRepo  secondary.PlanRepository
	stageRepo secondary.StageRepository
	taskRepo  secondary.TaskRepository
	now       func() time.Time
}

// NewTaskService creates a new TaskService with injected dependencies.
// now supplies "today" for the completion gate.
func NewTaskService(
	planRepo secondary.PlanRepository,
	stageRepo secondary.StageRepository,
	taskRepo secondary.TaskRepository,
	now func() time.Time,
) *TaskServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &TaskServiceImpl{
		planRepo:  planRepo,
		stageRepo: stageRepo,
		taskRepo:  taskRepo,
		now:       now,
	}
}

// CreateTask appends a task to a stage.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	if err := requireField("title", req.Title); err != nil {
		return nil, err
	}
	if err := parseOptionalDate("deadline", req.Deadline); err != nil {
		return nil, err
	}

	stageRecord, err := s.editableStage(ctx, req.StageID, req.CoachID)
	if err != nil {
		return nil, err
	}

	list, err := s.taskList(ctx, stageRecord.ID)
	if err != nil {
		return nil, err
	}

	nextID, err := s.taskRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	record := &secondary.TaskRecord{
		ID:          nextID,
		StageID:     stageRecord.ID,
		Position:    list.NextPosition(),
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.InfoContext(ctx, "task created", "stage_id", stageRecord.ID, "task_id", nextID, "position", record.Position)
	return s.getTask(ctx, nextID)
}

// UpdateTask updates title, description or deadline of a task.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, req primary.UpdateTaskRequest) (*primary.Task, error) {
	if err := parseOptionalDate("deadline", req.Deadline); err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.editableStage(ctx, record.StageID, req.CoachID); err != nil {
		return nil, err
	}

	err = s.taskRepo.Update(ctx, &secondary.TaskRecord{
		ID:          record.ID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.getTask(ctx, record.ID)
}

// DeleteTask removes a task.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, req primary.DeleteTaskRequest) error {
	record, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return err
	}
	if _, err := s.editableStage(ctx, record.StageID, req.CoachID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	slog.InfoContext(ctx, "task deleted", "stage_id", record.StageID, "task_id", record.ID)
	return nil
}

// ListTasks lists the tasks of a stage ordered by position.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, stageID string) ([]*primary.Task, error) {
	if _, err := s.stageRepo.GetByID(ctx, stageID); err != nil {
		return nil, err
	}

	records, err := s.taskRepo.ListByStage(ctx, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*primary.Task, len(records))
	for i, r := range records {
		tasks[i] = recordToTask(r)
	}
	return tasks, nil
}

// CompleteTask marks a task complete through the completion gate.
// Repeats are no-ops reported as AlreadyCompleted; a locked last task is
// reported as a Denial. Neither is an error.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, req primary.CompleteTaskRequest) (*primary.CompleteTaskResponse, error) {
	record, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	stageRecord, err := s.stageRepo.GetByID(ctx, record.StageID)
	if err != nil {
		return nil, err
	}
	planRecord, err := s.planRepo.GetByID(ctx, stageRecord.PlanID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(planRecord.ID, planRecord.UserID, req.UserID); err != nil {
		return nil, err
	}

	endDate, err := calendar.Parse(stageRecord.EndDate)
	if err != nil {
		return nil, fmt.Errorf("stage %s has invalid end date: %w", stageRecord.ID, err)
	}

	list, err := s.taskList(ctx, stageRecord.ID)
	if err != nil {
		return nil, err
	}

	gate := task.CanCompleteInList(list, record.ID, endDate, s.now().UTC())
	resp := &primary.CompleteTaskResponse{Task: recordToTask(record)}

	switch gate.Denial {
	case task.DenialAlreadyCompleted:
		resp.AlreadyCompleted = true
		return s.withProgress(resp, list), nil
	case task.DenialLocked:
		resp.Denial = &primary.Denial{
			Code:        string(gate.Denial),
			Reason:      gate.Reason,
			LockedUntil: calendar.Format(gate.LockedUntil),
		}
		slog.InfoContext(ctx, "task completion denied", "task_id", record.ID, "reason", gate.Reason)
		return s.withProgress(resp, list), nil
	}
	if !gate.Allowed {
		return nil, fmt.Errorf("task %s: %w", record.ID, gate.Error())
	}

	written, err := s.taskRepo.MarkCompleted(ctx, record.ID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	resp.AlreadyCompleted = !written

	refreshed, err := s.taskRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed task: %w", err)
	}
	resp.Task = recordToTask(refreshed)

	list, err = s.taskList(ctx, stageRecord.ID)
	if err != nil {
		return nil, err
	}
	s.withProgress(resp, list)

	slog.InfoContext(ctx, "task completed",
		"task_id", record.ID, "stage_id", stageRecord.ID,
		"percent", resp.Progress.Percent, "stage_completed", resp.StageCompleted)
	return resp, nil
}

func (s *TaskServiceImpl) withProgress(resp *primary.CompleteTaskResponse, list task.TaskList) *primary.CompleteTaskResponse {
	p := progress.Compute(list.Completed())
	resp.Progress = toFigure(p)
	resp.StageCompleted = p.StageCompleted()
	return resp
}

func (s *TaskServiceImpl) taskList(ctx context.Context, stageID string) (task.TaskList, error) {
	records, err := s.taskRepo.ListByStage(ctx, stageID)
	if err != nil {
		return task.TaskList{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return recordsToTaskList(records), nil
}

func recordsToTaskList(records []*secondary.TaskRecord) task.TaskList {
	items := make([]task.Item, len(records))
	for i, r := range records {
		items[i] = task.Item{ID: r.ID, Position: r.Position, Completed: r.IsCompleted}
	}
	return task.NewTaskList(items)
}

// editableStage loads a stage and checks the coach may change its tasks.
func (s *TaskServiceImpl) editableStage(ctx context.Context, stageID, coachID string) (*secondary.StageRecord, error) {
	if err := requireField("coach", coachID); err != nil {
		return nil, err
	}

	stageRecord, err := s.stageRepo.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	planRecord, err := s.planRepo.GetByID(ctx, stageRecord.PlanID)
	if err != nil {
		return nil, err
	}
	if err := requireCoach(planRecord.ID, planRecord.CoachID, coachID); err != nil {
		return nil, err
	}

	result := plan.CanEditPlan(plan.EditPlanContext{
		PlanID:        planRecord.ID,
		Status:        plan.Status(planRecord.Status),
		AssignedCoach: planRecord.CoachID,
		ActingCoach:   coachID,
	})
	if !result.Allowed {
		return nil, conflictError(result.Reason)
	}
	if stageRecord.IsCompleted {
		return nil, conflictError(fmt.Sprintf("stage %s is already completed", stageRecord.ID))
	}
	return stageRecord, nil
}

func (s *TaskServiceImpl) getTask(ctx context.Context, id string) (*primary.Task, error) {
	record, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return recordToTask(record), nil
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
