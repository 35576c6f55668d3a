package rest

import (
	"context"

	"github.com/example/quitplan/internal/ports/primary"
)

// Function-field mocks: tests set only the fields they exercise.

type mockPlanService struct {
	requestFn func(ctx context.Context, req primary.RequestPlanRequest) (*primary.Plan, error)
	approveFn func(ctx context.Context, req primary.ReviewPlanRequest) (*primary.Plan, error)
	getFn     func(ctx context.Context, planID string) (*primary.Plan, error)
	listFn    func(ctx context.Context, filters primary.PlanFilters) ([]*primary.Plan, error)
}

func (m *mockPlanService) RequestPlan(ctx context.Context, req primary.RequestPlanRequest) (*primary.Plan, error) {
	return m.requestFn(ctx, req)
}
func (m *mockPlanService) ApprovePlan(ctx context.Context, req primary.ReviewPlanRequest) (*primary.Plan, error) {
	return m.approveFn(ctx, req)
}
func (m *mockPlanService) RejectPlan(ctx context.Context, req primary.ReviewPlanRequest) (*primary.Plan, error) {
	return nil, nil
}
func (m *mockPlanService) CreatePlan(ctx context.Context, req primary.CreatePlanRequest) (*primary.Plan, error) {
	return nil, nil
}
func (m *mockPlanService) GetPlan(ctx context.Context, planID string) (*primary.Plan, error) {
	return m.getFn(ctx, planID)
}
func (m *mockPlanService) ListPlans(ctx context.Context, filters primary.PlanFilters) ([]*primary.Plan, error) {
	return m.listFn(ctx, filters)
}

type mockStageService struct {
	createFn func(ctx context.Context, req primary.CreateStageRequest) (*primary.Stage, error)
	importFn func(ctx context.Context, req primary.ImportStagesRequest) ([]*primary.Stage, error)
	deleteFn func(ctx context.Context, req primary.DeleteStageRequest) error
	getFn    func(ctx context.Context, stageID string) (*primary.Stage, error)
}

func (m *mockStageService) ValidateStageSequence(ctx context.Context, req primary.ValidateStageRequest) (*primary.StageValidation, error) {
	return &primary.StageValidation{Valid: true, NextStageNumber: 1}, nil
}
func (m *mockStageService) NextStageNumber(ctx context.Context, planID string) (int, error) {
	return 3, nil
}
func (m *mockStageService) CreateStage(ctx context.Context, req primary.CreateStageRequest) (*primary.Stage, error) {
	return m.createFn(ctx, req)
}
func (m *mockStageService) GetStage(ctx context.Context, stageID string) (*primary.Stage, error) {
	return m.getFn(ctx, stageID)
}
func (m *mockStageService) ListStages(ctx context.Context, planID string) ([]*primary.Stage, error) {
	return nil, nil
}
func (m *mockStageService) DeleteStage(ctx context.Context, req primary.DeleteStageRequest) error {
	return m.deleteFn(ctx, req)
}
func (m *mockStageService) ImportStages(ctx context.Context, req primary.ImportStagesRequest) ([]*primary.Stage, error) {
	return m.importFn(ctx, req)
}

type mockTaskService struct {
	completeFn func(ctx context.Context, req primary.CompleteTaskRequest) (*primary.CompleteTaskResponse, error)
}

func (m *mockTaskService) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	return nil, nil
}
func (m *mockTaskService) UpdateTask(ctx context.Context, req primary.UpdateTaskRequest) (*primary.Task, error) {
	return nil, nil
}
func (m *mockTaskService) DeleteTask(ctx context.Context, req primary.DeleteTaskRequest) error {
	return nil
}
func (m *mockTaskService) ListTasks(ctx context.Context, stageID string) ([]*primary.Task, error) {
	return nil, nil
}
func (m *mockTaskService) CompleteTask(ctx context.Context, req primary.CompleteTaskRequest) (*primary.CompleteTaskResponse, error) {
	return m.completeFn(ctx, req)
}

type mockProgressionService struct {
	advanceFn func(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error)
}

func (m *mockProgressionService) GetProgression(ctx context.Context, planID string) (*primary.Progression, error) {
	return &primary.Progression{PlanID: planID}, nil
}
func (m *mockProgressionService) MoveToNextStage(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error) {
	return m.advanceFn(ctx, req)
}

type mockRatingService struct {
	checkFn  func(ctx context.Context, req primary.PromptRequest) (*primary.PromptDecision, error)
	submitFn func(ctx context.Context, req primary.SubmitRatingRequest) (*primary.Rating, error)
}

func (m *mockRatingService) CheckPrompt(ctx context.Context, req primary.PromptRequest) (*primary.PromptDecision, error) {
	return m.checkFn(ctx, req)
}
func (m *mockRatingService) DismissPrompt(ctx context.Context, req primary.PromptRequest) error {
	return nil
}
func (m *mockRatingService) SubmitRating(ctx context.Context, req primary.SubmitRatingRequest) (*primary.Rating, error) {
	return m.submitFn(ctx, req)
}

type mockLogService struct{}

func (m *mockLogService) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	return []*primary.LogEntry{}, nil
}
