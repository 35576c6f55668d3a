package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/quitplan/internal/adapters/sqlite"
	"github.com/example/quitplan/internal/ports/secondary"
)

func TestStageRepository_CreateAndListOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStageRepository(db, nil)
	ctx := context.Background()
	seedPlan(t, db, "PLAN-001", "user-1", "coach-1", "created")

	// Insert out of order; ListByPlan must sort by stage_number.
	seedStage(t, db, "STAGE-002", "PLAN-001", 2, "2024-01-08", "2024-01-14")
	err := repo.Create(ctx, &secondary.StageRecord{
		ID: "STAGE-001", PlanID: "PLAN-001", StageNumber: 1, Title: "Week 1",
		Description: "Prepare", StartDate: "2024-01-01", EndDate: "2024-01-07",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stages, err := repo.ListByPlan(ctx, "PLAN-001")
	if err != nil {
		t.Fatalf("ListByPlan failed: %v", err)
	}
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(stages))
	}
	if stages[0].ID != "STAGE-001" || stages[1].ID != "STAGE-002" {
		t.Errorf("unexpected order: %s, %s", stages[0].ID, stages[1].ID)
	}
	if stages[0].Description != "Prepare" {
		t.Errorf("expected description 'Prepare', got '%s'", stages[0].Description)
	}
	if stages[0].IsCompleted {
		t.Error("new stage should not be completed")
	}

	next, _ := repo.GetNextID(ctx)
	if next != "STAGE-003" {
		t.Errorf("expected STAGE-003, got %s", next)
	}
}

func TestStageRepository_Create_DuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStageRepository(db, nil)
	seedPlan(t, db, "PLAN-001", "user-1", "coach-1", "created")
	seedStage(t, db, "STAGE-001", "PLAN-001", 1, "2024-01-01", "2024-01-07")

	err := repo.Create(context.Background(), &secondary.StageRecord{
		ID: "STAGE-002", PlanID: "PLAN-001", StageNumber: 1, Title: "Again",
		StartDate: "2024-01-08", EndDate: "2024-01-14",
	})
	if !errors.Is(err, secondary.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestStageRepository_MarkCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStageRepository(db, nil)
	ctx := context.Background()
	seedPlan(t, db, "PLAN-001", "user-1", "coach-1", "active")
	seedStage(t, db, "STAGE-001", "PLAN-001", 1, "2024-01-01", "2024-01-07")

	if err := repo.MarkCompleted(ctx, "STAGE-001"); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "STAGE-001")
	if !got.IsCompleted {
		t.Error("expected stage to be completed")
	}
	if got.CompletedAt == "" {
		t.Error("expected completed_at to be set")
	}

	if err := repo.MarkCompleted(ctx, "STAGE-404"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStageRepository_Delete_CascadesTasks(t *testing.T) {
	db := setupTestDB(t)
	stages := sqlite.NewStageRepository(db, nil)
	tasks := sqlite.NewTaskRepository(db, nil)
	ctx := context.Background()
	seedPlan(t, db, "PLAN-001", "user-1", "coach-1", "active")
	seedStage(t, db, "STAGE-001", "PLAN-001", 1, "2024-01-01", "2024-01-07")
	seedTask(t, db, "TASK-001", "STAGE-001", 1)

	if err := stages.Delete(ctx, "STAGE-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := tasks.GetByID(ctx, "TASK-001"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected task to cascade, got %v", err)
	}
	if err := stages.Delete(ctx, "STAGE-001"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
