package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/quitplan/internal/adapters/sqlite"
	"github.com/example/quitplan/internal/ports/secondary"
)

func setupTaskTestDB(t *testing.T) (*sqlite.TaskRepository, context.Context) {
	t.Helper()
	db := setupTestDB(t)
	seedPlan(t, db, "PLAN-001", "user-1", "coach-1", "active")
	seedStage(t, db, "STAGE-001", "PLAN-001", 1, "2024-01-01", "2024-01-07")
	return sqlite.NewTaskRepository(db, nil), context.Background()
}

func TestTaskRepository_CreateAndListByPosition(t *testing.T) {
	repo, ctx := setupTaskTestDB(t)

	for _, task := range []*secondary.TaskRecord{
		{ID: "TASK-001", StageID: "STAGE-001", Position: 2, Title: "Second"},
		{ID: "TASK-002", StageID: "STAGE-001", Position: 1, Title: "First", Deadline: "2024-01-03"},
	} {
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tasks, err := repo.ListByStage(ctx, "STAGE-001")
	if err != nil {
		t.Fatalf("ListByStage failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "First" || tasks[1].Title != "Second" {
		t.Errorf("expected position order, got %s, %s", tasks[0].Title, tasks[1].Title)
	}
	if tasks[0].Deadline != "2024-01-03" {
		t.Errorf("expected deadline 2024-01-03, got '%s'", tasks[0].Deadline)
	}
	if tasks[0].IsCompleted {
		t.Error("new task should not be completed")
	}
}

func TestTaskRepository_Create_DuplicatePosition(t *testing.T) {
	repo, ctx := setupTaskTestDB(t)

	_ = repo.Create(ctx, &secondary.TaskRecord{ID: "TASK-001", StageID: "STAGE-001", Position: 1, Title: "A"})
	err := repo.Create(ctx, &secondary.TaskRecord{ID: "TASK-002", StageID: "STAGE-001", Position: 1, Title: "B"})
	if !errors.Is(err, secondary.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestTaskRepository_MarkCompleted_Idempotent(t *testing.T) {
	repo, ctx := setupTaskTestDB(t)
	_ = repo.Create(ctx, &secondary.TaskRecord{ID: "TASK-001", StageID: "STAGE-001", Position: 1, Title: "A"})

	created, err := repo.MarkCompleted(ctx, "TASK-001", "user-1")
	if err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	if !created {
		t.Error("expected first completion to write a record")
	}

	created, err = repo.MarkCompleted(ctx, "TASK-001", "user-1")
	if err != nil {
		t.Fatalf("second MarkCompleted failed: %v", err)
	}
	if created {
		t.Error("expected second completion to be a no-op")
	}

	got, _ := repo.GetByID(ctx, "TASK-001")
	if !got.IsCompleted {
		t.Error("expected completion to be derived from the record")
	}
	if got.CompletedBy != "user-1" {
		t.Errorf("expected completed_by user-1, got '%s'", got.CompletedBy)
	}
	if got.CompletedAt == "" {
		t.Error("expected completed_at to be set")
	}
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	repo, ctx := setupTaskTestDB(t)
	_ = repo.Create(ctx, &secondary.TaskRecord{ID: "TASK-001", StageID: "STAGE-001", Position: 1, Title: "A", Description: "old"})

	if err := repo.Update(ctx, &secondary.TaskRecord{ID: "TASK-001", Title: "Renamed"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "TASK-001")
	if got.Title != "Renamed" || got.Description != "old" {
		t.Errorf("unexpected task after update: %+v", got)
	}

	if err := repo.Delete(ctx, "TASK-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Update(ctx, &secondary.TaskRecord{ID: "TASK-001", Title: "x"}); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	next, _ := repo.GetNextID(ctx)
	if next != "TASK-001" {
		t.Errorf("expected TASK-001 after delete, got %s", next)
	}
}
