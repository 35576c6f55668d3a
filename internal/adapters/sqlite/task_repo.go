package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quitplan/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
// Reads go through task_view, which derives is_completed from task_completions.
type TaskRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewTaskRepository creates a new SQLite task repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewTaskRepository(db *sql.DB, logWriter secondary.LogWriter) *TaskRepository {
	return &TaskRepository{db: db, logWriter: logWriter}
}

const taskColumns = `id, stage_id, position, title, description, deadline, is_completed, completed_by, completed_at, created_at, updated_at`

func scanTask(row rowScanner) (*secondary.TaskRecord, error) {
	var (
		desc        sql.NullString
		deadline    sql.NullString
		completedBy sql.NullString
		completedAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.TaskRecord{}
	err := row.Scan(&record.ID, &record.StageID, &record.Position, &record.Title, &desc, &deadline,
		&record.IsCompleted, &completedBy, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.Deadline = deadline.String
	record.CompletedBy = completedBy.String
	record.CompletedAt = formatNullTime(completedAt)
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)
	return record, nil
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (id, stage_id, position, title, description, deadline) VALUES (?, ?, ?, ?, ?, ?)",
		task.ID, task.StageID, task.Position, task.Title, nullString(task.Description), nullString(task.Deadline),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task position %d of stage %s: %w", task.Position, task.StageID, secondary.ErrDuplicate)
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "task", task.ID)
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	record, err := scanTask(r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM task_view WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, notFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

// ListByStage retrieves the tasks of a stage ordered by position.
func (r *TaskRepository) ListByStage(ctx context.Context, stageID string) ([]*secondary.TaskRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM task_view WHERE stage_id = ? ORDER BY position, id", stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}

	return tasks, rows.Err()
}

// Update updates title, description and deadline of an existing task.
// Empty fields are left unchanged.
func (r *TaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	query := "UPDATE tasks SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	if task.Title != "" {
		query += ", title = ?"
		args = append(args, task.Title)
	}

	if task.Description != "" {
		query += ", description = ?"
		args = append(args, task.Description)
	}

	if task.Deadline != "" {
		query += ", deadline = ?"
		args = append(args, task.Deadline)
	}

	query += " WHERE id = ?"
	args = append(args, task.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("task", task.ID)
	}

	if r.logWriter != nil && task.Title != "" {
		_ = r.logWriter.LogUpdate(ctx, "task", task.ID, "title", "", task.Title)
	}

	return nil
}

// Delete removes a task from persistence.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("task", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "task", id)
	}

	return nil
}

// MarkCompleted writes the completion record for a task.
// INSERT OR IGNORE makes a repeat a no-op; the bool reports whether a row was written.
func (r *TaskRepository) MarkCompleted(ctx context.Context, taskID, completedBy string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO task_completions (task_id, completed_by) VALUES (?, ?)",
		taskID, completedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return false, nil
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "task", taskID, "is_completed", "false", "true")
	}

	return true, nil
}

// GetNextID returns the next available task ID.
func (r *TaskRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM tasks",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next task ID: %w", err)
	}

	return nextID(maxID, "TASK"), nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
