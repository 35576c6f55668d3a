package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quitplan/internal/ports/secondary"
)

// StageRepository implements secondary.StageRepository with SQLite.
type StageRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewStageRepository creates a new SQLite stage repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewStageRepository(db *sql.DB, logWriter secondary.LogWriter) *StageRepository {
	return &StageRepository{db: db, logWriter: logWriter}
}

const stageColumns = `id, plan_id, stage_number, title, description, start_date, end_date, is_completed, completed_at, created_at, updated_at`

func scanStage(row rowScanner) (*secondary.StageRecord, error) {
	var (
		desc        sql.NullString
		completedAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.StageRecord{}
	err := row.Scan(&record.ID, &record.PlanID, &record.StageNumber, &record.Title, &desc,
		&record.StartDate, &record.EndDate, &record.IsCompleted, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.CompletedAt = formatNullTime(completedAt)
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)
	return record, nil
}

// Create persists a new stage.
func (r *StageRepository) Create(ctx context.Context, stage *secondary.StageRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO stages (id, plan_id, stage_number, title, description, start_date, end_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
		stage.ID, stage.PlanID, stage.StageNumber, stage.Title, nullString(stage.Description), stage.StartDate, stage.EndDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("stage %d of plan %s: %w", stage.StageNumber, stage.PlanID, secondary.ErrDuplicate)
		}
		return fmt.Errorf("failed to create stage: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "stage", stage.ID)
	}

	return nil
}

// GetByID retrieves a stage by its ID.
func (r *StageRepository) GetByID(ctx context.Context, id string) (*secondary.StageRecord, error) {
	record, err := scanStage(r.db.QueryRowContext(ctx,
		"SELECT "+stageColumns+" FROM stages WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, notFound("stage", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	return record, nil
}

// ListByPlan retrieves the stages of a plan ordered by stage number.
func (r *StageRepository) ListByPlan(ctx context.Context, planID string) ([]*secondary.StageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+stageColumns+" FROM stages WHERE plan_id = ? ORDER BY stage_number", planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	var stages []*secondary.StageRecord
	for rows.Next() {
		record, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		stages = append(stages, record)
	}

	return stages, rows.Err()
}

// Delete removes a stage; its tasks and completions cascade.
func (r *StageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM stages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("stage", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "stage", id)
	}

	return nil
}

// MarkCompleted sets is_completed and completed_at on a stage.
func (r *StageRepository) MarkCompleted(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE stages SET is_completed = 1, completed_at = COALESCE(completed_at, CURRENT_TIMESTAMP), updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete stage: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("stage", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "stage", id, "is_completed", "false", "true")
	}

	return nil
}

// GetNextID returns the next available stage ID.
func (r *StageRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM stages",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next stage ID: %w", err)
	}

	return nextID(maxID, "STAGE"), nil
}

// Ensure StageRepository implements the interface
var _ secondary.StageRepository = (*StageRepository)(nil)
