package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quitplan/internal/ports/secondary"
)

// PlanRepository implements secondary.PlanRepository with SQLite.
type PlanRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewPlanRepository creates a new SQLite plan repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewPlanRepository(db *sql.DB, logWriter secondary.LogWriter) *PlanRepository {
	return &PlanRepository{db: db, logWriter: logWriter}
}

const planColumns = `id, user_id, coach_id, name, reason, start_date, target_quit_date, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*secondary.PlanRecord, error) {
	var (
		coachID        sql.NullString
		reason         sql.NullString
		startDate      sql.NullString
		targetQuitDate sql.NullString
		createdAt      time.Time
		updatedAt      time.Time
	)

	record := &secondary.PlanRecord{}
	err := row.Scan(&record.ID, &record.UserID, &coachID, &record.Name, &reason, &startDate, &targetQuitDate,
		&record.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.CoachID = coachID.String
	record.Reason = reason.String
	record.StartDate = startDate.String
	record.TargetQuitDate = targetQuitDate.String
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)
	return record, nil
}

// Create persists a new plan.
func (r *PlanRepository) Create(ctx context.Context, plan *secondary.PlanRecord) error {
	status := plan.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO quit_plans (id, user_id, coach_id, name, reason, start_date, target_quit_date, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		plan.ID, plan.UserID, nullString(plan.CoachID), plan.Name, nullString(plan.Reason),
		nullString(plan.StartDate), nullString(plan.TargetQuitDate), status,
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "plan", plan.ID)
	}

	return nil
}

// GetByID retrieves a plan by its ID.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*secondary.PlanRecord, error) {
	record, err := scanPlan(r.db.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM quit_plans WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, notFound("plan", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return record, nil
}

// List retrieves plans matching the given filters.
func (r *PlanRepository) List(ctx context.Context, filters secondary.PlanFilters) ([]*secondary.PlanRecord, error) {
	query := "SELECT " + planColumns + " FROM quit_plans WHERE 1=1"
	args := []any{}

	if filters.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filters.UserID)
	}

	if filters.CoachID != "" {
		query += " AND coach_id = ?"
		args = append(args, filters.CoachID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*secondary.PlanRecord
	for rows.Next() {
		record, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, record)
	}

	return plans, rows.Err()
}

// Update updates name, reason and dates of an existing plan.
// Empty fields are left unchanged.
func (r *PlanRepository) Update(ctx context.Context, plan *secondary.PlanRecord) error {
	query := "UPDATE quit_plans SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	if plan.Name != "" {
		query += ", name = ?"
		args = append(args, plan.Name)
	}

	if plan.Reason != "" {
		query += ", reason = ?"
		args = append(args, plan.Reason)
	}

	if plan.StartDate != "" {
		query += ", start_date = ?"
		args = append(args, plan.StartDate)
	}

	if plan.TargetQuitDate != "" {
		query += ", target_quit_date = ?"
		args = append(args, plan.TargetQuitDate)
	}

	query += " WHERE id = ?"
	args = append(args, plan.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("plan", plan.ID)
	}

	return nil
}

// UpdateStatus sets the plan status.
func (r *PlanRepository) UpdateStatus(ctx context.Context, id, status string) error {
	var old string
	err := r.db.QueryRowContext(ctx, "SELECT status FROM quit_plans WHERE id = ?", id).Scan(&old)
	if err == sql.ErrNoRows {
		return notFound("plan", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read plan status: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE quit_plans SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}

	if r.logWriter != nil && old != status {
		_ = r.logWriter.LogUpdate(ctx, "plan", id, "status", old, status)
	}

	return nil
}

// AssignCoach sets the coach of a plan.
func (r *PlanRepository) AssignCoach(ctx context.Context, id, coachID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE quit_plans SET coach_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullString(coachID), id,
	)
	if err != nil {
		return fmt.Errorf("failed to assign coach: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("plan", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "plan", id, "coach_id", "", coachID)
	}

	return nil
}

// GetOpenPlanForUser returns the user's plan that is neither rejected nor completed.
func (r *PlanRepository) GetOpenPlanForUser(ctx context.Context, userID string) (*secondary.PlanRecord, error) {
	record, err := scanPlan(r.db.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM quit_plans WHERE user_id = ? AND status NOT IN ('rejected', 'completed') ORDER BY id DESC LIMIT 1",
		userID))
	if err == sql.ErrNoRows {
		return nil, nil // No open plan is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open plan for user: %w", err)
	}
	return record, nil
}

// GetNextID returns the next available plan ID.
func (r *PlanRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM quit_plans",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next plan ID: %w", err)
	}

	return nextID(maxID, "PLAN"), nil
}

// Ensure PlanRepository implements the interface
var _ secondary.PlanRepository = (*PlanRepository)(nil)
