package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/quitplan/internal/ports/secondary"
)

// RatingRepository implements secondary.RatingRepository with SQLite.
type RatingRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewRatingRepository creates a new SQLite coach rating repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewRatingRepository(db *sql.DB, logWriter secondary.LogWriter) *RatingRepository {
	return &RatingRepository{db: db, logWriter: logWriter}
}

const ratingColumns = `id, plan_id, coach_id, user_id, rating, content, feedback_type, created_at`

func scanRating(row rowScanner) (*secondary.RatingRecord, error) {
	var (
		content   sql.NullString
		createdAt time.Time
	)

	record := &secondary.RatingRecord{}
	err := row.Scan(&record.ID, &record.PlanID, &record.CoachID, &record.UserID, &record.Rating,
		&content, &record.FeedbackType, &createdAt)
	if err != nil {
		return nil, err
	}

	record.Content = content.String
	record.CreatedAt = formatTime(createdAt)
	return record, nil
}

// Create persists a new rating. A second rating for the same (plan, user)
// fails with secondary.ErrDuplicate.
func (r *RatingRepository) Create(ctx context.Context, rating *secondary.RatingRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO coach_ratings (id, plan_id, coach_id, user_id, rating, content, feedback_type) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rating.ID, rating.PlanID, rating.CoachID, rating.UserID, rating.Rating, nullString(rating.Content), rating.FeedbackType,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rating for plan %s by %s: %w", rating.PlanID, rating.UserID, secondary.ErrDuplicate)
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "rating", rating.ID)
	}

	return nil
}

// GetByPlanAndUser returns the rating for a (plan, user) pair, or nil if none exists.
func (r *RatingRepository) GetByPlanAndUser(ctx context.Context, planID, userID string) (*secondary.RatingRecord, error) {
	record, err := scanRating(r.db.QueryRowContext(ctx,
		"SELECT "+ratingColumns+" FROM coach_ratings WHERE plan_id = ? AND user_id = ?", planID, userID))
	if err == sql.ErrNoRows {
		return nil, nil // Not rated yet is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return record, nil
}

// ListByCoach returns the ratings a coach received, newest first.
func (r *RatingRepository) ListByCoach(ctx context.Context, coachID string) ([]*secondary.RatingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+ratingColumns+" FROM coach_ratings WHERE coach_id = ? ORDER BY created_at DESC, id DESC", coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*secondary.RatingRecord
	for rows.Next() {
		record, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, record)
	}

	return ratings, rows.Err()
}

// GetNextID returns the next available rating ID.
func (r *RatingRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM coach_ratings",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next rating ID: %w", err)
	}

	return nextID(maxID, "RATE"), nil
}

// Ensure RatingRepository implements the interface
var _ secondary.RatingRepository = (*RatingRepository)(nil)
