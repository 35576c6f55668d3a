package app

import (
	"github.com/example/quitplan/internal/core/progress"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/ports/secondary"
)

func recordToPlan(r *secondary.PlanRecord) *primary.Plan {
	return &primary.Plan{
		ID:             r.ID,
		UserID:         r.UserID,
		CoachID:        r.CoachID,
		Name:           r.Name,
		Reason:         r.Reason,
		StartDate:      r.StartDate,
		TargetQuitDate: r.TargetQuitDate,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func recordToStage(r *secondary.StageRecord) *primary.Stage {
	return &primary.Stage{
		ID:          r.ID,
		PlanID:      r.PlanID,
		StageNumber: r.StageNumber,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		IsCompleted: r.IsCompleted,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
	}
}

func recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:          r.ID,
		StageID:     r.StageID,
		Position:    r.Position,
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		IsCompleted: r.IsCompleted,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
	}
}

func recordToRating(r *secondary.RatingRecord) *primary.Rating {
	return &primary.Rating{
		ID:           r.ID,
		PlanID:       r.PlanID,
		CoachID:      r.CoachID,
		UserID:       r.UserID,
		Rating:       r.Rating,
		Content:      r.Content,
		FeedbackType: r.FeedbackType,
		CreatedAt:    r.CreatedAt,
	}
}

func toFigure(p progress.Progress) primary.ProgressFigure {
	return primary.ProgressFigure{
		Percent:        p.Percent,
		CompletedCount: p.CompletedCount,
		Total:          p.Total,
	}
}
