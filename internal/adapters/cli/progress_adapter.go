package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/quitplan/internal/ports/primary"
)

func ok() string   { return color.GreenString("✓") }
func warn() string { return color.YellowString("⚠") }

// ProgressAdapter renders progression and drives task completion and advancing.
type ProgressAdapter struct {
	progression primary.ProgressionService
	tasks       primary.TaskService
	out         io.Writer
}

// NewProgressAdapter creates a new ProgressAdapter.
func NewProgressAdapter(progression primary.ProgressionService, tasks primary.TaskService, out io.Writer) *ProgressAdapter {
	return &ProgressAdapter{
		progression: progression,
		tasks:       tasks,
		out:         out,
	}
}

// Show prints every stage with its progress and marks the current one.
func (a *ProgressAdapter) Show(ctx context.Context, planID string) error {
	p, err := a.progression.GetProgression(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to get progression: %w", err)
	}

	fmt.Fprintf(a.out, "\nPlan %s (%s) %s\n\n", p.PlanID, p.PlanStatus, bar(p.Plan.Percent))
	if len(p.Stages) == 0 {
		fmt.Fprintln(a.out, "No stages yet")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \t#\tSTAGE\tDATES\tTASKS\tPROGRESS")
	for _, sp := range p.Stages {
		marker := " "
		switch {
		case sp.Stage.IsCompleted:
			marker = ok()
		case p.CurrentStage != nil && p.CurrentStage.Stage.ID == sp.Stage.ID:
			marker = color.CyanString("▶")
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s → %s\t%d/%d\t%d%%\n",
			marker, sp.Stage.StageNumber, sp.Stage.Title,
			sp.Stage.StartDate, sp.Stage.EndDate,
			sp.Progress.CompletedCount, sp.Progress.Total, sp.Progress.Percent)
	}
	w.Flush()
	fmt.Fprintln(a.out)

	switch {
	case p.AllStagesCompleted:
		fmt.Fprintf(a.out, "%s All stages completed\n", ok())
	case p.ReadyToAdvance:
		fmt.Fprintf(a.out, "Stage %d is complete. Run 'quitplan advance' to move on.\n", p.CurrentStage.Stage.StageNumber)
	}
	return nil
}

// CompleteTask completes a task and prints the outcome.
// A locked task is printed as a warning, not returned as an error.
func (a *ProgressAdapter) CompleteTask(ctx context.Context, taskID, userID string) error {
	resp, err := a.tasks.CompleteTask(ctx, primary.CompleteTaskRequest{TaskID: taskID, UserID: userID})
	if err != nil {
		return err
	}

	switch {
	case resp.Denial != nil:
		fmt.Fprintf(a.out, "%s %s\n", warn(), resp.Denial.Reason)
	case resp.AlreadyCompleted:
		fmt.Fprintf(a.out, "Task %s was already completed\n", taskID)
	default:
		fmt.Fprintf(a.out, "%s Task %s completed\n", ok(), taskID)
	}
	fmt.Fprintf(a.out, "Stage progress: %d/%d %s\n", resp.Progress.CompletedCount, resp.Progress.Total, bar(resp.Progress.Percent))
	if resp.StageCompleted {
		fmt.Fprintln(a.out, "All tasks done. Run 'quitplan advance' to move to the next stage.")
	}
	return nil
}

// Advance completes the current stage.
func (a *ProgressAdapter) Advance(ctx context.Context, planID, userID string) error {
	resp, err := a.progression.MoveToNextStage(ctx, primary.AdvanceRequest{PlanID: planID, UserID: userID})
	if err != nil {
		var incomplete *primary.IncompleteTasksError
		if errors.As(err, &incomplete) {
			fmt.Fprintf(a.out, "%s Cannot advance: %d task(s) remaining (%d%%)\n", warn(), incomplete.Remaining, incomplete.Percent)
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "%s Stage %d completed: %s\n", ok(), resp.CompletedStage.StageNumber, resp.CompletedStage.Title)
	if resp.PlanCompleted {
		fmt.Fprintf(a.out, "%s Plan %s completed. Well done!\n", ok(), planID)
		return nil
	}
	if next := resp.Progression.CurrentStage; next != nil {
		fmt.Fprintf(a.out, "Now on stage %d: %s (%s → %s)\n", next.Stage.StageNumber, next.Stage.Title, next.Stage.StartDate, next.Stage.EndDate)
	}
	return nil
}

// bar renders a ten-cell progress bar.
func bar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("█", filled), strings.Repeat("░", 10-filled), percent)
}
