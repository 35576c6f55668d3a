// Package progression contains the pure state machine over a plan's stages.
// The current stage is never stored; it is recomputed from the stage list.
package progression

import (
	"errors"
	"fmt"

	"github.com/example/quitplan/internal/core/progress"
)

// ErrNoCurrentStage is returned when a plan has no stages to advance.
var ErrNoCurrentStage = errors.New("plan has no current stage")

// ErrAllStagesCompleted is returned when every stage is already completed.
var ErrAllStagesCompleted = errors.New("all stages are already completed")

// IncompleteTasksError reports that the current stage still has open tasks.
type IncompleteTasksError struct {
	StageID   string
	Percent   int
	Remaining int
}

func (e *IncompleteTasksError) Error() string {
	return fmt.Sprintf("stage %s is %d%% complete: %d task(s) remaining", e.StageID, e.Percent, e.Remaining)
}

// StageState is one stage with its task progress.
type StageState struct {
	ID          string
	Number      int
	IsCompleted bool
	Progress    progress.Progress
}

// CurrentStage returns the index of the first stage that is not completed,
// falling back to the last stage. ok is false for an empty plan.
// stages must be ordered by stage number.
func CurrentStage(stages []StageState) (index int, ok bool) {
	for i, s := range stages {
		if !s.IsCompleted {
			return i, true
		}
	}
	if len(stages) == 0 {
		return -1, false
	}
	return len(stages) - 1, true
}

// AllStagesCompleted reports whether the plan has stages and all of them are completed.
func AllStagesCompleted(stages []StageState) bool {
	if len(stages) == 0 {
		return false
	}
	for _, s := range stages {
		if !s.IsCompleted {
			return false
		}
	}
	return true
}

// CanAdvance evaluates whether the current stage can be marked completed.
// Rules:
// - A current stage must exist and not already be completed
// - The current stage's progress must be 100%
func CanAdvance(stages []StageState) error {
	idx, ok := CurrentStage(stages)
	if !ok {
		return ErrNoCurrentStage
	}
	current := stages[idx]
	if current.IsCompleted {
		return ErrAllStagesCompleted
	}
	if !current.Progress.StageCompleted() {
		return &IncompleteTasksError{
			StageID:   current.ID,
			Percent:   current.Progress.Percent,
			Remaining: current.Progress.Remaining(),
		}
	}
	return nil
}

// Snapshot is the derived progression view of a plan.
// Current is nil when the plan has no stages or all stages are completed.
type Snapshot struct {
	Stages         []StageState
	Current        *StageState
	CurrentIndex   int
	Plan           progress.Progress
	AllCompleted   bool
	ReadyToAdvance bool
}

// BuildSnapshot derives the snapshot for stages ordered by number.
func BuildSnapshot(stages []StageState) Snapshot {
	snap := Snapshot{
		Stages:       stages,
		CurrentIndex: -1,
		AllCompleted: AllStagesCompleted(stages),
	}

	parts := make([]progress.Progress, len(stages))
	for i, s := range stages {
		parts[i] = s.Progress
	}
	snap.Plan = progress.Combine(parts...)

	if snap.AllCompleted {
		return snap
	}
	if idx, ok := CurrentStage(stages); ok {
		snap.Current = &stages[idx]
		snap.CurrentIndex = idx
		snap.ReadyToAdvance = stages[idx].Progress.StageCompleted()
	}
	return snap
}
