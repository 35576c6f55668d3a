package primary

import "context"

// TaskService defines the primary port for task operations.
type TaskService interface {
	// CreateTask appends a task to a stage.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error)

	// UpdateTask updates title, description or deadline of a task.
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, req DeleteTaskRequest) error

	// ListTasks lists the tasks of a stage ordered by position.
	ListTasks(ctx context.Context, stageID string) ([]*Task, error)

	// CompleteTask marks a task complete through the completion gate.
	// A denial is reported in the response, not as an error.
	CompleteTask(ctx context.Context, req CompleteTaskRequest) (*CompleteTaskResponse, error)
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	StageID     string
	CoachID     string
	Title       string
	Description string
	Deadline    string // Optional, YYYY-MM-DD
}

// UpdateTaskRequest contains parameters for updating a task.
// Empty fields are left unchanged.
type UpdateTaskRequest struct {
	TaskID      string
	CoachID     string
	Title       string
	Description string
	Deadline    string
}

// DeleteTaskRequest contains parameters for deleting a task.
type DeleteTaskRequest struct {
	TaskID  string
	CoachID string
}

// CompleteTaskRequest contains parameters for completing a task.
type CompleteTaskRequest struct {
	TaskID string
	UserID string
}

// CompleteTaskResponse reports the completion outcome and the refreshed stage progress.
type CompleteTaskResponse struct {
	Task             *Task          `json:"task"`
	AlreadyCompleted bool           `json:"already_completed"`
	Denial           *Denial        `json:"denial,omitempty"`
	Progress         ProgressFigure `json:"progress"`
	StageCompleted   bool           `json:"stage_completed"`
}

// Denial describes a refused completion.
type Denial struct {
	Code        string `json:"code"`
	Reason      string `json:"reason"`
	LockedUntil string `json:"locked_until,omitempty"`
}

// Task represents a task entity at the port boundary.
type Task struct {
	ID          string `json:"id"`
	StageID     string `json:"stage_id"`
	Position    int    `json:"position"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	IsCompleted bool   `json:"is_completed"`
	CompletedAt string `json:"completed_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}
