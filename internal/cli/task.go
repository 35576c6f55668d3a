package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage stage tasks",
	Long:  "Add, edit, list and complete the tasks of a stage",
}

var taskListCmd = &cobra.Command{
	Use:   "list [stage-id]",
	Short: "List the tasks of a stage in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := wire.TaskService().ListTasks(NewContext(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found")
			return nil
		}

		fmt.Printf("\n%-4s %-10s %-4s %-12s %s\n", "#", "ID", "DONE", "DEADLINE", "TITLE")
		fmt.Println("────────────────────────────────────────────────────────────────")
		for _, t := range tasks {
			done := " "
			if t.IsCompleted {
				done = "✓"
			}
			deadline := t.Deadline
			if deadline == "" {
				deadline = "-"
			}
			fmt.Printf("%-4d %-10s %-4s %-12s %s\n", t.Position, t.ID, done, deadline, t.Title)
		}
		fmt.Println()
		return nil
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add [stage-id] [title]",
	Short: "Append a task to a stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		deadline, _ := cmd.Flags().GetString("deadline")

		task, err := wire.TaskService().CreateTask(NewContext(), primary.CreateTaskRequest{
			StageID:     args[0],
			CoachID:     actor.ID,
			Title:       args[1],
			Description: description,
			Deadline:    deadline,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Created task %s at position %d: %s\n", task.ID, task.Position, task.Title)
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task's title, description or deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		deadline, _ := cmd.Flags().GetString("deadline")
		if title == "" && description == "" && deadline == "" {
			return fmt.Errorf("must specify at least --title, --description or --deadline")
		}

		task, err := wire.TaskService().UpdateTask(NewContext(), primary.UpdateTaskRequest{
			TaskID:      args[0],
			CoachID:     actor.ID,
			Title:       title,
			Description: description,
			Deadline:    deadline,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Task %s updated\n", task.ID)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}

		err = wire.TaskService().DeleteTask(NewContext(), primary.DeleteTaskRequest{TaskID: args[0], CoachID: actor.ID})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Task %s deleted\n", args[0])
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a task as complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireActor()
		if err != nil {
			return err
		}
		return wire.ProgressAdapter().CompleteTask(NewContext(), args[0], actor.ID)
	},
}

// TaskCmd returns the task command with all subcommands attached.
func TaskCmd() *cobra.Command {
	taskAddCmd.Flags().StringP("description", "d", "", "Task description")
	taskAddCmd.Flags().String("deadline", "", "Deadline (YYYY-MM-DD)")

	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().StringP("description", "d", "", "New description")
	taskUpdateCmd.Flags().String("deadline", "", "New deadline (YYYY-MM-DD)")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskCompleteCmd)

	return taskCmd
}
