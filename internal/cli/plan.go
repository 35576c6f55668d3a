package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/config"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/wire"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage quit plans",
	Long:  "Request, review, create and list quit plans",
}

var planRequestCmd = &cobra.Command{
	Use:   "request [name]",
	Short: "Request a plan from a coach",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireActor()
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")
		return wire.PlanAdapter().Request(NewContext(), actor.ID, args[0], reason)
	},
}

var planApproveCmd = &cobra.Command{
	Use:   "approve [plan-id]",
	Short: "Approve a plan request and become its coach",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}
		return wire.PlanAdapter().Approve(NewContext(), args[0], actor.ID)
	},
}

var planRejectCmd = &cobra.Command{
	Use:   "reject [plan-id]",
	Short: "Reject a plan request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}
		return wire.PlanAdapter().Reject(NewContext(), args[0], actor.ID)
	},
}

var planCreateCmd = &cobra.Command{
	Use:   "create [plan-id]",
	Short: "Create the plan for an approved request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		reason, _ := cmd.Flags().GetString("reason")
		start, _ := cmd.Flags().GetString("start")
		target, _ := cmd.Flags().GetString("target")

		return wire.PlanAdapter().Create(NewContext(), primary.CreatePlanRequest{
			PlanID:         args[0],
			CoachID:        actor.ID,
			Name:           name,
			Reason:         reason,
			StartDate:      start,
			TargetQuitDate: target,
		})
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		user, _ := cmd.Flags().GetString("user")
		coach, _ := cmd.Flags().GetString("coach")

		actor := CurrentActor()
		if actor.ID != "" && !actor.IsCoach() {
			user = actor.ID
		}

		return wire.PlanAdapter().List(NewContext(), primary.PlanFilters{
			UserID:  user,
			CoachID: coach,
			Status:  status,
		})
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show [plan-id]",
	Short: "Show plan details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := planArg(args)
		if err != nil {
			return err
		}
		if _, err := wire.PlanAdapter().Show(NewContext(), planID); err != nil {
			return err
		}
		return wire.ProgressAdapter().Show(NewContext(), planID)
	},
}

var planFocusCmd = &cobra.Command{
	Use:   "focus [plan-id]",
	Short: "Set the plan used when commands omit a plan ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireActor(); err != nil {
			return err
		}
		if _, err := wire.PlanService().GetPlan(NewContext(), args[0]); err != nil {
			return err
		}

		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		globalWorkspace.PlanID = args[0]
		if err := config.SaveWorkspace(dir, globalWorkspace); err != nil {
			return err
		}

		fmt.Printf("✓ Focused on %s\n", args[0])
		return nil
	},
}

// PlanCmd returns the plan command with all subcommands attached.
func PlanCmd() *cobra.Command {
	planRequestCmd.Flags().String("reason", "", "Why you want to quit")

	planCreateCmd.Flags().String("name", "", "Plan name (defaults to the requested name)")
	planCreateCmd.Flags().String("reason", "", "Plan reason")
	planCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	planCreateCmd.Flags().String("target", "", "Target quit date (YYYY-MM-DD)")
	_ = planCreateCmd.MarkFlagRequired("start")
	_ = planCreateCmd.MarkFlagRequired("target")

	planListCmd.Flags().StringP("status", "s", "", "Filter by status")
	planListCmd.Flags().String("user", "", "Filter by user")
	planListCmd.Flags().String("coach", "", "Filter by coach")

	planCmd.AddCommand(planRequestCmd)
	planCmd.AddCommand(planApproveCmd)
	planCmd.AddCommand(planRejectCmd)
	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planFocusCmd)

	return planCmd
}
