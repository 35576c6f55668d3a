package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/plantemplate"
	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/wire"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Manage plan stages",
	Long:  "Add, validate, import and delete the stages of a quit plan",
}

var stageListCmd = &cobra.Command{
	Use:   "list [plan-id]",
	Short: "List the stages of a plan",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := planArg(args)
		if err != nil {
			return err
		}
		return wire.ProgressAdapter().Show(NewContext(), planID)
	},
}

var stageAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Append a stage to a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}
		planFlag, _ := cmd.Flags().GetString("plan")
		planID, err := planArg([]string{planFlag})
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		stage, err := wire.StageService().CreateStage(NewContext(), primary.CreateStageRequest{
			PlanID:      planID,
			CoachID:     actor.ID,
			Title:       args[0],
			Description: description,
			StartDate:   start,
			EndDate:     end,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Created stage %d (%s): %s, %s → %s\n", stage.StageNumber, stage.ID, stage.Title, stage.StartDate, stage.EndDate)
		return nil
	},
}

var stageValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a date range against the plan's stages without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		planFlag, _ := cmd.Flags().GetString("plan")
		planID, err := planArg([]string{planFlag})
		if err != nil {
			return err
		}
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		result, err := wire.StageService().ValidateStageSequence(NewContext(), primary.ValidateStageRequest{
			PlanID:    planID,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			return err
		}

		if result.Valid {
			fmt.Printf("✓ Valid: would become stage %d\n", result.NextStageNumber)
			return nil
		}
		fmt.Printf("✗ %s: %s\n", result.Rule, result.Message)
		if result.Detail != "" {
			fmt.Printf("  %s\n", result.Detail)
		}
		return nil
	},
}

var stageImportCmd = &cobra.Command{
	Use:   "import [template.yaml]",
	Short: "Append stages and tasks from a YAML plan template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}
		planFlag, _ := cmd.Flags().GetString("plan")
		planID, err := planArg([]string{planFlag})
		if err != nil {
			return err
		}

		tpl, err := plantemplate.LoadFile(args[0])
		if err != nil {
			return err
		}

		stages, err := wire.StageService().ImportStages(NewContext(), primary.ImportStagesRequest{
			PlanID:  planID,
			CoachID: actor.ID,
			Stages:  tpl.Drafts(),
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Imported %d stage(s) into %s\n", len(stages), planID)
		for _, s := range stages {
			fmt.Printf("  %d. %s (%s → %s)\n", s.StageNumber, s.Title, s.StartDate, s.EndDate)
		}
		return nil
	},
}

var stageDeleteCmd = &cobra.Command{
	Use:   "delete [stage-id]",
	Short: "Delete the last stage of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireCoachActor()
		if err != nil {
			return err
		}

		err = wire.StageService().DeleteStage(NewContext(), primary.DeleteStageRequest{
			StageID: args[0],
			CoachID: actor.ID,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Stage %s deleted\n", args[0])
		return nil
	},
}

// StageCmd returns the stage command with all subcommands attached.
func StageCmd() *cobra.Command {
	for _, c := range []*cobra.Command{stageAddCmd, stageValidateCmd, stageImportCmd} {
		c.Flags().StringP("plan", "p", "", "Plan ID (defaults to the focused plan)")
	}
	for _, c := range []*cobra.Command{stageAddCmd, stageValidateCmd} {
		c.Flags().String("start", "", "Start date (YYYY-MM-DD)")
		c.Flags().String("end", "", "End date (YYYY-MM-DD)")
		_ = c.MarkFlagRequired("start")
		_ = c.MarkFlagRequired("end")
	}
	stageAddCmd.Flags().StringP("description", "d", "", "Stage description")

	stageCmd.AddCommand(stageListCmd)
	stageCmd.AddCommand(stageAddCmd)
	stageCmd.AddCommand(stageValidateCmd)
	stageCmd.AddCommand(stageImportCmd)
	stageCmd.AddCommand(stageDeleteCmd)

	return stageCmd
}
