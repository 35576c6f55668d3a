package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/wire"
)

var progressCmd = &cobra.Command{
	Use:   "progress [plan-id]",
	Short: "Show stage and plan progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := planArg(args)
		if err != nil {
			return err
		}
		return wire.ProgressAdapter().Show(NewContext(), planID)
	},
}

var advanceCmd = &cobra.Command{
	Use:   "advance [plan-id]",
	Short: "Complete the current stage and move to the next",
	Long:  "Complete the current stage once all of its tasks are done. The last stage completes the plan.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireActor()
		if err != nil {
			return err
		}
		planID, err := planArg(args)
		if err != nil {
			return err
		}
		if err := wire.ProgressAdapter().Advance(NewContext(), planID, actor.ID); err != nil {
			return err
		}
		// A completed plan may now prompt for a coach rating.
		return showPrompt(planID, actor.ID, false)
	},
}

// ProgressCmd returns the progress command.
func ProgressCmd() *cobra.Command {
	return progressCmd
}

// AdvanceCmd returns the advance command.
func AdvanceCmd() *cobra.Command {
	return advanceCmd
}
