package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/wire"
)

var rateCmd = &cobra.Command{
	Use:   "rate [plan-id]",
	Short: "Rate the coach of a completed plan",
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
		stars, _ := cmd.Flags().GetInt("rating")
		content, _ := cmd.Flags().GetString("comment")
		coach, _ := cmd.Flags().GetString("coach")

		rating, err := wire.RatingService().SubmitRating(NewContext(), primary.SubmitRatingRequest{
			SessionID:    sessionID(),
			PlanID:       planID,
			UserID:       actor.ID,
			CoachID:      coach,
			Rating:       stars,
			Content:      content,
			FeedbackType: "user_to_coach",
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Rated coach %s %d/5 for %s\n", rating.CoachID, rating.Rating, rating.PlanID)
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt [plan-id]",
	Short: "Check whether to rate the coach",
	Long:  "Open the coach rating prompt when the plan is completed and no rating exists",
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

		dismiss, _ := cmd.Flags().GetBool("dismiss")
		if dismiss {
			err := wire.RatingService().DismissPrompt(NewContext(), primary.PromptRequest{
				SessionID: sessionID(),
				PlanID:    planID,
				UserID:    actor.ID,
			})
			if err != nil {
				return err
			}
			fmt.Println("Prompt dismissed")
			return nil
		}

		return showPrompt(planID, actor.ID, true)
	},
}

// showPrompt prints the rating prompt when it should open. Without a
// workspace session there is nothing to scope it to, so it stays quiet.
func showPrompt(planID, userID string, explicit bool) error {
	if sessionID() == "" {
		return nil
	}
	decision, err := wire.RatingService().CheckPrompt(NewContext(), primary.PromptRequest{
		SessionID: sessionID(),
		PlanID:    planID,
		UserID:    userID,
		Explicit:  explicit,
	})
	if err != nil {
		return err
	}

	if !decision.Open {
		if explicit {
			fmt.Println(decision.Reason)
		}
		return nil
	}
	fmt.Printf("\n★ How did coach %s do? Run 'quitplan rate %s --rating 1-5'\n", decision.CoachID, decision.PlanID)
	return nil
}

// RateCmd returns the rate command.
func RateCmd() *cobra.Command {
	rateCmd.Flags().IntP("rating", "r", 0, "Rating from 1 to 5")
	rateCmd.Flags().StringP("comment", "m", "", "Feedback text")
	rateCmd.Flags().String("coach", "", "Coach ID (must match the plan's coach)")
	_ = rateCmd.MarkFlagRequired("rating")
	return rateCmd
}

// PromptCmd returns the prompt command.
func PromptCmd() *cobra.Command {
	promptCmd.Flags().Bool("dismiss", false, "Close the prompt for this session")
	return promptCmd
}
