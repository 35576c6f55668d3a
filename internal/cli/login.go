package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/adapters/rest"
	"github.com/example/quitplan/internal/config"
	"github.com/example/quitplan/internal/ctxutil"
	"github.com/example/quitplan/internal/wire"
)

var loginCmd = &cobra.Command{
	Use:   "login [actor-id]",
	Short: "Set the actor for this workspace",
	Long: `Write .quitplan/config.json with the actor used by every command in this
directory. A new rating-prompt session starts with each login.

When JWT_SECRET is configured, a bearer token for the REST API is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		switch role {
		case ctxutil.RoleUser, ctxutil.RoleCoach, ctxutil.RoleAdmin:
		default:
			return fmt.Errorf("invalid role %q: must be user, coach or admin", role)
		}

		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		ws := &config.Workspace{
			ActorID:   args[0],
			Role:      role,
			SessionID: uuid.NewString(),
		}
		if globalWorkspace != nil && globalWorkspace.ActorID == ws.ActorID {
			ws.PlanID = globalWorkspace.PlanID
		}
		if err := config.SaveWorkspace(dir, ws); err != nil {
			return err
		}
		globalWorkspace = ws

		fmt.Printf("✓ Logged in as %s (%s)\n", ws.ActorID, ws.Role)

		c := wire.Config()
		if c.JWTSecret != "" {
			token, err := rest.IssueToken([]byte(c.JWTSecret), CurrentActor(), c.JWTExpiry)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Printf("Token: %s\n", token)
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the workspace actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := requireActor()
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", actor.ID, actor.Role)
		if globalWorkspace.PlanID != "" {
			fmt.Printf("Focus: %s\n", globalWorkspace.PlanID)
		}
		return nil
	},
}

// LoginCmd returns the login command.
func LoginCmd() *cobra.Command {
	loginCmd.Flags().String("role", ctxutil.RoleUser, "Actor role (user, coach, admin)")
	return loginCmd
}

// WhoamiCmd returns the whoami command.
func WhoamiCmd() *cobra.Command {
	return whoamiCmd
}
