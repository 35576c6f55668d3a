// Package cli provides CLI commands for the quitplan application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"

	"github.com/example/quitplan/internal/config"
	"github.com/example/quitplan/internal/ctxutil"
)

// globalWorkspace stores the workspace actor for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalWorkspace *config.Workspace

// DetectAndStoreActor reads .quitplan/config.json from the working directory.
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	ws, err := config.LoadWorkspace(dir)
	if err != nil {
		return
	}
	globalWorkspace = ws
}

// CurrentActor returns the logged-in actor, or the zero Actor.
func CurrentActor() ctxutil.Actor {
	if globalWorkspace == nil {
		return ctxutil.Actor{}
	}
	return ctxutil.Actor{ID: globalWorkspace.ActorID, Role: globalWorkspace.Role}
}

// NewContext creates a context.Background() with the current actor embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	return ctxutil.WithActor(gocontext.Background(), CurrentActor())
}

// requireActor returns the logged-in actor or an error telling the user to log in.
func requireActor() (ctxutil.Actor, error) {
	actor := CurrentActor()
	if actor.ID == "" {
		return actor, fmt.Errorf("not logged in: run 'quitplan login <actor-id> --role <user|coach|admin>'")
	}
	return actor, nil
}

// requireCoachActor is requireActor restricted to coach or admin roles.
func requireCoachActor() (ctxutil.Actor, error) {
	actor, err := requireActor()
	if err != nil {
		return actor, err
	}
	if !actor.IsCoach() {
		return actor, fmt.Errorf("%s is logged in as %s: only coaches can do this", actor.ID, actor.Role)
	}
	return actor, nil
}

// planArg resolves a plan ID from args or the workspace focus.
func planArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if globalWorkspace != nil && globalWorkspace.PlanID != "" {
		return globalWorkspace.PlanID, nil
	}
	return "", fmt.Errorf("no plan given and no plan in focus (use 'quitplan plan focus <plan-id>')")
}

// sessionID returns the workspace session the rating prompt is scoped to.
func sessionID() string {
	if globalWorkspace == nil {
		return ""
	}
	return globalWorkspace.SessionID
}
