// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// Roles an actor can hold.
const (
	RoleUser  = "user"
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role string
}

// IsCoach reports whether the actor may author plans.
func (a Actor) IsCoach() bool {
	return a.Role == RoleCoach || a.Role == RoleAdmin
}

// ActorKey is the context key for the actor.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// WithActor returns a context with the actor embedded.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the actor from context, or the zero Actor if not set.
func ActorFromContext(ctx context.Context) Actor {
	if v, ok := ctx.Value(ActorKey{}).(Actor); ok {
		return v
	}
	return Actor{}
}
