package identity

import "context"

type ctxKey string

const actorKey ctxKey = "actor"

// SetActorContext stores the authenticated actor on the context (called by
// the auth middleware).
func SetActorContext(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext retrieves the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}
