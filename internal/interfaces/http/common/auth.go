package common

import (
	"context"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ContextWithActor stores the authenticated actor into context.
func ContextWithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext extracts the authenticated actor from context.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}
