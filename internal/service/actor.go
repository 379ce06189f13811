package service

import (
	"context"

	"github.com/spec-kit/ticket-classifier/internal/events"
)

type actorKey struct{}

// WithActor records the authenticated user on ctx so emitted events can name it.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the actor stored by WithActor, or an empty actor.
func ActorFromContext(ctx context.Context) events.Actor {
	userID, _ := ctx.Value(actorKey{}).(string)
	return events.Actor{UserID: userID}
}
