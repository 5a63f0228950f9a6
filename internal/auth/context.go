// Package auth carries the acting user's identity through request contexts.
// Every mutating operation requires an explicit actor; there is no fallback
// identity anywhere in the system.
package auth

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const actorIDKey contextKey = "actorID"

// ActorHeader is the request header the administration UI sends the acting
// user's id in.
const ActorHeader = "X-Usuario-Id"

// ContextWithActorID returns a new context carrying the acting user's id.
func ContextWithActorID(ctx context.Context, actorID int) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorIDFromContext retrieves the acting user's id from the context, if any.
func ActorIDFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	value := ctx.Value(actorIDKey)
	if value == nil {
		return 0, false
	}
	id, ok := value.(int)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// ActorIDFromRequest reads the actor header from an incoming request.
func ActorIDFromRequest(r *http.Request) (int, bool) {
	raw := r.Header.Get(ActorHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
