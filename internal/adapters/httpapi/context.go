package httpapi

import (
	"context"

	"github.com/camino-app/route-planner-api/internal/domain"
)

type ctxKey int

const userIDKey ctxKey = iota

// ContextWithUserID returns a context carrying the authenticated user id.
func ContextWithUserID(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	id, ok := ctx.Value(userIDKey).(domain.UserID)
	return id, ok && id != ""
}
