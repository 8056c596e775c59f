package utils

import "context"

// SetUserContext tags the context with the authenticated user. Only the id
// is kept: it scopes saved filters and rate limits.
func SetUserContext(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// GetUserIDFromContext retrieves userID safely
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}
