package middleware

import (
	"fmt"
	"net/http"

	"vapeshop-be/internal/auth"
	"vapeshop-be/internal/logger"
	"vapeshop-be/internal/utils"

	"github.com/google/uuid"
)

const maxSessionIDLen = 128

// SessionMiddleware decides under which id the caller's filters are saved:
// the authenticated user, then the client-supplied session, then a fresh
// uuid. The chosen id is echoed back in X-Session-ID.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := resolveSessionID(r)

		ctx := utils.WithSessionID(r.Context(), sessionID)
		ctx = logger.WithSessionID(ctx, sessionID)
		w.Header().Set(auth.SessionHeader, sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resolveSessionID(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%d", userID)
	}
	if id := auth.ExtractSessionID(r); id != "" && len(id) <= maxSessionIDLen {
		return id
	}
	return uuid.New().String()
}
