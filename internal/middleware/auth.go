package middleware

import (
	"errors"
	"net/http"

	"vapeshop-be/internal/auth"
	"vapeshop-be/internal/logger"
	"vapeshop-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// AuthMiddleware reads an optional bearer token. Anonymous requests pass
// through untouched; a token that is present but invalid is rejected.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return secret, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(tokenStr, keyFunc)
			if err != nil || !token.Valid {
				logger.FromCtx(r.Context()).Info("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if uid, ok := claims["user_id"].(float64); ok && uid > 0 {
					r = r.WithContext(utils.SetUserContext(r.Context(), uint(uid)))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
