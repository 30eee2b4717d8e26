package middleware

import (
	"net/http"
	"strings"

	"clinect-backend/pkg/auth"
	"clinect-backend/pkg/common"
	apperrors "clinect-backend/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate validates the session token and attaches the user to the
// request context. Routes without this middleware are open.
func Authenticate(validator *auth.Validator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				common.RespondAppError(w, apperrors.NewUnauthorizedError("missing authentication token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("token rejected",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				switch err {
				case auth.ErrExpiredToken:
					common.RespondAppError(w, apperrors.NewUnauthorizedError("token has expired"))
				case auth.ErrInvalidSignature:
					common.RespondAppError(w, apperrors.NewUnauthorizedError("invalid token signature"))
				default:
					common.RespondAppError(w, apperrors.NewUnauthorizedError("invalid token"))
				}
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				Username: claims.Username,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MaybeAuthenticate attaches the user to the request context when a valid
// token is present and passes the request through either way. For routes
// that report session state rather than require one.
func MaybeAuthenticate(validator *auth.Validator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if claims, err := validator.ValidateToken(token); err == nil {
					ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
						Username: claims.Username,
					})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken pulls the session token from the Authorization header or the
// session cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return authHeader
	}

	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}

	return ""
}
