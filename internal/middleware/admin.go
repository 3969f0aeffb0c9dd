package middleware

import (
	"log/slog"
	"net/http"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

// RequireRole rejects requests whose session does not hold role. It expects
// the Authenticator to have run first.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With("middleware", "role", "required_role", role, "path", r.URL.Path)

			claims := GetSessionFromContext(r)
			if claims == nil {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}
			if claims.Role != role {
				response.Error(w, r, logger.With("session_id", claims.SessionID, "role", claims.Role),
					errors.Forbidden(string(role)+" access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminMiddleware gates world-extension, tick control and snapshot writes.
var AdminMiddleware = RequireRole(auth.RoleAdmin)
