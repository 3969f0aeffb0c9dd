package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/shared/cookies"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

type contextKey string

const SessionContextKey contextKey = "session"

type Authenticator struct {
	tokens *auth.TokenManager
}

func NewAuthenticator(tokens *auth.TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Middleware accepts the session cookie or an Authorization bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing session authentication")

		token := tokenFromRequest(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, claims)
		logger.Debug("Session authentication successful",
			"session_id", claims.SessionID,
			"role", claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin chains authentication and the admin role check.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.Middleware(AdminMiddleware(next))
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(cookies.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetSessionFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(SessionContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// WithSession attaches claims to ctx the way Middleware does.
func WithSession(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, SessionContextKey, claims)
}
