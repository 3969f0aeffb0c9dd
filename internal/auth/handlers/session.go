package handlers

import (
	"log/slog"
	"net/http"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/shared/cookies"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

type SessionHandler struct {
	tokens  *auth.TokenManager
	cookies cookies.Settings
}

func NewSessionHandler(tokens *auth.TokenManager, settings cookies.Settings) *SessionHandler {
	return &SessionHandler{tokens: tokens, cookies: settings}
}

// ServeHTTP issues a viewer session on POST and ends it on DELETE. Admin
// sessions are only minted from the command line.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "session", "remote_addr", r.RemoteAddr)

	switch r.Method {
	case http.MethodPost:
		session, err := h.tokens.Issue(auth.RoleViewer)
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}

		cookies.SetSessionCookie(w, h.cookies, session.Token)
		logger.Info("Session issued", "session_id", session.SessionID)
		response.Success(w, http.StatusCreated, session)

	case http.MethodDelete:
		cookies.ClearSessionCookie(w, h.cookies)
		logger.Debug("Session cookie cleared")
		w.WriteHeader(http.StatusNoContent)

	default:
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
	}
}
