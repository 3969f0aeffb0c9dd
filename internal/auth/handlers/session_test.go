package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/shared/cookies"
)

func TestSessionHandler(t *testing.T) {
	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	h := NewSessionHandler(tokens, cookies.Settings{MaxAge: time.Hour, SameSite: http.SameSiteLaxMode})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/session", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var s auth.Session
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Role != auth.RoleViewer {
		t.Errorf("role = %s, want viewer", s.Role)
	}
	if _, err := tokens.Validate(s.Token); err != nil {
		t.Errorf("issued token invalid: %v", err)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookies.SessionCookieName && c.Value == s.Token {
			found = true
		}
	}
	if !found {
		t.Error("session cookie not set")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}
