package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/cookies"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthenticator(t *testing.T) (*Authenticator, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return NewAuthenticator(tokens), tokens
}

func issue(t *testing.T, tokens *auth.TokenManager, role auth.Role) *auth.Session {
	t.Helper()
	s, err := tokens.Issue(role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return s
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if GetSessionFromContext(r) == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
})

func TestAuthenticator(t *testing.T) {
	a, tokens := newAuthenticator(t)
	viewer := issue(t, tokens, auth.RoleViewer)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"missing token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bad bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+viewer.Token) }, http.StatusNoContent},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: cookies.SessionCookieName, Value: viewer.Token})
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/world/frame", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			a.Middleware(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	a, tokens := newAuthenticator(t)
	h := a.RequireAdmin(okHandler)

	for role, want := range map[auth.Role]int{
		auth.RoleViewer: http.StatusForbidden,
		auth.RoleAdmin:  http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/world/tick", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, tokens, role).Token)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", role, rec.Code, want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 1})
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 2)
	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/world/planets", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := getClientIP(req, false); got != "192.168.1.1" {
		t.Errorf("untrusted ip = %q", got)
	}
	if got := getClientIP(req, true); got != "203.0.113.9" {
		t.Errorf("trusted ip = %q", got)
	}
}

func TestCORS(t *testing.T) {
	c := NewCORS(config.FrontendConfig{URL: "http://localhost:3000/, https://galaxy.example.com"})

	if got := c.Origins(); len(got) != 2 || got[0] != "http://localhost:3000" {
		t.Fatalf("origins = %v", got)
	}

	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin string
		want   string
	}{
		{"https://galaxy.example.com", "https://galaxy.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/world/frame", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: allow-origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
