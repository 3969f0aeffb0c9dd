package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"galaxy-server/internal/shared/config"
)

func TestSettingsFrom(t *testing.T) {
	cfg := &config.Config{
		Frontend: config.FrontendConfig{URL: "https://galaxy.example.com:8443"},
		Auth: config.AuthConfig{
			CookieSecure:    true,
			CookieSameSite:  "strict",
			TokenExpiration: 2 * time.Hour,
		},
	}

	s := SettingsFrom(cfg)
	if s.Domain != "galaxy.example.com" {
		t.Errorf("Domain = %q", s.Domain)
	}
	if s.SameSite != http.SameSiteStrictMode || !s.Secure {
		t.Errorf("unexpected settings %+v", s)
	}
}

func TestLocalhostHasNoDomain(t *testing.T) {
	if d := extractDomain("http://localhost:3000"); d != "" {
		t.Errorf("extractDomain(localhost) = %q", d)
	}
}

func TestSetAndClear(t *testing.T) {
	s := Settings{SameSite: http.SameSiteLaxMode, MaxAge: time.Hour}

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, s, "tok")
	c := rec.Result().Cookies()[0]
	if c.Name != SessionCookieName || c.Value != "tok" || c.MaxAge != 3600 || !c.HttpOnly {
		t.Errorf("set cookie = %+v", c)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, s)
	c = rec.Result().Cookies()[0]
	if c.Value != "" || c.MaxAge >= 0 {
		t.Errorf("cleared cookie = %+v", c)
	}
}
