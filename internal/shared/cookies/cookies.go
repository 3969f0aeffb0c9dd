package cookies

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"galaxy-server/internal/shared/config"
)

const SessionCookieName = "session_token"

type Settings struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		Domain:   extractDomain(strings.TrimSpace(strings.Split(cfg.Frontend.URL, ",")[0])),
		Secure:   cfg.Auth.CookieSecure,
		SameSite: parseSameSite(cfg.Auth.CookieSameSite),
		MaxAge:   cfg.Auth.TokenExpiration,
	}
}

func SetSessionCookie(w http.ResponseWriter, s Settings, token string) {
	cookie := createSessionCookie(s)
	cookie.Value = token
	cookie.MaxAge = int(s.MaxAge.Seconds())

	http.SetCookie(w, cookie)
}

func ClearSessionCookie(w http.ResponseWriter, s Settings) {
	cookie := createSessionCookie(s)
	cookie.Value = ""
	cookie.MaxAge = -1

	http.SetCookie(w, cookie)
}

func createSessionCookie(s Settings) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		Domain:   s.Domain,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	}
}

// extractDomain scopes the cookie to the frontend host. Local hosts get a
// host-only cookie.
func extractDomain(frontendURL string) string {
	parsedURL, err := url.Parse(frontendURL)
	if err != nil {
		return ""
	}

	host := parsedURL.Hostname()
	if host == "" || host == "localhost" || host == "127.0.0.1" {
		return ""
	}

	return host
}

func parseSameSite(sameSiteStr string) http.SameSite {
	switch sameSiteStr {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
