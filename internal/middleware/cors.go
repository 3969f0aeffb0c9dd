package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"galaxy-server/internal/shared/config"

	"github.com/rs/cors"
)

type CORSMiddleware struct {
	*cors.Cors
	origins []string
}

// NewCORS allows credentialed requests from the frontend. FRONTEND_URL may
// list several origins separated by commas.
func NewCORS(cfg config.FrontendConfig) *CORSMiddleware {
	origins := splitOrigins(cfg.URL)
	methods := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   methods,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           600,
		Debug:            cfg.CORSDebug,
	})

	slog.Info("CORS middleware configured",
		"component", "cors",
		"allowed_origins", origins,
		"allowed_methods", methods,
		"debug_mode", cfg.CORSDebug,
	)

	return &CORSMiddleware{Cors: c, origins: origins}
}

func (c *CORSMiddleware) Middleware(h http.Handler) http.Handler {
	return c.Cors.Handler(h)
}

func (c *CORSMiddleware) Origins() []string {
	return c.origins
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
