package server

import (
	"log/slog"
	"net/http"

	"galaxy-server/internal/auth"
	authHandlers "galaxy-server/internal/auth/handlers"
	"galaxy-server/internal/middleware"
	serverHandlers "galaxy-server/internal/server/handlers"
	"galaxy-server/internal/shared/cookies"
	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/redis"
	"galaxy-server/internal/snapshot"
	snapshotHandlers "galaxy-server/internal/snapshot/handlers"
	worldHandlers "galaxy-server/internal/world/handlers"
	"galaxy-server/internal/world/engine"
)

// Deps are the services the routes are wired to. DB, Redis and
// SnapshotService are nil when their backend is disabled.
type Deps struct {
	DB              *database.DB
	Redis           *redis.Client
	Engine          *engine.Engine
	Tokens          *auth.TokenManager
	Cookies         cookies.Settings
	SnapshotService *snapshot.Service
	RateLimiter     *middleware.RateLimiter
	Logger          *slog.Logger
}

type Routes struct {
	deps Deps
}

func NewRoutes(d Deps) *Routes {
	return &Routes{deps: d}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	d := r.deps
	mux := http.NewServeMux()

	authn := middleware.NewAuthenticator(d.Tokens)
	limit := func(h http.Handler) http.Handler { return h }
	if d.RateLimiter != nil {
		limit = d.RateLimiter.Middleware
	}
	session := func(h http.HandlerFunc) http.Handler { return limit(authn.Middleware(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return limit(authn.RequireAdmin(h)) }

	healthHandler := serverHandlers.NewHealthHandler(d.DB, d.Redis, d.Engine)
	sessionHandler := authHandlers.NewSessionHandler(d.Tokens, d.Cookies)
	worldHandler := worldHandlers.NewWorldHandler(d.Engine)
	snapshotHandler := snapshotHandlers.NewSnapshotHandler(d.SnapshotService, d.Engine, d.Logger)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("GET /api/world/frame", worldHandler.GetFrame)
	mux.HandleFunc("GET /api/world/bodies", worldHandler.GetBodyAt)
	mux.Handle("/auth/session", limit(sessionHandler))

	// Session endpoints
	mux.Handle("POST /api/world/planets", session(worldHandler.AddPlanet))
	mux.Handle("POST /api/world/press", session(worldHandler.Press))
	mux.Handle("/api/world/drag", session(worldHandler.Drag))
	mux.Handle("GET /api/snapshots", session(snapshotHandler.GetSnapshots))
	mux.Handle("GET /api/snapshots/{id}", session(snapshotHandler.GetSnapshot))

	// Admin-only endpoints
	mux.Handle("POST /api/world/tick", admin(worldHandler.Tick))
	mux.Handle("POST /api/world/pause", admin(worldHandler.Pause))
	mux.Handle("POST /api/world/resume", admin(worldHandler.Resume))
	mux.Handle("POST /api/world/blackholes", admin(worldHandler.CreateBlackHole))
	mux.Handle("POST /api/world/systems", admin(worldHandler.CreateSolarSystem))
	mux.Handle("POST /api/snapshots", admin(snapshotHandler.CreateSnapshot))
	mux.Handle("DELETE /api/snapshots/{id}", admin(snapshotHandler.DeleteSnapshot))
	mux.Handle("POST /api/snapshots/{id}/restore", admin(snapshotHandler.RestoreSnapshot))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/world/frame", "/api/world/bodies", "/auth/session"},
		"session_endpoints", []string{"/api/world/planets", "/api/world/press", "/api/world/drag", "/api/snapshots"},
		"admin_endpoints", []string{"/api/world/tick", "/api/world/pause", "/api/world/resume", "/api/world/blackholes", "/api/world/systems", "/api/snapshots/{id}/restore"},
		"snapshots_enabled", d.SnapshotService != nil,
	)

	return mux
}
