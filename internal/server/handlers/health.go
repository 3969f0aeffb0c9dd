package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/redis"
	"galaxy-server/internal/shared/response"
	"galaxy-server/internal/world/engine"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Tick      int64  `json:"tick"`
	Paused    bool   `json:"paused"`
}

type HealthHandler struct {
	db     *database.DB
	redis  *redis.Client
	engine *engine.Engine
}

// NewHealthHandler accepts nil db and redis when those backends are disabled.
func NewHealthHandler(db *database.DB, rdb *redis.Client, e *engine.Engine) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, engine: e}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "disconnected"
		if err := h.db.PingContext(ctx); err == nil {
			dbStatus = "connected"
		} else {
			logger.Warn("Database ping failed", "error", err)
		}
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "disconnected"
		if err := h.redis.Ping(ctx).Err(); err == nil {
			redisStatus = "connected"
		} else {
			logger.Warn("Redis ping failed", "error", err)
		}
	}

	frame := h.engine.Latest()
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Redis:     redisStatus,
		Tick:      frame.Tick,
		Paused:    frame.Paused,
	}

	response.Success(w, http.StatusOK, resp)
}
