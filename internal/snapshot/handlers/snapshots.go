package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
	"galaxy-server/internal/snapshot"
	"galaxy-server/internal/world"
	"galaxy-server/internal/world/engine"
)

type SnapshotHandler struct {
	service *snapshot.Service
	engine  *engine.Engine
	logger  *slog.Logger
}

// NewSnapshotHandler accepts a nil service when persistence is disabled;
// every endpoint then reports an external-service error.
func NewSnapshotHandler(service *snapshot.Service, e *engine.Engine, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		service: service,
		engine:  e,
		logger:  logger,
	}
}

type RestoreResponse struct {
	Snapshot *snapshot.Snapshot `json:"snapshot"`
	Tick     int64              `json:"tick"`
}

var errPersistenceDisabled = errors.External("snapshot persistence is disabled")

// GetSnapshots handles GET /api/snapshots
func (h *SnapshotHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_snapshots")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	if h.service == nil {
		response.Error(w, r, logger, errPersistenceDisabled)
		return
	}

	snapshots, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snapshots)
}

// CreateSnapshot handles POST /api/snapshots - Admin only
func (h *SnapshotHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "create_snapshot")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	if h.service == nil {
		response.Error(w, r, logger, errPersistenceDisabled)
		return
	}

	var req snapshot.CreateRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	var frame world.Frame
	err := h.engine.Exec(r.Context(), func(wd *world.World) error {
		frame = wd.Frame(h.engine.Paused())
		return nil
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	snap, err := h.service.Save(r.Context(), req.Name, frame)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, snap)
}

// GetSnapshot handles GET /api/snapshots/{id}
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logger := h.logger.With("handler", "get_snapshot", "snapshot_id", id)

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	if h.service == nil {
		response.Error(w, r, logger, errPersistenceDisabled)
		return
	}

	snap, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snap)
}

// DeleteSnapshot handles DELETE /api/snapshots/{id} - Admin only
func (h *SnapshotHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logger := h.logger.With("handler", "delete_snapshot", "snapshot_id", id)

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	if h.service == nil {
		response.Error(w, r, logger, errPersistenceDisabled)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreSnapshot handles POST /api/snapshots/{id}/restore - Admin only
func (h *SnapshotHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logger := h.logger.With("handler", "restore_snapshot", "snapshot_id", id)

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}
	if h.service == nil {
		response.Error(w, r, logger, errPersistenceDisabled)
		return
	}

	g, snap, err := h.service.Restore(r.Context(), id, h.logger)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.engine.Reset(r.Context(), g); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	snap.State = nil
	response.Success(w, http.StatusOK, RestoreResponse{Snapshot: snap, Tick: h.engine.Latest().Tick})
}
