package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/planet"
	"galaxy-server/internal/shared/colors"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
	"galaxy-server/internal/system"
	"galaxy-server/internal/world"
	"galaxy-server/internal/world/engine"
)

type WorldHandler struct {
	engine *engine.Engine
}

func NewWorldHandler(e *engine.Engine) *WorldHandler {
	return &WorldHandler{engine: e}
}

type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type AddPlanetRequest struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Mass  *float64 `json:"mass,omitempty"`
	Color string   `json:"color,omitempty"`
}

type DragRequest struct {
	PlanetID string `json:"planet_id"`
}

type PlanetResponse struct {
	Planet   galaxy.PlanetState `json:"planet"`
	SystemID string             `json:"system_id"`
}

type TickResponse struct {
	Tick   int64             `json:"tick"`
	Report galaxy.TickReport `json:"report"`
}

type StatusResponse struct {
	Tick   int64 `json:"tick"`
	Paused bool  `json:"paused"`
}

// GetFrame handles GET /api/world/frame
func (h *WorldHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_frame")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	response.Success(w, http.StatusOK, h.engine.Latest())
}

// GetBodyAt handles GET /api/world/bodies?x=&y=
func (h *WorldHandler) GetBodyAt(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_body_at")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	pt, err := pointFromQuery(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var (
		info  galaxy.BodyInfo
		found bool
	)
	err = h.engine.Exec(r.Context(), func(wd *world.World) error {
		info, found = wd.QueryBodyAt(pt)
		return nil
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if !found {
		response.Error(w, r, logger, errors.NotFoundf("no body at (%.2f, %.2f)", pt.X, pt.Y))
		return
	}

	response.Success(w, http.StatusOK, info)
}

// Tick handles POST /api/world/tick - Admin only
func (h *WorldHandler) Tick(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "tick")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	frame, err := h.engine.Step(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, TickResponse{Tick: frame.Tick, Report: frame.Report})
}

// Pause handles POST /api/world/pause - Admin only
func (h *WorldHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

// Resume handles POST /api/world/resume - Admin only
func (h *WorldHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

func (h *WorldHandler) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	logger := slog.With("handler", "set_paused", "paused", paused)

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var frame world.Frame
	var err error
	if paused {
		frame, err = h.engine.Pause(r.Context())
	} else {
		frame, err = h.engine.Resume(r.Context())
	}
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, StatusResponse{Tick: frame.Tick, Paused: frame.Paused})
}

// AddPlanet handles POST /api/world/planets
func (h *WorldHandler) AddPlanet(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "add_planet")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req AddPlanetRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var color *colors.RGB
	if req.Color != "" {
		c, err := colors.ParseHex(req.Color)
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		color = &c
	}

	var resp PlanetResponse
	err := h.engine.Exec(r.Context(), func(wd *world.World) error {
		var (
			p   *planet.Planet
			s   *system.SolarSystem
			err error
		)
		switch {
		case req.Mass != nil && color != nil:
			p, s, err = wd.AddPlanetAt(req.X, req.Y, *req.Mass, *color)
		case req.Mass != nil:
			p, s, err = wd.AddPlanetAt(req.X, req.Y, *req.Mass, wd.RandomColor())
		case color != nil:
			p, s, err = wd.AddPlanetAt(req.X, req.Y, wd.RandomPlanetMass(), *color)
		default:
			p, s, err = wd.AddRandomPlanetAt(req.X, req.Y)
		}
		if err != nil {
			return err
		}
		resp = PlanetResponse{Planet: planetState(p), SystemID: s.ID}
		return nil
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, resp)
}

// Press handles POST /api/world/press
func (h *WorldHandler) Press(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "press")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	owner, err := sessionOwner(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req PointRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var result world.PressResult
	err = h.engine.Exec(r.Context(), func(wd *world.World) error {
		var err error
		result, err = wd.Press(owner, physics.Vec(req.X, req.Y))
		return err
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	status := http.StatusOK
	if result.Action == world.PressSpawn {
		status = http.StatusCreated
	}
	response.Success(w, status, result)
}

// Drag handles POST (begin), PUT (move) and DELETE (end) on /api/world/drag.
// The drag belongs to the caller's session.
func (h *WorldHandler) Drag(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "drag", "method", r.Method)

	owner, err := sessionOwner(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req DragRequest
		if err := decode(w, r, &req); err != nil {
			response.Error(w, r, logger, err)
			return
		}
		if req.PlanetID == "" {
			response.Error(w, r, logger, errors.Validation("planet_id is required"))
			return
		}
		err = h.engine.Exec(r.Context(), func(wd *world.World) error {
			return wd.BeginDrag(owner, req.PlanetID)
		})
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		response.Success(w, http.StatusOK, req)

	case http.MethodPut:
		var req PointRequest
		if err := decode(w, r, &req); err != nil {
			response.Error(w, r, logger, err)
			return
		}
		err = h.engine.Exec(r.Context(), func(wd *world.World) error {
			return wd.DragTo(owner, physics.Vec(req.X, req.Y))
		})
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		err = h.engine.Exec(r.Context(), func(wd *world.World) error {
			wd.EndDrag(owner)
			return nil
		})
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
	}
}

// CreateBlackHole handles POST /api/world/blackholes - Admin only
func (h *WorldHandler) CreateBlackHole(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_black_hole")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req PointRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var created galaxy.BlackHoleState
	err := h.engine.Exec(r.Context(), func(wd *world.World) error {
		b, err := wd.CreateBlackHole(physics.Vec(req.X, req.Y))
		if err != nil {
			return err
		}
		created = galaxy.BlackHoleState{
			ID:                 b.ID,
			Position:           b.Position,
			Mass:               b.Mass,
			EventHorizonRadius: b.EventHorizonRadius,
			Age:                b.Age,
		}
		return nil
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

// CreateSolarSystem handles POST /api/world/systems - Admin only
func (h *WorldHandler) CreateSolarSystem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_solar_system")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req PointRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var created galaxy.SystemState
	err := h.engine.Exec(r.Context(), func(wd *world.World) error {
		s, err := wd.CreateSolarSystem(physics.Vec(req.X, req.Y))
		if err != nil {
			return err
		}
		created = galaxy.SystemState{
			ID: s.ID,
			Star: galaxy.StarState{
				ID:       s.Star.ID,
				Type:     s.Star.Type,
				Position: s.Star.Position,
				Mass:     s.Star.Mass,
				Radius:   s.Star.Radius,
				Color:    s.Star.Color,
			},
			Planets: make([]galaxy.PlanetState, 0, len(s.Planets)),
		}
		for _, p := range s.Planets {
			created.Planets = append(created.Planets, planetState(p))
		}
		return nil
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.WrapValidation("invalid JSON in request body", err)
	}
	return nil
}

func pointFromQuery(r *http.Request) (physics.Vector2, error) {
	q := r.URL.Query()
	x, err := strconv.ParseFloat(q.Get("x"), 64)
	if err != nil {
		return physics.Vector2{}, errors.WrapValidation("query parameter x must be a number", err)
	}
	y, err := strconv.ParseFloat(q.Get("y"), 64)
	if err != nil {
		return physics.Vector2{}, errors.WrapValidation("query parameter y must be a number", err)
	}
	return physics.Vec(x, y), nil
}

func sessionOwner(r *http.Request) (string, error) {
	claims := middleware.GetSessionFromContext(r)
	if claims == nil {
		return "", errors.Unauthorized("authentication required")
	}
	return claims.SessionID, nil
}

func planetState(p *planet.Planet) galaxy.PlanetState {
	return galaxy.PlanetState{
		ID:       p.ID,
		Position: p.Position,
		Velocity: p.Velocity,
		Mass:     p.Mass,
		Radius:   p.Radius,
		Color:    p.Color,
	}
}
