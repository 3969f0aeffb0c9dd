package world

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/planet"
	"galaxy-server/internal/shared/colors"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/star"
	"galaxy-server/internal/system"
)

// World is the single context object the host drives: the galaxy, the tick
// counter, the random source and the active drags. It is not safe for
// concurrent use; the owner serializes ticks and commands.
type World struct {
	galaxy *galaxy.Galaxy
	tick   int64
	last   galaxy.TickReport
	cfg    Config
	rng    *rand.Rand
	drags  map[string]string
	logger *slog.Logger
}

func New(g *galaxy.Galaxy, cfg Config, rng *rand.Rand, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		galaxy: g,
		cfg:    cfg,
		rng:    rng,
		drags:  make(map[string]string),
		logger: logger.With("component", "world"),
	}
}

func (w *World) Galaxy() *galaxy.Galaxy {
	return w.galaxy
}

func (w *World) Tick() int64 {
	return w.tick
}

// Step advances the whole galaxy by exactly one tick.
func (w *World) Step() galaxy.TickReport {
	w.last = w.galaxy.Update()
	w.tick++
	return w.last
}

// Reset replaces the galaxy, clearing drags but keeping the tick counter.
func (w *World) Reset(g *galaxy.Galaxy) {
	w.galaxy = g
	w.last = galaxy.TickReport{}
	clear(w.drags)
	w.logger.Info("World reset",
		"operation", "reset",
		"solar_systems", len(g.Systems),
		"black_holes", len(g.BlackHoles),
		"tick", w.tick,
	)
}

func (w *World) QueryBodyAt(pt physics.Vector2) (galaxy.BodyInfo, bool) {
	return w.galaxy.QueryBodyAt(pt)
}

// AddPlanetAt spawns a planet at the given world coordinates and inserts it on
// a circular orbit around the nearest solar system's star.
func (w *World) AddPlanetAt(x, y, mass float64, color colors.RGB) (*planet.Planet, *system.SolarSystem, error) {
	logger := w.logger.With("operation", "add_planet", "x", x, "y", y, "mass", mass)

	p, err := planet.New(physics.Vec(x, y), mass, color)
	if err != nil {
		return nil, nil, err
	}

	s, ok := w.galaxy.FindNearestSolarSystem(p.Position)
	if !ok {
		return nil, nil, errors.NotFoundf("no solar system to attach a planet to")
	}
	s.InsertPlanet(p)

	logger.Debug("Planet spawned", "planet_id", p.ID, "system_id", s.ID)
	return p, s, nil
}

// AddRandomPlanetAt spawns a planet with a random mass and color.
func (w *World) AddRandomPlanetAt(x, y float64) (*planet.Planet, *system.SolarSystem, error) {
	return w.AddPlanetAt(x, y, w.RandomPlanetMass(), w.RandomColor())
}

// RandomPlanetMass draws a spawn mass from the configured range.
func (w *World) RandomPlanetMass() float64 {
	return w.cfg.PlanetMass.Draw(w.rng)
}

func (w *World) RandomColor() colors.RGB {
	return colors.Random(w.rng)
}

// CreateBlackHole adds a black hole with a random mass at pos.
func (w *World) CreateBlackHole(pos physics.Vector2) (*blackhole.BlackHole, error) {
	b, err := w.galaxy.CreateBlackHole(pos, w.cfg.BlackHoleMass, w.cfg.EventHorizonRadius, w.rng)
	if err != nil {
		return nil, err
	}
	w.logger.Info("Black hole created", "operation", "create_black_hole", "black_hole_id", b.ID, "mass", b.Mass)
	return b, nil
}

// CreateSolarSystem adds a system with a random star type at pos.
func (w *World) CreateSolarSystem(pos physics.Vector2) (*system.SolarSystem, error) {
	s, err := w.galaxy.CreateSolarSystem(pos, star.RandomType(w.rng), w.cfg.PlanetsPerSystem, w.cfg.PlanetMass, w.rng)
	if err != nil {
		return nil, err
	}
	w.logger.Info("Solar system created", "operation", "create_solar_system", "system_id", s.ID, "star", s.Star.Type)
	return s, nil
}

// BeginDrag makes owner the holder of a drag on the given planet.
func (w *World) BeginDrag(owner, planetID string) error {
	if _, _, ok := w.galaxy.FindPlanet(planetID); !ok {
		return errors.NotFoundf("planet not found with id: %s", planetID)
	}
	for other, id := range w.drags {
		if id == planetID && other != owner {
			return errors.Conflictf("planet %s is already being dragged", planetID)
		}
	}
	w.drags[owner] = planetID
	return nil
}

// DragTo moves owner's dragged planet to pt without touching its velocity or
// acceleration. A drag whose planet has been absorbed or merged ends.
func (w *World) DragTo(owner string, pt physics.Vector2) error {
	id, ok := w.drags[owner]
	if !ok {
		return errors.Conflictf("no active drag")
	}
	p, _, ok := w.galaxy.FindPlanet(id)
	if !ok {
		delete(w.drags, owner)
		return errors.NotFoundf("dragged planet %s no longer exists", id)
	}
	if !pt.IsFinite() {
		return errors.Validationf("drag target must be finite")
	}
	p.MoveTo(pt)
	return nil
}

func (w *World) EndDrag(owner string) {
	delete(w.drags, owner)
}

// Dragging returns the planet ID owner is dragging.
func (w *World) Dragging(owner string) (string, bool) {
	id, ok := w.drags[owner]
	return id, ok
}

// Press applies a pointer press at pt: a planet starts a drag, a star or
// black hole is only inspected, and empty space spawns a random planet.
func (w *World) Press(owner string, pt physics.Vector2) (PressResult, error) {
	if info, ok := w.galaxy.QueryBodyAt(pt); ok {
		if info.Kind == galaxy.KindPlanet {
			if err := w.BeginDrag(owner, info.ID); err != nil {
				return PressResult{}, err
			}
			return PressResult{Action: PressDrag, Body: info, Point: pt}, nil
		}
		return PressResult{Action: PressInspect, Body: info, Point: pt}, nil
	}

	p, s, err := w.AddRandomPlanetAt(pt.X, pt.Y)
	if err != nil {
		return PressResult{}, fmt.Errorf("failed to spawn planet: %w", err)
	}
	return PressResult{
		Action: PressSpawn,
		Point:  pt,
		Body: galaxy.BodyInfo{
			Kind:     galaxy.KindPlanet,
			ID:       p.ID,
			SystemID: s.ID,
			Label:    "Planet",
			Position: p.Position,
			Mass:     p.Mass,
			Radius:   p.Radius,
			Info:     fmt.Sprintf("Planet - Mass: %.2f, Radius: %.2f", p.Mass, p.Radius),
		},
	}, nil
}

// Frame captures the current world for presentation.
func (w *World) Frame(paused bool) Frame {
	return Frame{
		Tick:      w.tick,
		Paused:    paused,
		Galaxy:    w.galaxy.State(),
		Report:    w.last,
		CreatedAt: time.Now().UTC(),
	}
}
