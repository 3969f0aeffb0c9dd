package galaxy

import (
	"fmt"
	"log/slog"
	"math"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/planet"
	"galaxy-server/internal/system"
)

func New(logger *slog.Logger) *Galaxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Galaxy{logger: logger}
}

// Logger returns the logger systems of this galaxy should log through.
func (g *Galaxy) Logger() *slog.Logger {
	return g.logger
}

func (g *Galaxy) AddSolarSystem(s *system.SolarSystem) {
	g.Systems = append(g.Systems, s)
}

func (g *Galaxy) AddBlackHole(b *blackhole.BlackHole) {
	g.BlackHoles = append(g.BlackHoles, b)
}

// Update advances every solar system, then every black hole, in order.
// Black holes act across system boundaries.
func (g *Galaxy) Update() TickReport {
	var report TickReport
	for _, s := range g.Systems {
		r := s.Update(g.BlackHoles)
		report.Absorbed = append(report.Absorbed, r.Absorbed...)
		report.Merges = append(report.Merges, r.Merges...)
	}
	for _, b := range g.BlackHoles {
		b.Update()
	}
	return report
}

// FindNearestSolarSystem returns the system whose star is closest to pt.
// Ties go to the earliest system. ok is false for an empty galaxy.
func (g *Galaxy) FindNearestSolarSystem(pt physics.Vector2) (nearest *system.SolarSystem, ok bool) {
	best := math.Inf(1)
	for _, s := range g.Systems {
		if d := s.Star.Position.Dist(pt); d < best {
			best = d
			nearest = s
		}
	}
	return nearest, nearest != nil
}

// FindPlanet locates a live planet and its owning system by ID.
func (g *Galaxy) FindPlanet(id string) (*planet.Planet, *system.SolarSystem, bool) {
	for _, s := range g.Systems {
		if p, ok := s.FindPlanet(id); ok {
			return p, s, true
		}
	}
	return nil, nil, false
}

// QueryBodyAt hit-tests, per system in order, its planets then its star,
// and finally the black holes.
func (g *Galaxy) QueryBodyAt(pt physics.Vector2) (BodyInfo, bool) {
	for _, s := range g.Systems {
		if p, ok := s.PlanetAt(pt); ok {
			return BodyInfo{
				Kind:     KindPlanet,
				ID:       p.ID,
				SystemID: s.ID,
				Label:    "Planet",
				Position: p.Position,
				Mass:     p.Mass,
				Radius:   p.Radius,
				Info:     fmt.Sprintf("Planet - Mass: %.2f, Radius: %.2f", p.Mass, p.Radius),
			}, true
		}
		if s.Star.Contains(pt) {
			return BodyInfo{
				Kind:     KindStar,
				ID:       s.Star.ID,
				SystemID: s.ID,
				Label:    s.Star.Label(),
				Position: s.Star.Position,
				Mass:     s.Star.Mass,
				Radius:   s.Star.Radius,
				Info:     fmt.Sprintf("%s - Mass: %.2f, Radius: %.2f", s.Star.Label(), s.Star.Mass, s.Star.Radius),
			}, true
		}
	}

	for _, b := range g.BlackHoles {
		if b.InsideEventHorizon(pt) {
			return BodyInfo{
				Kind:     KindBlackHole,
				ID:       b.ID,
				Label:    "Black Hole",
				Position: b.Position,
				Mass:     b.Mass,
				Radius:   b.EventHorizonRadius,
				Info:     fmt.Sprintf("Black Hole - Mass: %.2f, Event Horizon Radius: %.2f", b.Mass, b.EventHorizonRadius),
			}, true
		}
	}

	return BodyInfo{}, false
}

// PlanetCount returns the number of live planets across all systems.
func (g *Galaxy) PlanetCount() int {
	n := 0
	for _, s := range g.Systems {
		n += len(s.Planets)
	}
	return n
}
