package galaxy

import (
	"fmt"
	"math/rand"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/star"
	"galaxy-server/internal/system"
)

// GenerateConfig controls random galaxy generation.
type GenerateConfig struct {
	SolarSystems       int
	BlackHoles         int
	PlanetsPerSystem   int
	Width              float64
	Height             float64
	PlanetMass         system.MassRange
	BlackHoleMass      system.MassRange
	EventHorizonRadius float64
}

// DefaultGenerateConfig mirrors the stock sandbox: eight systems, no black
// holes, eight planets each, on a 1920x1080 placement box.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		SolarSystems:       8,
		BlackHoles:         0,
		PlanetsPerSystem:   8,
		Width:              1920,
		Height:             1080,
		PlanetMass:         system.DefaultPlanetMass,
		BlackHoleMass:      system.MassRange{Min: 100, Max: 200},
		EventHorizonRadius: 50,
	}
}

// Generate builds a galaxy whose first system sits at the origin; the others
// and all black holes are scattered uniformly over [-4W, 4W] x [-4H, 4H].
func Generate(g *Galaxy, cfg GenerateConfig, rng *rand.Rand) error {
	logger := g.logger.With("component", "galaxy_generator", "operation", "generate")
	logger.Debug("Generating galaxy",
		"solar_systems", cfg.SolarSystems,
		"black_holes", cfg.BlackHoles,
		"planets_per_system", cfg.PlanetsPerSystem,
	)

	for i := 0; i < cfg.SolarSystems; i++ {
		pos := physics.Vector2{}
		if i > 0 {
			pos = scatter(cfg, rng)
		}
		s, err := g.CreateSolarSystem(pos, star.RandomType(rng), cfg.PlanetsPerSystem, cfg.PlanetMass, rng)
		if err != nil {
			return fmt.Errorf("failed to create solar system %d: %w", i, err)
		}
		logger.Debug("Solar system created", "system_id", s.ID, "star", s.Star.Type, "x", pos.X, "y", pos.Y)
	}

	for i := 0; i < cfg.BlackHoles; i++ {
		if _, err := g.CreateBlackHole(scatter(cfg, rng), cfg.BlackHoleMass, cfg.EventHorizonRadius, rng); err != nil {
			return fmt.Errorf("failed to create black hole %d: %w", i, err)
		}
	}

	logger.Info("Galaxy generated", "solar_systems", len(g.Systems), "black_holes", len(g.BlackHoles), "planets", g.PlanetCount())
	return nil
}

func scatter(cfg GenerateConfig, rng *rand.Rand) physics.Vector2 {
	return physics.Vector2{
		X: (rng.Float64()*2 - 1) * 4 * cfg.Width,
		Y: (rng.Float64()*2 - 1) * 4 * cfg.Height,
	}
}

// CreateSolarSystem adds a system with a star of type t at pos and n
// planets on circular orbits.
func (g *Galaxy) CreateSolarSystem(pos physics.Vector2, t star.Type, n int, masses system.MassRange, rng *rand.Rand) (*system.SolarSystem, error) {
	st, err := star.New(t, pos)
	if err != nil {
		return nil, err
	}
	s := system.New(st, g.logger)
	if err := s.CreatePlanets(n, masses, rng); err != nil {
		return nil, err
	}
	g.AddSolarSystem(s)
	return s, nil
}

// CreateBlackHole adds a black hole at pos with a mass drawn from masses.
func (g *Galaxy) CreateBlackHole(pos physics.Vector2, masses system.MassRange, eventHorizonRadius float64, rng *rand.Rand) (*blackhole.BlackHole, error) {
	b, err := blackhole.New(pos, masses.Draw(rng), eventHorizonRadius)
	if err != nil {
		return nil, err
	}
	g.AddBlackHole(b)
	return b, nil
}
