package world

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/scenario"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/system"
)

// ConfigFrom maps the simulation settings onto the world's draw ranges.
func ConfigFrom(cfg config.SimulationConfig) Config {
	return Config{
		PlanetMass:         system.MassRange{Min: cfg.PlanetMassMin, Max: cfg.PlanetMassMax},
		BlackHoleMass:      system.MassRange{Min: cfg.BlackHoleMassMin, Max: cfg.BlackHoleMassMax},
		EventHorizonRadius: cfg.EventHorizonRadius,
		PlanetsPerSystem:   cfg.PlanetsPerSystem,
	}
}

func GenerateConfigFrom(cfg config.SimulationConfig) galaxy.GenerateConfig {
	wc := ConfigFrom(cfg)
	return galaxy.GenerateConfig{
		SolarSystems:       cfg.SolarSystems,
		BlackHoles:         cfg.BlackHoles,
		PlanetsPerSystem:   cfg.PlanetsPerSystem,
		Width:              cfg.PlacementWidth,
		Height:             cfg.PlacementHeight,
		PlanetMass:         wc.PlanetMass,
		BlackHoleMass:      wc.BlackHoleMass,
		EventHorizonRadius: cfg.EventHorizonRadius,
	}
}

func (c Config) scenarioDefaults() scenario.Defaults {
	return scenario.Defaults{
		PlanetMass:         c.PlanetMass,
		BlackHoleMass:      c.BlackHoleMass,
		EventHorizonRadius: c.EventHorizonRadius,
	}
}

// Bootstrap builds the initial world: from the scenario file when one is
// configured, otherwise a randomly generated galaxy. A zero seed is replaced
// by the current time.
func Bootstrap(cfg config.SimulationConfig, logger *slog.Logger) (*World, int64, error) {
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	wc := ConfigFrom(cfg)

	var g *galaxy.Galaxy
	if cfg.ScenarioPath != "" {
		sc, err := scenario.Load(cfg.ScenarioPath)
		if err != nil {
			return nil, seed, fmt.Errorf("failed to load scenario: %w", err)
		}
		g, err = sc.Build(wc.scenarioDefaults(), rng, logger)
		if err != nil {
			return nil, seed, fmt.Errorf("failed to build scenario: %w", err)
		}
	} else {
		g = galaxy.New(logger)
		if err := galaxy.Generate(g, GenerateConfigFrom(cfg), rng); err != nil {
			return nil, seed, fmt.Errorf("failed to generate galaxy: %w", err)
		}
	}

	logger.Info("World bootstrapped",
		"component", "world",
		"operation", "bootstrap",
		"seed", seed,
		"scenario", cfg.ScenarioPath,
		"solar_systems", len(g.Systems),
		"black_holes", len(g.BlackHoles),
		"planets", g.PlanetCount(),
	)

	return New(g, wc, rng, logger), seed, nil
}

// LoadScenario rebuilds the galaxy from sc with the world's random source.
func (w *World) LoadScenario(sc *scenario.Scenario) error {
	g, err := sc.Build(w.cfg.scenarioDefaults(), w.rng, w.galaxy.Logger())
	if err != nil {
		return err
	}
	w.Reset(g)
	return nil
}
