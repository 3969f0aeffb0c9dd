package scenario

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/star"

	"github.com/pelletier/go-toml/v2"
)

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("scenario file not found: %s", path)
		}
		return nil, errors.WrapInternal("failed to read scenario file", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.WrapValidation("invalid scenario", err)
	}

	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// MaxPlanetsPerSystem caps the planets a scenario may request for one system.
// Merging is quadratic in the planet count, so an unbounded request would
// stall the tick loop.
const MaxPlanetsPerSystem = 1000

func (sc *Scenario) validate() error {
	for i, s := range sc.Systems {
		if s.Star != "" && s.Star != RandomStar {
			if _, err := star.ParseType(s.Star); err != nil {
				return errors.WrapValidation(fmt.Sprintf("system %d", i), err)
			}
		}
		if s.Planets < 0 {
			return errors.Validationf("system %d: planets must not be negative", i)
		}
		if s.Planets > MaxPlanetsPerSystem {
			return errors.Validationf("system %d: planets must be at most %d, got %d", i, MaxPlanetsPerSystem, s.Planets)
		}
		if !physics.Vec(s.X, s.Y).IsFinite() {
			return errors.Validationf("system %d: position must be finite", i)
		}
	}

	for i, b := range sc.BlackHoles {
		if b.Mass < 0 || b.EventHorizon < 0 {
			return errors.Validationf("black hole %d: mass and event_horizon must not be negative", i)
		}
		if !physics.Vec(b.X, b.Y).IsFinite() {
			return errors.Validationf("black hole %d: position must be finite", i)
		}
	}

	return nil
}

// Build creates a galaxy from the scenario. Random choices use rng.
func (sc *Scenario) Build(d Defaults, rng *rand.Rand, logger *slog.Logger) (*galaxy.Galaxy, error) {
	g := galaxy.New(logger)

	for i, s := range sc.Systems {
		t := star.RandomType(rng)
		if s.Star != "" && s.Star != RandomStar {
			t = star.Type(s.Star)
		}
		if _, err := g.CreateSolarSystem(physics.Vec(s.X, s.Y), t, s.Planets, d.PlanetMass, rng); err != nil {
			return nil, fmt.Errorf("failed to build system %d: %w", i, err)
		}
	}

	for i, bh := range sc.BlackHoles {
		horizon := bh.EventHorizon
		if horizon == 0 {
			horizon = d.EventHorizonRadius
		}
		pos := physics.Vec(bh.X, bh.Y)

		if bh.Mass == 0 {
			if _, err := g.CreateBlackHole(pos, d.BlackHoleMass, horizon, rng); err != nil {
				return nil, fmt.Errorf("failed to build black hole %d: %w", i, err)
			}
			continue
		}

		b, err := blackhole.New(pos, bh.Mass, horizon)
		if err != nil {
			return nil, fmt.Errorf("failed to build black hole %d: %w", i, err)
		}
		g.AddBlackHole(b)
	}

	g.Logger().Info("Scenario built",
		"component", "scenario",
		"name", sc.Name,
		"solar_systems", len(g.Systems),
		"black_holes", len(g.BlackHoles),
		"planets", g.PlanetCount(),
	)
	return g, nil
}
