package system

import (
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/planet"
	"galaxy-server/internal/shared/colors"
	"galaxy-server/internal/star"

	"github.com/google/uuid"
)

const (
	minOrbitDistance = 100.0
	maxOrbitDistance = 300.0
)

// MassRange bounds randomly drawn planet masses.
type MassRange struct {
	Min float64
	Max float64
}

// DefaultPlanetMass is the mass range of generated and pointer-spawned planets.
var DefaultPlanetMass = MassRange{Min: 5, Max: 20}

// Draw returns a mass uniformly in [Min, Max).
func (r MassRange) Draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func New(st *star.Star, logger *slog.Logger) *SolarSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &SolarSystem{
		ID:     uuid.NewString(),
		Star:   st,
		logger: logger.With("component", "solar_system"),
	}
}

// CreatePlanets places n planets on circular orbits at a random bearing and a
// distance in [100, 300] from the star.
func (s *SolarSystem) CreatePlanets(n int, masses MassRange, rng *rand.Rand) error {
	for i := 0; i < n; i++ {
		distance := minOrbitDistance + rng.Float64()*(maxOrbitDistance-minOrbitDistance)
		angle := rng.Float64() * 2 * math.Pi
		pos := s.Star.Position.Add(physics.FromAngle(angle, distance))

		p, err := planet.New(pos, masses.Draw(rng), colors.Random(rng))
		if err != nil {
			return err
		}
		p.Velocity = physics.OrbitalVelocity(s.Star.Mass, distance, angle)
		s.Planets = append(s.Planets, p)
	}
	return nil
}

// InsertPlanet puts p on a circular orbit around this system's star at its
// current position and appends it to the collection.
func (s *SolarSystem) InsertPlanet(p *planet.Planet) {
	p.Velocity = physics.OrbitalInsert(s.Star.Position, s.Star.Mass, p.Position)
	s.Planets = append(s.Planets, p)
}

// Update advances local physics by one tick: star and black-hole forces,
// absorption and integration, then pairwise merging.
func (s *SolarSystem) Update(blackHoles []*blackhole.BlackHole) UpdateReport {
	var report UpdateReport
	report.Absorbed = s.integrate(blackHoles)
	report.Merges = s.resolveMerges()
	return report
}

// integrate is pass A. Absorbed planets are dropped in a single compaction
// and are neither integrated nor seen by the merge pass.
func (s *SolarSystem) integrate(blackHoles []*blackhole.BlackHole) []string {
	var absorbed []string
	kept := s.Planets[:0]

	for _, p := range s.Planets {
		p.ApplyForce(s.Star.Attract(p.Mass, p.Position))

		swallowed := false
		for _, bh := range blackHoles {
			p.ApplyForce(bh.Attract(p.Mass, p.Position))
			if bh.InsideEventHorizon(p.Position) {
				swallowed = true
				s.logger.Debug("Planet absorbed",
					"operation", "absorb",
					"planet_id", p.ID,
					"black_hole_id", bh.ID,
				)
				break
			}
		}
		if swallowed {
			absorbed = append(absorbed, p.ID)
			continue
		}

		p.Integrate()
		kept = append(kept, p)
	}

	clear(s.Planets[len(kept):])
	s.Planets = kept
	return absorbed
}

// resolveMerges is pass B. The outer index walks from the last planet down,
// the inner index from outer-1 down to 0. The first overlapping pair removes
// both operands (outer first, then inner) and appends the successor, so the
// slot at outer-1 on the next iteration may hold a planet that has already
// been visited or the successor itself. That ordering decides which planets
// fuse when several overlap and must not be reordered.
func (s *SolarSystem) resolveMerges() []MergeEvent {
	var merges []MergeEvent

	for i := len(s.Planets) - 1; i >= 0; i-- {
		for j := i - 1; j >= 0; j-- {
			a, b := s.Planets[i], s.Planets[j]
			if !a.Collides(b) {
				continue
			}

			merged := a.Merge(b)
			s.Planets = slices.Delete(s.Planets, i, i+1)
			s.Planets = slices.Delete(s.Planets, j, j+1)
			s.Planets = append(s.Planets, merged)

			merges = append(merges, MergeEvent{Outer: a.ID, Inner: b.ID, Result: merged.ID})
			s.logger.Debug("Planets merged",
				"operation", "merge",
				"outer_id", a.ID,
				"inner_id", b.ID,
				"result_id", merged.ID,
				"mass", merged.Mass,
				"system_mass", s.TotalMass(),
			)
			break
		}
	}

	return merges
}

// FindPlanet looks a planet up by ID.
func (s *SolarSystem) FindPlanet(id string) (*planet.Planet, bool) {
	for _, p := range s.Planets {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// PlanetAt returns the first planet, in collection order, whose disc
// contains pt.
func (s *SolarSystem) PlanetAt(pt physics.Vector2) (*planet.Planet, bool) {
	for _, p := range s.Planets {
		if p.Contains(pt) {
			return p, true
		}
	}
	return nil, false
}

// TotalMass sums the planet masses (the star excluded).
func (s *SolarSystem) TotalMass() float64 {
	total := 0.0
	for _, p := range s.Planets {
		total += p.Mass
	}
	return total
}
