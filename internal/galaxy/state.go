package galaxy

import (
	"log/slog"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/planet"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/star"
	"galaxy-server/internal/system"
)

// State captures the galaxy. Accelerations are always zero between ticks
// and are not recorded.
func (g *Galaxy) State() State {
	st := State{
		Systems:    make([]SystemState, 0, len(g.Systems)),
		BlackHoles: make([]BlackHoleState, 0, len(g.BlackHoles)),
	}

	for _, s := range g.Systems {
		ss := SystemState{
			ID: s.ID,
			Star: StarState{
				ID:       s.Star.ID,
				Type:     s.Star.Type,
				Position: s.Star.Position,
				Mass:     s.Star.Mass,
				Radius:   s.Star.Radius,
				Color:    s.Star.Color,
			},
			Planets: make([]PlanetState, 0, len(s.Planets)),
		}
		for _, p := range s.Planets {
			ss.Planets = append(ss.Planets, PlanetState{
				ID:       p.ID,
				Position: p.Position,
				Velocity: p.Velocity,
				Mass:     p.Mass,
				Radius:   p.Radius,
				Color:    p.Color,
			})
		}
		st.Systems = append(st.Systems, ss)
	}

	for _, b := range g.BlackHoles {
		st.BlackHoles = append(st.BlackHoles, BlackHoleState{
			ID:                 b.ID,
			Position:           b.Position,
			Mass:               b.Mass,
			EventHorizonRadius: b.EventHorizonRadius,
			Age:                b.Age,
		})
	}

	return st
}

// FromState rebuilds a galaxy, keeping every ID, and validates masses.
func FromState(st State, logger *slog.Logger) (*Galaxy, error) {
	g := New(logger)

	for _, ss := range st.Systems {
		sp, err := star.New(ss.Star.Type, ss.Star.Position)
		if err != nil {
			return nil, errors.WrapValidation("invalid star in state", err)
		}
		sp.ID = ss.Star.ID

		s := system.New(sp, g.logger)
		s.ID = ss.ID
		for _, ps := range ss.Planets {
			p, err := planet.New(ps.Position, ps.Mass, ps.Color)
			if err != nil {
				return nil, errors.WrapValidation("invalid planet in state", err)
			}
			p.ID = ps.ID
			p.Velocity = ps.Velocity
			if ps.Radius > 0 {
				p.Radius = ps.Radius
			}
			s.Planets = append(s.Planets, p)
		}
		g.AddSolarSystem(s)
	}

	for _, bs := range st.BlackHoles {
		b, err := blackhole.New(bs.Position, bs.Mass, bs.EventHorizonRadius)
		if err != nil {
			return nil, errors.WrapValidation("invalid black hole in state", err)
		}
		b.ID = bs.ID
		b.Age = bs.Age
		g.AddBlackHole(b)
	}

	return g, nil
}
