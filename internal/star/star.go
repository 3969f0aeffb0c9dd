package star

import (
	"math"
	"math/rand"

	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/errors"

	"github.com/google/uuid"
)

// PresetFor returns the preset for t.
func PresetFor(t Type) (Preset, bool) {
	p, ok := presets[t]
	return p, ok
}

// ParseType validates a star type name.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := PresetFor(t); !ok {
		return "", errors.Validationf("unknown star type %q", s)
	}
	return t, nil
}

// RandomType picks uniformly among Types.
func RandomType(rng *rand.Rand) Type {
	return Types[rng.Intn(len(Types))]
}

// New builds a star of type t at pos from the preset table.
func New(t Type, pos physics.Vector2) (*Star, error) {
	p, ok := PresetFor(t)
	if !ok {
		return nil, errors.Validationf("unknown star type %q", t)
	}
	return &Star{
		ID:       uuid.NewString(),
		Type:     t,
		Position: pos,
		Mass:     p.Mass,
		Radius:   math.Sqrt(p.Mass),
		Color:    p.Color,
	}, nil
}

// Label returns the display name of the star's type.
func (s *Star) Label() string {
	return presets[s.Type].Label
}

// Attract returns the force the star exerts on a body of mass m at pos.
func (s *Star) Attract(m float64, pos physics.Vector2) physics.Vector2 {
	return physics.StarLaw.Force(s.Mass, s.Position, m, pos)
}

// Contains reports whether p lies strictly inside the star's disc.
func (s *Star) Contains(p physics.Vector2) bool {
	return s.Position.Dist(p) < s.Radius
}
