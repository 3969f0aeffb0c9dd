package planet

import (
	"math"

	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/colors"
	"galaxy-server/internal/shared/errors"

	"github.com/google/uuid"
)

// New creates a planet at rest with radius sqrt(mass).
func New(pos physics.Vector2, mass float64, color colors.RGB) (*Planet, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, errors.Validationf("planet mass must be positive and finite, got %v", mass)
	}
	if !pos.IsFinite() {
		return nil, errors.Validationf("planet position must be finite, got (%v, %v)", pos.X, pos.Y)
	}
	return &Planet{
		ID:       uuid.NewString(),
		Position: pos,
		Mass:     mass,
		Radius:   math.Sqrt(mass),
		Color:    color,
	}, nil
}

// ApplyForce accumulates force/mass into the acceleration.
func (p *Planet) ApplyForce(force physics.Vector2) {
	p.Acceleration = p.Acceleration.Add(force.Div(p.Mass))
}

// Integrate advances one semi-implicit Euler step and clears the accumulator.
func (p *Planet) Integrate() {
	p.Velocity = p.Velocity.Add(p.Acceleration)
	p.Position = p.Position.Add(p.Velocity)
	p.Acceleration = physics.Vector2{}
}

// Collides reports whether the two discs overlap.
func (p *Planet) Collides(o *Planet) bool {
	return p.Position.Dist(o.Position) < p.Radius+o.Radius
}

// Merge fuses p and o into a new planet. Mass and momentum are conserved;
// the position is the plain midpoint and the radius is sqrt(r1²+r2²).
func (p *Planet) Merge(o *Planet) *Planet {
	mass := p.Mass + o.Mass
	momentum := p.Momentum().Add(o.Momentum())

	return &Planet{
		ID:       uuid.NewString(),
		Position: p.Position.Add(o.Position).Div(2),
		Velocity: momentum.Div(mass),
		Mass:     mass,
		Radius:   math.Sqrt(p.Radius*p.Radius + o.Radius*o.Radius),
		Color:    colors.Blend(p.Color, o.Color, 0.5),
	}
}

// Attract returns the force p exerts on o under the star law.
func (p *Planet) Attract(o *Planet) physics.Vector2 {
	return physics.StarLaw.Force(p.Mass, p.Position, o.Mass, o.Position)
}

// Momentum returns mass * velocity.
func (p *Planet) Momentum() physics.Vector2 {
	return p.Velocity.Scale(p.Mass)
}

// Contains reports whether pt lies strictly inside the planet's disc.
func (p *Planet) Contains(pt physics.Vector2) bool {
	return p.Position.Dist(pt) < p.Radius
}

// MoveTo teleports the planet without touching velocity or acceleration.
func (p *Planet) MoveTo(pos physics.Vector2) {
	p.Position = pos
}
