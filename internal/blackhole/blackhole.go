package blackhole

import (
	"math"

	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/errors"

	"github.com/google/uuid"
)

// BlackHole is an immobile attractor that destroys any planet crossing its
// event horizon. Black holes are never removed once created.
type BlackHole struct {
	ID                 string          `json:"id"`
	Position           physics.Vector2 `json:"position"`
	Mass               float64         `json:"mass"`
	EventHorizonRadius float64         `json:"event_horizon_radius"`
	Age                int64           `json:"age"`
}

func New(pos physics.Vector2, mass, eventHorizonRadius float64) (*BlackHole, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, errors.Validationf("black hole mass must be positive and finite, got %v", mass)
	}
	if !(eventHorizonRadius > 0) || math.IsInf(eventHorizonRadius, 0) {
		return nil, errors.Validationf("event horizon radius must be positive and finite, got %v", eventHorizonRadius)
	}
	if !pos.IsFinite() {
		return nil, errors.Validationf("black hole position must be finite, got (%v, %v)", pos.X, pos.Y)
	}
	return &BlackHole{
		ID:                 uuid.NewString(),
		Position:           pos,
		Mass:               mass,
		EventHorizonRadius: eventHorizonRadius,
	}, nil
}

// Attract returns the force the black hole exerts on a body of mass m at pos.
func (b *BlackHole) Attract(m float64, pos physics.Vector2) physics.Vector2 {
	return physics.BlackHoleLaw.Force(b.Mass, b.Position, m, pos)
}

// InsideEventHorizon reports whether pos is strictly inside the horizon.
func (b *BlackHole) InsideEventHorizon(pos physics.Vector2) bool {
	return b.Position.Dist(pos) < b.EventHorizonRadius
}

// Update advances the tick age read by presentation layers for the swirl
// animation. It has no physical effect.
func (b *BlackHole) Update() {
	b.Age++
}
