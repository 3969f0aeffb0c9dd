package planet

import (
	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/colors"
)

// Planet is a mobile body owned by exactly one solar system.
// Acceleration accumulates forces during a tick and is cleared by Integrate.
type Planet struct {
	ID           string          `json:"id"`
	Position     physics.Vector2 `json:"position"`
	Velocity     physics.Vector2 `json:"velocity"`
	Acceleration physics.Vector2 `json:"acceleration"`
	Mass         float64         `json:"mass"`
	Radius       float64         `json:"radius"`
	Color        colors.RGB      `json:"color"`
}
