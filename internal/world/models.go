package world

import (
	"time"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/system"
)

// Config holds the draw ranges used by world-extension commands and by
// pointer spawns that do not specify a mass.
type Config struct {
	PlanetMass         system.MassRange
	BlackHoleMass      system.MassRange
	EventHorizonRadius float64
	PlanetsPerSystem   int
}

func DefaultConfig() Config {
	return Config{
		PlanetMass:         system.DefaultPlanetMass,
		BlackHoleMass:      system.MassRange{Min: 100, Max: 200},
		EventHorizonRadius: 50,
		PlanetsPerSystem:   8,
	}
}

// Frame is the world as consumed by presentation layers after a tick.
type Frame struct {
	Tick      int64             `json:"tick"`
	Paused    bool              `json:"paused"`
	Galaxy    galaxy.State      `json:"galaxy"`
	Report    galaxy.TickReport `json:"report"`
	CreatedAt time.Time         `json:"created_at"`
}

type PressAction string

const (
	PressDrag    PressAction = "drag"
	PressInspect PressAction = "inspect"
	PressSpawn   PressAction = "spawn"
)

// PressResult tells the caller what a pointer press did.
type PressResult struct {
	Action PressAction     `json:"action"`
	Body   galaxy.BodyInfo `json:"body"`
	Point  physics.Vector2 `json:"point"`
}
