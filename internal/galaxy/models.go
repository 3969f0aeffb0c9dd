package galaxy

import (
	"log/slog"

	"galaxy-server/internal/blackhole"
	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/colors"
	"galaxy-server/internal/star"
	"galaxy-server/internal/system"
)

// Galaxy owns the solar systems and black holes. Insertion order of Systems
// is significant: it breaks ties in nearest-system queries.
type Galaxy struct {
	Systems    []*system.SolarSystem
	BlackHoles []*blackhole.BlackHole

	logger *slog.Logger
}

type BodyKind string

const (
	KindPlanet    BodyKind = "planet"
	KindStar      BodyKind = "star"
	KindBlackHole BodyKind = "black_hole"
)

// BodyInfo describes a body found by a hit test. Radius holds the event
// horizon for black holes.
type BodyInfo struct {
	Kind     BodyKind        `json:"kind"`
	ID       string          `json:"id"`
	SystemID string          `json:"system_id,omitempty"`
	Label    string          `json:"label"`
	Position physics.Vector2 `json:"position"`
	Mass     float64         `json:"mass"`
	Radius   float64         `json:"radius"`
	Info     string          `json:"info"`
}

// TickReport aggregates the per-system update reports of one tick.
type TickReport struct {
	Absorbed []string            `json:"absorbed,omitempty"`
	Merges   []system.MergeEvent `json:"merges,omitempty"`
}

// State is the serializable form of a galaxy, used by frames and snapshots.
type State struct {
	Systems    []SystemState    `json:"systems"`
	BlackHoles []BlackHoleState `json:"black_holes"`
}

type SystemState struct {
	ID      string        `json:"id"`
	Star    StarState     `json:"star"`
	Planets []PlanetState `json:"planets"`
}

type StarState struct {
	ID       string          `json:"id"`
	Type     star.Type       `json:"type"`
	Position physics.Vector2 `json:"position"`
	Mass     float64         `json:"mass"`
	Radius   float64         `json:"radius"`
	Color    colors.RGB      `json:"color"`
}

type PlanetState struct {
	ID       string          `json:"id"`
	Position physics.Vector2 `json:"position"`
	Velocity physics.Vector2 `json:"velocity"`
	Mass     float64         `json:"mass"`
	Radius   float64         `json:"radius"`
	Color    colors.RGB      `json:"color"`
}

type BlackHoleState struct {
	ID                 string          `json:"id"`
	Position           physics.Vector2 `json:"position"`
	Mass               float64         `json:"mass"`
	EventHorizonRadius float64         `json:"event_horizon_radius"`
	Age                int64           `json:"age"`
}
