package system

import (
	"log/slog"

	"galaxy-server/internal/planet"
	"galaxy-server/internal/star"
)

// SolarSystem owns one star and an ordered collection of planets. The
// collection is mutated only by Update and by InsertPlanet.
type SolarSystem struct {
	ID      string
	Star    *star.Star
	Planets []*planet.Planet

	logger *slog.Logger
}

// MergeEvent records one pairwise merge resolved during Update.
type MergeEvent struct {
	Outer  string `json:"outer"`
	Inner  string `json:"inner"`
	Result string `json:"result"`
}

// UpdateReport summarizes what an Update pass removed or created.
type UpdateReport struct {
	Absorbed []string     `json:"absorbed,omitempty"`
	Merges   []MergeEvent `json:"merges,omitempty"`
}
