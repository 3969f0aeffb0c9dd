package snapshot

import (
	"time"

	"galaxy-server/internal/galaxy"
)

// Snapshot is a saved galaxy. State is nil in listings.
type Snapshot struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Tick        int64         `json:"tick"`
	PlanetCount int           `json:"planet_count"`
	State       *galaxy.State `json:"state,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type CreateRequest struct {
	Name string `json:"name"`
}

const maxNameLength = 100
