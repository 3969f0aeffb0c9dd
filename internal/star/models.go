package star

import (
	"galaxy-server/internal/physics"
	"galaxy-server/internal/shared/colors"
)

type Type string

const (
	TypeSun         Type = "sun"
	TypeWhiteDwarf  Type = "white_dwarf"
	TypeRedGiant    Type = "red_giant"
	TypeNeutronStar Type = "neutron_star"
)

// Types lists every star type in a fixed order for uniform random selection.
var Types = []Type{TypeSun, TypeWhiteDwarf, TypeRedGiant, TypeNeutronStar}

// Preset holds the fixed stats for a star type.
type Preset struct {
	Mass  float64
	Color colors.RGB
	Label string
}

var presets = map[Type]Preset{
	TypeSun:         {Mass: 50, Color: colors.RGB{R: 255, G: 204, B: 0}, Label: "Sun"},
	TypeWhiteDwarf:  {Mass: 30, Color: colors.RGB{R: 200, G: 200, B: 255}, Label: "White Dwarf"},
	TypeRedGiant:    {Mass: 70, Color: colors.RGB{R: 255, G: 100, B: 100}, Label: "Red Giant"},
	TypeNeutronStar: {Mass: 40, Color: colors.RGB{R: 150, G: 150, B: 255}, Label: "Neutron Star"},
}

// Star is the immobile center of a solar system.
type Star struct {
	ID       string          `json:"id"`
	Type     Type            `json:"type"`
	Position physics.Vector2 `json:"position"`
	Mass     float64         `json:"mass"`
	Radius   float64         `json:"radius"`
	Color    colors.RGB      `json:"color"`
}
