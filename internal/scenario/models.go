package scenario

import "galaxy-server/internal/system"

// Scenario is a hand-authored galaxy layout.
//
//	[[system]]
//	x = 0
//	y = 0
//	star = "sun"
//	planets = 6
//
//	[[black_hole]]
//	x = 900
//	y = -400
//	mass = 150
//	event_horizon = 50
type Scenario struct {
	Name       string          `toml:"name"`
	Systems    []SystemSpec    `toml:"system"`
	BlackHoles []BlackHoleSpec `toml:"black_hole"`
}

// SystemSpec places one solar system. Star may be a star type or "random".
type SystemSpec struct {
	X       float64 `toml:"x"`
	Y       float64 `toml:"y"`
	Star    string  `toml:"star"`
	Planets int     `toml:"planets"`
}

// BlackHoleSpec places one black hole. Zero mass or horizon falls back to
// the build defaults.
type BlackHoleSpec struct {
	X            float64 `toml:"x"`
	Y            float64 `toml:"y"`
	Mass         float64 `toml:"mass"`
	EventHorizon float64 `toml:"event_horizon"`
}

type Defaults struct {
	PlanetMass         system.MassRange
	BlackHoleMass      system.MassRange
	EventHorizonRadius float64
}

const RandomStar = "random"
