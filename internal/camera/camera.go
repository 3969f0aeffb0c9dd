package camera

import (
	"math"

	"galaxy-server/internal/physics"
)

const (
	MinZoom = 0.5
	MaxZoom = 1.5

	// PanSpeed is the screen distance covered by one pan step.
	PanSpeed = 10.0

	wheelFactor = 0.001
)

// Camera maps between world coordinates and a Width x Height screen whose
// center shows Origin at the given Zoom.
type Camera struct {
	Origin physics.Vector2
	Zoom   float64
	Width  float64
	Height float64
}

// New returns a camera centered on the middle of a width x height screen at
// zoom 1.
func New(width, height float64) *Camera {
	return &Camera{
		Origin: physics.Vec(width/2, height/2),
		Zoom:   1,
		Width:  width,
		Height: height,
	}
}

func (c *Camera) ScreenToWorld(p physics.Vector2) physics.Vector2 {
	return physics.Vector2{
		X: (p.X-c.Width/2)/c.Zoom + c.Origin.X,
		Y: (p.Y-c.Height/2)/c.Zoom + c.Origin.Y,
	}
}

func (c *Camera) WorldToScreen(p physics.Vector2) physics.Vector2 {
	return physics.Vector2{
		X: (p.X-c.Origin.X)*c.Zoom + c.Width/2,
		Y: (p.Y-c.Origin.Y)*c.Zoom + c.Height/2,
	}
}

// Pan moves the origin by (dx, dy) steps. A step covers the same screen
// distance at every zoom level.
func (c *Camera) Pan(dx, dy float64) {
	speed := PanSpeed / c.Zoom
	c.Origin.X += dx * speed
	c.Origin.Y += dy * speed
}

// ZoomBy applies a wheel delta and clamps the result.
func (c *Camera) ZoomBy(delta float64) {
	c.Zoom = clamp(c.Zoom+delta*wheelFactor, MinZoom, MaxZoom)
}

// Resize keeps the origin and zoom and changes the screen size.
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

// Visible reports whether a circle of world radius r at p overlaps the screen.
func (c *Camera) Visible(p physics.Vector2, r float64) bool {
	s := c.WorldToScreen(p)
	rs := r * c.Zoom
	return s.X+rs >= 0 && s.X-rs <= c.Width && s.Y+rs >= 0 && s.Y-rs <= c.Height
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
