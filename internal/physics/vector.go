package physics

import "math"

// Vector2 is a 2D point or displacement in world units.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(f float64) Vector2 {
	return Vector2{X: v.X * f, Y: v.Y * f}
}

// Div divides both components by d. Callers guarantee d != 0.
func (v Vector2) Div(d float64) Vector2 {
	return Vector2{X: v.X / d, Y: v.Y / d}
}

func (v Vector2) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Dist returns the Euclidean distance between two points.
func (v Vector2) Dist(o Vector2) float64 {
	return v.Sub(o).Mag()
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has zero length.
func (v Vector2) Normalize() Vector2 {
	m := v.Mag()
	if m == 0 {
		return Vector2{}
	}
	return v.Div(m)
}

// ClampMag limits the magnitude of v to max, keeping its direction.
func (v Vector2) ClampMag(max float64) Vector2 {
	m := v.Mag()
	if m <= max || m == 0 {
		return v
	}
	return v.Scale(max / m)
}

// Heading returns the angle of v in radians, measured from the +X axis.
func (v Vector2) Heading() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle builds a vector of the given length pointing at angle radians.
func FromAngle(angle, length float64) Vector2 {
	return Vector2{X: length * math.Cos(angle), Y: length * math.Sin(angle)}
}

// IsFinite reports whether both components are finite numbers.
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
