package physics

import "math"

// OrbitalSpeed is the circular-orbit speed at distance d from a central
// mass, sqrt(G*M/d) with the star constant. A zero distance yields zero.
func OrbitalSpeed(centralMass, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return math.Sqrt(StarLaw.G * centralMass / d)
}

// OrbitalVelocity returns the tangential velocity for a circular orbit at
// bearing angle and distance d around a central mass.
func OrbitalVelocity(centralMass, d, angle float64) Vector2 {
	v := OrbitalSpeed(centralMass, d)
	return Vector2{X: -math.Sin(angle) * v, Y: math.Cos(angle) * v}
}

// OrbitalInsert computes the circular-orbit velocity for a body placed at
// pos around a central body at center.
func OrbitalInsert(center Vector2, centralMass float64, pos Vector2) Vector2 {
	rel := pos.Sub(center)
	return OrbitalVelocity(centralMass, rel.Mag(), rel.Heading())
}
