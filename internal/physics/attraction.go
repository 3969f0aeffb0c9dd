package physics

// Law is an inverse-square attraction with the separation clamped to
// [MinDist, MaxDist]. The clamp bounds the force near contact and caps the
// long-range pull; it is not meant to be physically accurate.
type Law struct {
	G       float64
	MinDist float64
	MaxDist float64
}

var (
	// StarLaw governs stars and planets as attractors.
	StarLaw = Law{G: 0.4, MinDist: 20, MaxDist: 200}

	// BlackHoleLaw governs black holes as attractors.
	BlackHoleLaw = Law{G: 50, MinDist: 50, MaxDist: 300}
)

// Force returns the force an attractor of mass ma at pa exerts on a body of
// mass mb at pb. Coincident positions yield the zero vector: there is no
// direction to pull in.
func (l Law) Force(ma float64, pa Vector2, mb float64, pb Vector2) Vector2 {
	raw := pa.Sub(pb)
	return raw.Normalize().Scale(l.Magnitude(ma, mb, raw.Mag()))
}

// Magnitude returns the scalar strength of the force for a given separation.
func (l Law) Magnitude(ma, mb, dist float64) float64 {
	d := clamp(dist, l.MinDist, l.MaxDist)
	return l.G * ma * mb / (d * d)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
