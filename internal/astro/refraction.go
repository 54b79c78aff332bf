package astro

import "math"

// Refraction returns the atmospheric refraction correction in radians for a
// geometric altitude h in radians (Meeus 16.4). Altitudes below the horizon
// are evaluated at 0. The result is never negative.
func Refraction(h float64) float64 {
	if h < 0 {
		h = 0
	}
	r := 0.0002967 / math.Tan(h+0.00312536/(h+0.08901179))
	if r < 0 {
		return 0
	}
	return r
}

// ApparentAltitude applies Refraction to a geometric altitude in radians.
func ApparentAltitude(h float64) float64 {
	return h + Refraction(h)
}
