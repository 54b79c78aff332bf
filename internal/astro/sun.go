package astro

import (
	"math"
)

// SunDistanceKm is the mean Earth-Sun distance used by the low-precision
// solar position. It is not varied with anomaly.
const SunDistanceKm = 149598000.0

// perihelion is the longitude of Earth's perihelion in radians.
var perihelion = degToRad(102.9372)

// SolarMeanAnomaly returns the Sun's mean anomaly in radians for d days
// since J2000.0.
func SolarMeanAnomaly(d float64) float64 {
	return degToRad(357.5291 + 0.98560028*d)
}

// EquationOfCenter returns the equation of center in radians for mean
// anomaly m.
func EquationOfCenter(m float64) float64 {
	return degToRad(1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
}

// SunEclipticLongitude returns the Sun's geocentric ecliptic longitude in
// radians for mean anomaly m.
func SunEclipticLongitude(m float64) float64 {
	return m + EquationOfCenter(m) + perihelion + math.Pi
}

// SunPosition returns the Sun's low-precision geocentric equatorial
// position at jd. Angles are radians, distance is km. Ecliptic latitude is
// taken as zero.
func SunPosition(jd float64) (ra, dec, distKm float64) {
	l := SunEclipticLongitude(SolarMeanAnomaly(DaysSinceJ2000(jd)))
	return RightAscension(l, 0), Declination(l, 0), SunDistanceKm
}

// SunEquatorial returns SunPosition in degrees, RA in [0, 360).
func SunEquatorial(jd float64) Equatorial {
	ra, dec, dist := SunPosition(jd)
	return Equatorial{RADeg: NormalizeDegrees(radToDeg(ra)), DecDeg: radToDeg(dec), Dist: dist}
}

// SunHorizontal returns the Sun's apparent horizontal position for an
// observer at jd.
func SunHorizontal(jd float64, loc Location) Horizontal {
	eq := SunEquatorial(jd)
	return HorizontalAt(jd, loc, eq.RADeg, eq.DecDeg)
}

// SunSeparationTier categorizes angular distance from the Sun for display.
type SunSeparationTier int

const (
	SunSepSafe    SunSeparationTier = iota // >= 20 degrees
	SunSepCaution                          // 10-20 degrees
	SunSepWarning                          // < 10 degrees
)

// GetSunSeparationTier returns the tier for a given separation angle.
func GetSunSeparationTier(sepDeg float64) SunSeparationTier {
	switch {
	case sepDeg < 10:
		return SunSepWarning
	case sepDeg < 20:
		return SunSepCaution
	default:
		return SunSepSafe
	}
}
