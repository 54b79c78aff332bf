package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/nutation"
)

// J2000 is the Julian Day of the J2000.0 epoch.
const J2000 = 2451545.0

// FixedObliquity is the constant obliquity of the ecliptic used by the
// low-precision solar and lunar formulas, in radians.
var FixedObliquity = degToRad(23.4397)

// JulianDay returns the Julian Day for a time instant.
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJulian converts a Julian Day back to a UTC time.
func TimeFromJulian(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// DaysSinceJ2000 returns the number of days elapsed since J2000.0.
func DaysSinceJ2000(jd float64) float64 {
	return jd - J2000
}

// JulianCenturies returns Julian centuries since J2000.0.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525
}

// MeanObliquity returns the IAU mean obliquity of the ecliptic at jd, in radians.
func MeanObliquity(jd float64) float64 {
	return nutation.MeanObliquity(jd).Rad()
}

// SiderealTime returns the local sidereal angle in radians for d days since
// J2000.0 and west longitude lw (radians).
func SiderealTime(d, lw float64) float64 {
	return degToRad(280.16+360.9856235*d) - lw
}

// LocalHourAngle returns the hour angle in radians of a body with right
// ascension raDeg seen from east longitude lonDeg at jd.
func LocalHourAngle(jd, lonDeg, raDeg float64) float64 {
	lw := degToRad(-lonDeg)
	return SiderealTime(DaysSinceJ2000(jd), lw) - degToRad(raDeg)
}

// NormalizeDegrees reduces an angle to [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}
