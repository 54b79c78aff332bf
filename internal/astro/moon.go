package astro

import (
	"math"
)

// MoonEcliptic returns the Moon's low-precision geocentric ecliptic
// longitude and latitude (radians) and distance (km) for d days since
// J2000.0.
func MoonEcliptic(d float64) (lon, lat, distKm float64) {
	l := degToRad(218.316 + 13.176396*d) // mean longitude
	m := degToRad(134.963 + 13.064993*d) // mean anomaly
	f := degToRad(93.272 + 13.229350*d)  // mean distance

	lon = l + degToRad(6.289)*math.Sin(m)
	lat = degToRad(5.128) * math.Sin(f)
	distKm = 385001 - 20905*math.Cos(m)
	return lon, lat, distKm
}

// MoonPosition returns the Moon's geocentric equatorial position at jd.
// Angles are radians, distance is km.
func MoonPosition(jd float64) (ra, dec, distKm float64) {
	l, b, dist := MoonEcliptic(DaysSinceJ2000(jd))
	return RightAscension(l, b), Declination(l, b), dist
}

// MoonGeocentric returns the Moon's geocentric position in AU on the
// ecliptic of date.
func MoonGeocentric(jd float64) GeoVec {
	l, b, dist := MoonEcliptic(DaysSinceJ2000(jd))
	return GeoVec{SphericalToCartesian(l, b, KmToAU(dist))}
}

// MoonEquatorial returns MoonPosition in degrees, RA in [0, 360).
func MoonEquatorial(jd float64) Equatorial {
	ra, dec, dist := MoonPosition(jd)
	return Equatorial{RADeg: NormalizeDegrees(radToDeg(ra)), DecDeg: radToDeg(dec), Dist: dist}
}

// MoonHorizontal returns the Moon's apparent horizontal position for an
// observer at jd.
func MoonHorizontal(jd float64, loc Location) Horizontal {
	eq := MoonEquatorial(jd)
	return HorizontalAt(jd, loc, eq.RADeg, eq.DecDeg)
}

// MoonPhaseAngle returns the Sun-Moon elongation, the phase angle (both
// radians) and whether the Moon is waxing at jd.
func MoonPhaseAngle(jd float64) (elongation, inc float64, waxing bool) {
	sRA, sDec, sDist := SunPosition(jd)
	mRA, mDec, mDist := MoonPosition(jd)

	cosPhi := math.Sin(sDec)*math.Sin(mDec) + math.Cos(sDec)*math.Cos(mDec)*math.Cos(sRA-mRA)
	elongation = math.Acos(math.Max(-1, math.Min(1, cosPhi)))
	inc = math.Atan2(sDist*math.Sin(elongation), mDist-sDist*math.Cos(elongation))

	angle := math.Atan2(
		math.Cos(sDec)*math.Sin(sRA-mRA),
		math.Sin(sDec)*math.Cos(mDec)-math.Cos(sDec)*math.Sin(mDec)*math.Cos(sRA-mRA),
	)
	return elongation, inc, angle < 0
}

// MoonIllumination returns the illuminated fraction of the lunar disk at jd,
// in [0, 1].
func MoonIllumination(jd float64) float64 {
	_, inc, _ := MoonPhaseAngle(jd)
	return (1 + math.Cos(inc)) / 2
}

// MoonPhase returns the position in the lunation at jd: 0 new, 0.25 first
// quarter, 0.5 full, 0.75 last quarter.
func MoonPhase(jd float64) float64 {
	_, inc, waxing := MoonPhaseAngle(jd)
	sign := 1.0
	if waxing {
		sign = -1
	}
	return 0.5 + 0.5*inc*sign/math.Pi
}
