package astro

import (
	"math"
)

// Location is a ground-based observer position on a spherical Earth.
type Location struct {
	LatDeg float64 `json:"lat_deg"` // north positive
	LonDeg float64 `json:"lon_deg"` // east positive
}

// Ecliptic holds ecliptic coordinates. Distance carries the unit of the
// source vector.
type Ecliptic struct {
	LonDeg float64 `json:"lon_deg"`
	LatDeg float64 `json:"lat_deg"`
	Dist   float64 `json:"dist"`
}

// Equatorial holds equatorial coordinates. Distance carries the unit of the
// source vector.
type Equatorial struct {
	RADeg  float64 `json:"ra_deg"`  // 0-360
	DecDeg float64 `json:"dec_deg"` // -90 to +90
	Dist   float64 `json:"dist"`
}

// Horizontal holds observer-relative coordinates.
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Altitude: apparent (refracted), 0° = horizon, 90° = zenith
type Horizontal struct {
	AzDeg  float64 `json:"az_deg"`
	AltDeg float64 `json:"alt_deg"`
}

// EclipticFromVector converts a Cartesian vector to ecliptic coordinates in
// degrees.
func EclipticFromVector(v Vec3) (Ecliptic, error) {
	lon, lat, dist, err := CartesianToSpherical(v)
	if err != nil {
		return Ecliptic{}, err
	}
	return Ecliptic{LonDeg: radToDeg(lon), LatDeg: radToDeg(lat), Dist: dist}, nil
}

// EclipticToEquatorial rotates ecliptic longitude and latitude into right
// ascension and declination for the given obliquity. All angles in radians.
func EclipticToEquatorial(lon, lat, obliquity float64) (ra, dec float64) {
	ra = math.Atan2(math.Sin(lon)*math.Cos(obliquity)-math.Tan(lat)*math.Sin(obliquity), math.Cos(lon))
	dec = math.Asin(math.Sin(lat)*math.Cos(obliquity) + math.Cos(lat)*math.Sin(obliquity)*math.Sin(lon))
	return ra, dec
}

// RightAscension returns the right ascension in radians of ecliptic
// coordinates l, b using the fixed obliquity.
func RightAscension(l, b float64) float64 {
	ra, _ := EclipticToEquatorial(l, b, FixedObliquity)
	return ra
}

// Declination returns the declination in radians of ecliptic coordinates
// l, b using the fixed obliquity.
func Declination(l, b float64) float64 {
	_, dec := EclipticToEquatorial(l, b, FixedObliquity)
	return dec
}

// EquatorialToHorizontal converts hour angle h, observer latitude phi and
// declination dec (radians) to azimuth and geometric altitude in radians.
// Azimuth is measured from south, westward positive.
func EquatorialToHorizontal(h, phi, dec float64) (az, alt float64) {
	alt = math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h))
	az = math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
	return az, alt
}

// HorizontalAt computes apparent horizontal coordinates of a body at the given
// equatorial position for an observer at jd. Refraction is applied once to
// altitude and azimuth is reported from north.
func HorizontalAt(jd float64, loc Location, raDeg, decDeg float64) Horizontal {
	h := LocalHourAngle(jd, loc.LonDeg, raDeg)
	az, alt := EquatorialToHorizontal(h, degToRad(loc.LatDeg), degToRad(decDeg))
	alt += Refraction(alt)
	return Horizontal{
		AzDeg:  NormalizeDegrees(radToDeg(az) + 180),
		AltDeg: radToDeg(alt),
	}
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)
	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return degToRad(deg) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return radToDeg(rad) }
