// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"errors"
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// ErrDegenerateVector is returned when a spherical conversion is asked for a
// zero-length vector, which has no defined direction.
var ErrDegenerateVector = errors.New("astro: zero-length vector has no direction")

// Vec3 is an untagged Cartesian triple. The frame is carried by the wrapping
// HelioVec and GeoVec types, never by Vec3 itself.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Neg returns the vector pointing the opposite way.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// HelioVec is a heliocentric position in AU, ecliptic of date.
type HelioVec struct {
	Vec3
}

// GeoVec is a geocentric position. Planets and the Sun are in AU on the
// ecliptic of date; catalog stars are in the catalog's units on the equator.
type GeoVec struct {
	Vec3
}

// Helio tags a raw vector as heliocentric.
func Helio(x, y, z float64) HelioVec {
	return HelioVec{Vec3{X: x, Y: y, Z: z}}
}

// Geo tags a raw vector as geocentric.
func Geo(x, y, z float64) GeoVec {
	return GeoVec{Vec3{X: x, Y: y, Z: z}}
}

// Geocentric shifts a heliocentric position to Earth's center by subtracting
// Earth's heliocentric position at the same instant.
func (h HelioVec) Geocentric(earth HelioVec) GeoVec {
	return GeoVec{h.Vec3.Sub(earth.Vec3)}
}

// Heliocentric is the inverse of HelioVec.Geocentric.
func (g GeoVec) Heliocentric(earth HelioVec) HelioVec {
	return HelioVec{g.Vec3.Add(earth.Vec3)}
}

// SunFromEarth returns the Sun's geocentric position, which is Earth's
// heliocentric position reversed.
func SunFromEarth(earth HelioVec) GeoVec {
	return GeoVec{earth.Vec3.Neg()}
}

// CartesianToSpherical converts a Cartesian vector to longitude, latitude
// (radians) and distance. Longitude is in [0, 2π).
func CartesianToSpherical(v Vec3) (lon, lat, dist float64, err error) {
	dist = v.Norm()
	if dist == 0 {
		return 0, 0, 0, ErrDegenerateVector
	}
	lon = math.Atan2(v.Y, v.X)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	lat = math.Asin(v.Z / dist)
	return lon, lat, dist, nil
}

// SphericalToCartesian converts longitude and latitude (radians) and a
// distance back to a Cartesian vector.
func SphericalToCartesian(lon, lat, dist float64) Vec3 {
	return Vec3{
		X: dist * math.Cos(lat) * math.Cos(lon),
		Y: dist * math.Cos(lat) * math.Sin(lon),
		Z: dist * math.Sin(lat),
	}
}

// PrecessEcliptic rotates a vector given on the J2000.0 ecliptic to the
// ecliptic and equinox of date (Meeus eq. 21.5, starting epoch J2000.0).
func PrecessEcliptic(v Vec3, jd float64) Vec3 {
	t := JulianCenturies(jd)
	if t == 0 {
		return v
	}
	lon, lat, dist, err := CartesianToSpherical(v)
	if err != nil {
		return v
	}

	eta := arcsecToRad(47.0029*t - 0.03302*t*t + 0.000060*t*t*t)
	bigPi := degToRad(174.876384) + arcsecToRad(-869.8089*t+0.03536*t*t)
	p := arcsecToRad(5029.0966*t + 1.11113*t*t - 0.000006*t*t*t)

	a := math.Cos(eta)*math.Cos(lat)*math.Sin(bigPi-lon) - math.Sin(eta)*math.Sin(lat)
	b := math.Cos(lat) * math.Cos(bigPi-lon)
	c := math.Cos(eta)*math.Sin(lat) + math.Sin(eta)*math.Cos(lat)*math.Sin(bigPi-lon)

	lonDate := p + bigPi - math.Atan2(a, b)
	latDate := math.Asin(c)
	return SphericalToCartesian(lonDate, latDate, dist)
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// AUToKm converts Astronomical Units to kilometers.
func AUToKm(au float64) float64 {
	return au * AU
}

func arcsecToRad(s float64) float64 {
	return s / 3600 * math.Pi / 180
}
