package celestial

import (
	"fmt"

	"github.com/litescript/ls-astral/internal/astro"
)

// Position is an immutable geocentric position of one body at one instant.
// All coordinate views are derived on demand.
type Position struct {
	geo  astro.GeoVec
	kind Kind
	jd   float64
}

// FromHeliocentric builds a position from a heliocentric vector and Earth's
// heliocentric vector at the same instant.
func FromHeliocentric(jd float64, helio, earth astro.HelioVec, kind Kind) Position {
	return Position{geo: helio.Geocentric(earth), kind: kind, jd: jd}
}

// FromGeocentricEquatorial builds a position from right ascension and
// declination in degrees and a distance in any unit.
func FromGeocentricEquatorial(jd, raDeg, decDeg, dist float64, kind Kind) Position {
	v := astro.SphericalToCartesian(astro.DegToRad(raDeg), astro.DegToRad(decDeg), dist)
	return Position{geo: astro.GeoVec{Vec3: v}, kind: kind, jd: jd}
}

// FromGeocentric builds a position from a geocentric vector already in the
// frame its kind expects.
func FromGeocentric(jd float64, geo astro.GeoVec, kind Kind) Position {
	return Position{geo: geo, kind: kind, jd: jd}
}

// SunFromEarth builds the Sun's position from Earth's heliocentric vector.
func SunFromEarth(jd float64, earth astro.HelioVec) Position {
	return Position{geo: astro.SunFromEarth(earth), kind: KindSun, jd: jd}
}

// JulianDay returns the instant of the position.
func (p Position) JulianDay() float64 { return p.jd }

// Kind returns the body kind.
func (p Position) Kind() Kind { return p.kind }

// Geocentric returns the stored geocentric vector.
func (p Position) Geocentric() astro.GeoVec { return p.geo }

// Ecliptic returns the geocentric vector in spherical form, degrees.
func (p Position) Ecliptic() (astro.Ecliptic, error) {
	return astro.EclipticFromVector(p.geo.Vec3)
}

// Equatorial returns right ascension, declination and distance.
//
// Stars store an equatorial vector and convert directly. Planets and the Sun
// rotate their ecliptic coordinates: declination uses the mean obliquity of
// date and right ascension the fixed obliquity. Moon positions come from the
// lunar pipeline and are rejected here.
func (p Position) Equatorial() (astro.Equatorial, error) {
	switch p.kind {
	case KindStar:
		lon, lat, dist, err := astro.CartesianToSpherical(p.geo.Vec3)
		if err != nil {
			return astro.Equatorial{}, err
		}
		return astro.Equatorial{
			RADeg:  astro.NormalizeDegrees(astro.RadToDeg(lon)),
			DecDeg: astro.RadToDeg(lat),
			Dist:   dist,
		}, nil

	case KindPlanet, KindSun:
		l, b, dist, err := astro.CartesianToSpherical(p.geo.Vec3)
		if err != nil {
			return astro.Equatorial{}, err
		}
		_, dec := astro.EclipticToEquatorial(l, b, astro.MeanObliquity(p.jd))
		ra := astro.RightAscension(l, b)
		return astro.Equatorial{
			RADeg:  astro.NormalizeDegrees(360 + astro.RadToDeg(ra)),
			DecDeg: astro.RadToDeg(dec),
			Dist:   dist,
		}, nil

	case KindMoon:
		return astro.Equatorial{}, fmt.Errorf("%w: moon positions are computed by Lunar", ErrUnsupportedKind)

	default:
		return astro.Equatorial{}, fmt.Errorf("%w: %v", ErrUnsupportedKind, p.kind)
	}
}

// Horizontal returns apparent azimuth (from north) and refracted altitude
// for an observer.
func (p Position) Horizontal(loc astro.Location) (astro.Horizontal, error) {
	eq, err := p.Equatorial()
	if err != nil {
		return astro.Horizontal{}, err
	}
	return astro.HorizontalAt(p.jd, loc, eq.RADeg, eq.DecDeg), nil
}

// SunSeparation returns the angular distance in degrees between a position
// and the Sun.
func SunSeparation(pos, sun Position) (float64, error) {
	a, err := pos.Equatorial()
	if err != nil {
		return 0, err
	}
	s, err := sun.Equatorial()
	if err != nil {
		return 0, err
	}
	return astro.AngularSeparation(a.RADeg, a.DecDeg, s.RADeg, s.DecDeg), nil
}
