package ephem

import (
	"context"
	"fmt"
	"math"

	"github.com/litescript/ls-astral/internal/astro"
)

// earthMoonMassRatio is the Earth/Moon mass ratio used to split the
// Earth-Moon barycenter.
const earthMoonMassRatio = 81.30056

// orbitalElements are Keplerian elements at J2000.0 and their rates per
// Julian century.
type orbitalElements struct {
	a, e, i, l, peri, node       float64 // AU, -, deg, deg, deg, deg
	da, de, di, dl, dperi, dnode float64 // per century
}

// keplerElements are JPL's approximate elements valid 1800-2050 AD
// (Standish, Table 1). Earth's row is the Earth-Moon barycenter.
var keplerElements = map[Body]orbitalElements{
	Mercury: {
		0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081,
	},
	Venus: {
		0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418,
	},
	Earth: {
		1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0,
		0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0,
	},
	Mars: {
		1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343,
	},
	Jupiter: {
		5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
		-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106,
	},
	Saturn: {
		9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
		-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794,
	},
	Uranus: {
		19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503,
		-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589,
	},
	Neptune: {
		30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574,
		0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.00508664,
	},
}

// KeplerProvider computes heliocentric positions offline from mean orbital
// elements. Accuracy is roughly 0.01° for the inner planets.
type KeplerProvider struct{}

// NewKeplerProvider creates an offline Keplerian provider.
func NewKeplerProvider() *KeplerProvider {
	return &KeplerProvider{}
}

// Name implements Provider.
func (p *KeplerProvider) Name() string {
	return "kepler"
}

// Heliocentric implements Provider.
func (p *KeplerProvider) Heliocentric(ctx context.Context, body Body, jd float64) (astro.HelioVec, error) {
	if err := ctx.Err(); err != nil {
		return astro.HelioVec{}, err
	}
	el, ok := keplerElements[body]
	if !ok {
		return astro.HelioVec{}, fmt.Errorf("%w: %v", ErrUnsupportedBody, body)
	}

	t := astro.JulianCenturies(jd)
	v := el.position(t)
	if body == Earth {
		// Barycenter to Earth center.
		moon := astro.MoonGeocentric(jd)
		v = v.Sub(moon.Scale(1 / (1 + earthMoonMassRatio)))
	}

	v = astro.PrecessEcliptic(v, jd)
	return astro.HelioVec{Vec3: v}, nil
}

// position returns the J2000 ecliptic position in AU at t Julian centuries.
func (el orbitalElements) position(t float64) astro.Vec3 {
	a := el.a + el.da*t
	e := el.e + el.de*t
	inc := astro.DegToRad(el.i + el.di*t)
	l := el.l + el.dl*t
	peri := el.peri + el.dperi*t
	node := el.node + el.dnode*t

	m := astro.DegToRad(normalizeSigned(l - peri))
	w := astro.DegToRad(peri - node)
	n := astro.DegToRad(node)

	ea := solveKepler(m, e)

	// Orbital plane
	xp := a * (math.Cos(ea) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ea)

	cw, sw := math.Cos(w), math.Sin(w)
	cn, sn := math.Cos(n), math.Sin(n)
	ci, si := math.Cos(inc), math.Sin(inc)

	return astro.Vec3{
		X: (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp,
		Y: (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp,
		Z: (sw*si)*xp + (cw*si)*yp,
	}
}

// solveKepler solves M = E - e sin E for the eccentric anomaly by Newton
// iteration.
func solveKepler(m, e float64) float64 {
	ea := m + e*math.Sin(m)*(1+e*math.Cos(m))
	for iter := 0; iter < 30; iter++ {
		delta := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= delta
		if math.Abs(delta) < 1e-14 {
			break
		}
	}
	return ea
}

// normalizeSigned reduces degrees to [-180, 180).
func normalizeSigned(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}
