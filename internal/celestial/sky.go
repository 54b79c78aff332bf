package celestial

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/ephem"
	"github.com/litescript/ls-astral/internal/logging"
	"github.com/litescript/ls-astral/internal/metrics"
)

// Sky resolves bodies by name against an ephemeris provider and a star
// catalog. It is safe for concurrent use if the provider is.
type Sky struct {
	provider ephem.Provider
	catalog  *ephem.StarCatalog
	log      *logging.Logger
	metrics  *metrics.Metrics
}

// Option configures a Sky.
type Option func(*Sky)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Sky) { s.log = l }
}

// WithMetrics records lookups in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sky) { s.metrics = m }
}

// NewSky creates a Sky. A nil catalog disables star lookups.
func NewSky(p ephem.Provider, catalog *ephem.StarCatalog, opts ...Option) *Sky {
	s := &Sky{provider: p, catalog: catalog, log: logging.Discard()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ProviderName returns the name of the underlying ephemeris provider.
func (s *Sky) ProviderName() string {
	return s.provider.Name()
}

// Catalog returns the star catalog, which may be nil.
func (s *Sky) Catalog() *ephem.StarCatalog {
	return s.catalog
}

func (s *Sky) observe(kind Kind, err error) {
	s.metrics.ObserveLookup(kind.String(), metrics.Result(err, ephem.ErrStarNotFound, ephem.ErrUnsupportedBody))
}

// Planet returns a planet's geocentric position at jd.
func (s *Sky) Planet(ctx context.Context, jd float64, name string) (pos Position, err error) {
	defer func() { s.observe(KindPlanet, err) }()

	body, err := ephem.ParseBody(name)
	if err != nil {
		return Position{}, err
	}
	helio, err := s.provider.Heliocentric(ctx, body, jd)
	if err != nil {
		return Position{}, fmt.Errorf("%v: %w", body, err)
	}
	earth, err := s.earth(ctx, jd)
	if err != nil {
		return Position{}, err
	}
	s.log.Debug("planet %v at JD %.5f: helio %+v", body, jd, helio.Vec3)
	return FromHeliocentric(jd, helio, earth, KindPlanet), nil
}

// Sun returns the Sun's geocentric position at jd.
func (s *Sky) Sun(ctx context.Context, jd float64) (pos Position, err error) {
	defer func() { s.observe(KindSun, err) }()

	earth, err := s.earth(ctx, jd)
	if err != nil {
		return Position{}, err
	}
	return SunFromEarth(jd, earth), nil
}

func (s *Sky) earth(ctx context.Context, jd float64) (astro.HelioVec, error) {
	earth, err := s.provider.Heliocentric(ctx, ephem.Earth, jd)
	if err != nil {
		return astro.HelioVec{}, fmt.Errorf("earth: %w", err)
	}
	return earth, nil
}

// Star returns a catalog star's position at jd.
func (s *Sky) Star(jd float64, name string) (pos Position, err error) {
	defer func() { s.observe(KindStar, err) }()

	if s.catalog == nil {
		return Position{}, fmt.Errorf("%w: %q (no catalog loaded)", ephem.ErrStarNotFound, name)
	}
	star, err := s.catalog.Lookup(name)
	if err != nil {
		return Position{}, err
	}
	return FromGeocentric(jd, star.Vector(), KindStar), nil
}

// Lunar returns the Moon's position and phase at jd for loc.
func (s *Sky) Lunar(jd float64, loc astro.Location) LunarInfo {
	info := Lunar(jd, loc)
	s.observe(KindMoon, nil)
	return info
}

// Body resolves name as the Sun, a planet, or a catalog star in that order.
// The Moon has no Position and is rejected with ErrUnsupportedKind.
func (s *Sky) Body(ctx context.Context, jd float64, name string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sun", "sol":
		return s.Sun(ctx, jd)
	case "moon", "luna":
		return Position{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, KindMoon)
	}
	if _, err := ephem.ParseBody(name); err == nil {
		return s.Planet(ctx, jd, name)
	}
	return s.Star(jd, name)
}

// Sampler returns a visibility sampler for the named body, the Moon
// included.
func (s *Sky) Sampler(ctx context.Context, name string, loc astro.Location) Sampler {
	if n := strings.ToLower(strings.TrimSpace(name)); n == "moon" || n == "luna" {
		return func(t time.Time) (astro.Horizontal, error) {
			return MoonHorizontal(astro.JulianDay(t), loc), nil
		}
	}
	return func(t time.Time) (astro.Horizontal, error) {
		pos, err := s.Body(ctx, astro.JulianDay(t), name)
		if err != nil {
			return astro.Horizontal{}, err
		}
		return pos.Horizontal(loc)
	}
}

// BodyReport holds every view of one body for an observer.
type BodyReport struct {
	Name          string            `json:"name"`
	Kind          Kind              `json:"kind"`
	Ecliptic      *astro.Ecliptic   `json:"ecliptic,omitempty"`
	Equatorial    *astro.Equatorial `json:"equatorial,omitempty"`
	Horizontal    *astro.Horizontal `json:"horizontal,omitempty"`
	SunSeparation float64           `json:"sun_separation_deg,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// Snapshot is the sky for one observer at one instant.
type Snapshot struct {
	Time     time.Time      `json:"time"`
	JD       float64        `json:"jd"`
	Location astro.Location `json:"location"`
	Provider string         `json:"provider"`
	Sun      BodyReport     `json:"sun"`
	Moon     LunarInfo      `json:"moon"`
	Bodies   []BodyReport   `json:"bodies"`
}

// Snapshot computes the Sun, the Moon and each named body at t. A body that
// cannot be resolved is reported with its error; only context errors and a
// failure to place the Sun abort the snapshot.
func (s *Sky) Snapshot(ctx context.Context, t time.Time, loc astro.Location, names []string) (Snapshot, error) {
	jd := astro.JulianDay(t)
	snap := Snapshot{
		Time:     t.UTC(),
		JD:       jd,
		Location: loc,
		Provider: s.provider.Name(),
		Moon:     s.Lunar(jd, loc),
		Bodies:   make([]BodyReport, 0, len(names)),
	}

	sun, err := s.Sun(ctx, jd)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sun: %w", err)
	}
	snap.Sun = report("Sun", sun, nil, loc)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		pos, err := s.Body(ctx, jd, name)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Snapshot{}, err
			}
			s.log.Warn("lookup %q: %v", name, err)
			snap.Bodies = append(snap.Bodies, BodyReport{Name: name, Error: err.Error()})
			continue
		}
		snap.Bodies = append(snap.Bodies, report(name, pos, &sun, loc))
	}
	return snap, nil
}

func report(name string, pos Position, sun *Position, loc astro.Location) BodyReport {
	r := BodyReport{Name: name, Kind: pos.Kind()}

	ecl, err := pos.Ecliptic()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Ecliptic = &ecl

	eq, err := pos.Equatorial()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Equatorial = &eq

	h := astro.HorizontalAt(pos.JulianDay(), loc, eq.RADeg, eq.DecDeg)
	r.Horizontal = &h

	if sun != nil {
		if sep, err := SunSeparation(pos, *sun); err == nil {
			r.SunSeparation = sep
		}
	}
	return r
}
