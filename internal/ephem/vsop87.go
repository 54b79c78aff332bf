package ephem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/soniakeys/meeus/v3/planetposition"

	"github.com/litescript/ls-astral/internal/astro"
)

// EnvVSOP87Dir names the directory holding the VSOP87B data files when no
// directory is configured.
const EnvVSOP87Dir = "VSOP87"

// ErrNoPlanetData is returned when a body's VSOP87 series cannot be loaded.
var ErrNoPlanetData = errors.New("VSOP87 data unavailable")

// vsopPlanets maps bodies to planetposition's planet constants.
var vsopPlanets = map[Body]int{
	Mercury: planetposition.Mercury,
	Venus:   planetposition.Venus,
	Earth:   planetposition.Earth,
	Mars:    planetposition.Mars,
	Jupiter: planetposition.Jupiter,
	Saturn:  planetposition.Saturn,
	Uranus:  planetposition.Uranus,
	Neptune: planetposition.Neptune,
}

// VSOP87Provider evaluates the full VSOP87B series from files in a data
// directory. Each body's file is parsed on first use.
type VSOP87Provider struct {
	dir string

	mu      sync.Mutex
	planets map[Body]*planetposition.V87Planet
	loadErr map[Body]error
}

// NewVSOP87Provider creates a provider reading VSOP87B.* files from dir.
func NewVSOP87Provider(dir string) *VSOP87Provider {
	return &VSOP87Provider{
		dir:     dir,
		planets: make(map[Body]*planetposition.V87Planet),
		loadErr: make(map[Body]error),
	}
}

// VSOP87Dir returns dir, or the EnvVSOP87Dir environment variable when dir
// is empty.
func VSOP87Dir(dir string) string {
	if dir != "" {
		return dir
	}
	return os.Getenv(EnvVSOP87Dir)
}

// Name implements Provider.
func (p *VSOP87Provider) Name() string {
	return "vsop87"
}

// Heliocentric implements Provider.
func (p *VSOP87Provider) Heliocentric(ctx context.Context, body Body, jd float64) (astro.HelioVec, error) {
	if err := ctx.Err(); err != nil {
		return astro.HelioVec{}, err
	}
	planet, err := p.planet(body)
	if err != nil {
		return astro.HelioVec{}, err
	}

	l, b, r := planet.Position2000(jd)
	v := astro.SphericalToCartesian(l.Rad(), b.Rad(), r)
	return astro.HelioVec{Vec3: astro.PrecessEcliptic(v, jd)}, nil
}

// planet returns the parsed series for body. Load failures are remembered
// so a missing file is read once.
func (p *VSOP87Provider) planet(body Body) (*planetposition.V87Planet, error) {
	idx, ok := vsopPlanets[body]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBody, body)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if pl, ok := p.planets[body]; ok {
		return pl, nil
	}
	if err, ok := p.loadErr[body]; ok {
		return nil, err
	}

	if p.dir == "" {
		err := fmt.Errorf("%w: no data directory", ErrNoPlanetData)
		p.loadErr[body] = err
		return nil, err
	}
	pl, err := planetposition.LoadPlanetPath(idx, p.dir)
	if err != nil {
		err = fmt.Errorf("%w: %v: %v", ErrNoPlanetData, body, err)
		p.loadErr[body] = err
		return nil, err
	}
	p.planets[body] = pl
	return pl, nil
}
