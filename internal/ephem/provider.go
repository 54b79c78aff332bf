// Package ephem provides heliocentric planet positions and the bundled star
// catalog.
package ephem

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/logging"
	"github.com/litescript/ls-astral/internal/metrics"
)

var (
	// ErrUnsupportedBody is returned for a body name no provider can serve.
	ErrUnsupportedBody = errors.New("unsupported body")

	// ErrStarNotFound is returned when a star name is not in the catalog.
	ErrStarNotFound = errors.New("star not found")

	// ErrCatalogFormat is returned when catalog data is malformed.
	ErrCatalogFormat = errors.New("malformed star catalog")
)

// Provider defines the interface for heliocentric ephemeris sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Heliocentric returns the body's heliocentric position in AU on the
	// ecliptic of date at Julian Day jd.
	Heliocentric(ctx context.Context, body Body, jd float64) (astro.HelioVec, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeVSOP87   Mode = iota // Offline VSOP87 series, Kepler fallback (default)
	ModeKepler               // Offline Keplerian elements
	ModeHorizons             // JPL Horizons vectors
	ModeAuto                 // Try Horizons, fall back to the offline chain
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeVSOP87:
		return "vsop87"
	case ModeKepler:
		return "kepler"
	case ModeHorizons:
		return "horizons"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vsop87":
		return ModeVSOP87, nil
	case "kepler":
		return ModeKepler, nil
	case "horizons":
		return ModeHorizons, nil
	case "auto":
		return ModeAuto, nil
	default:
		return ModeVSOP87, fmt.Errorf("unknown ephemeris mode %q (want vsop87, kepler, horizons or auto)", s)
	}
}

// Options configures NewProvider.
type Options struct {
	VSOP87Dir         string        // VSOP87B data files, defaults to $VSOP87
	HorizonsURL       string        // defaults to HorizonsAPIURL
	HTTPClient        *http.Client  // defaults to a client with RequestTimeout
	RequestsPerSecond float64       // Horizons rate limit, defaults to DefaultRequestsPerSecond
	CacheTTL          time.Duration // Horizons cache lifetime, defaults to VectorCacheTTL
	Logger            *logging.Logger
	Metrics           *metrics.Metrics
}

func (o Options) logger() *logging.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

// NewProvider builds the provider chain for a mode. Every provider in the
// chain is instrumented with opts.Metrics.
func NewProvider(mode Mode, opts Options) (Provider, error) {
	kepler := Instrument(NewKeplerProvider(), opts.Metrics)

	switch mode {
	case ModeVSOP87:
		return offlineProvider(kepler, opts), nil
	case ModeKepler:
		return kepler, nil
	case ModeHorizons:
		return Instrument(NewHorizonsProvider(opts), opts.Metrics), nil
	case ModeAuto:
		horizons := Instrument(NewHorizonsProvider(opts), opts.Metrics)
		return NewFallbackProvider(horizons, offlineProvider(kepler, opts), opts.logger()), nil
	default:
		return nil, fmt.Errorf("unknown ephemeris mode %d", mode)
	}
}

// offlineProvider is VSOP87 backed by kepler, or kepler alone when no
// VSOP87 data directory is configured.
func offlineProvider(kepler Provider, opts Options) Provider {
	dir := VSOP87Dir(opts.VSOP87Dir)
	if dir == "" {
		opts.logger().Warn("no VSOP87 data directory (set %s), using %s", EnvVSOP87Dir, kepler.Name())
		return kepler
	}
	vsop := Instrument(NewVSOP87Provider(dir), opts.Metrics)
	return NewFallbackProvider(vsop, kepler, opts.logger())
}

// instrumented records request counts and latency for a provider.
type instrumented struct {
	Provider
	m *metrics.Metrics
}

// Instrument wraps p so every Heliocentric call is counted and timed. A nil
// m returns p unchanged.
func Instrument(p Provider, m *metrics.Metrics) Provider {
	if m == nil {
		return p
	}
	return &instrumented{Provider: p, m: m}
}

func (i *instrumented) Heliocentric(ctx context.Context, body Body, jd float64) (astro.HelioVec, error) {
	start := time.Now()
	v, err := i.Provider.Heliocentric(ctx, body, jd)
	i.m.ObserveEphemeris(i.Provider.Name(), time.Since(start), err)
	return v, err
}
