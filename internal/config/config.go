// Package config provides configuration management for ls-astral.
// Configuration is loaded from a JSON file, then environment variables
// override individual fields.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/ephem"
)

// Environment variables that override file settings.
const (
	EnvLatitude    = "LS_ASTRAL_LAT"
	EnvLongitude   = "LS_ASTRAL_LON"
	EnvEphemeris   = "LS_ASTRAL_EPHEM"
	EnvVSOP87Dir   = "LS_ASTRAL_VSOP87"
	EnvHorizonsURL = "LS_ASTRAL_HORIZONS_URL"
	EnvLogLevel    = "LS_ASTRAL_LOG_LEVEL"
	EnvMetricsAddr = "LS_ASTRAL_METRICS_ADDR"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the application configuration.
type Config struct {
	Observer  ObserverConfig  `json:"observer"`
	Ephemeris EphemerisConfig `json:"ephemeris"`
	Logging   LoggingConfig   `json:"logging"`
	Metrics   MetricsConfig   `json:"metrics"`
	Display   DisplayConfig   `json:"display"`
}

// ObserverConfig is the observing site.
type ObserverConfig struct {
	Name string `json:"name"`

	// Latitude in degrees, north positive.
	Latitude float64 `json:"latitude"`

	// Longitude in degrees, east positive.
	Longitude float64 `json:"longitude"`
}

// EphemerisConfig selects and tunes the planet position source.
type EphemerisConfig struct {
	// Mode is "vsop87", "kepler", "horizons" or "auto".
	Mode string `json:"mode"`

	// VSOP87Dir holds the VSOP87B.* series files. Empty falls back to $VSOP87.
	VSOP87Dir string `json:"vsop87_dir,omitempty"`

	HorizonsURL string `json:"horizons_url"`

	// RequestsPerSecond limits calls to the Horizons API.
	RequestsPerSecond float64 `json:"requests_per_second"`

	// CacheTTLSeconds is how long fetched vectors are reused.
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // "text" or "json"
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables it.
	Addr string `json:"addr"`
}

// DisplayConfig controls what is shown and how often it refreshes.
type DisplayConfig struct {
	Bodies         []string `json:"bodies"`
	RefreshSeconds int      `json:"refresh_seconds"`

	// MaxStarMagnitude hides fainter catalog stars on the sky view.
	MaxStarMagnitude float64 `json:"max_star_magnitude"`
}

// Load reads a configuration file. A missing file yields the defaults.
// Fields absent from the file keep their default values. Environment
// overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.ApplyEnvironment(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON, creating the directory
// if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Observer: ObserverConfig{
			Name:      "Santa Rosa, CA",
			Latitude:  38.44043,
			Longitude: -122.71405,
		},
		Ephemeris: EphemerisConfig{
			Mode:              ephem.ModeVSOP87.String(),
			HorizonsURL:       ephem.HorizonsAPIURL,
			RequestsPerSecond: ephem.DefaultRequestsPerSecond,
			CacheTTLSeconds:   int(ephem.VectorCacheTTL / time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Display: DisplayConfig{
			Bodies:           []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"},
			RefreshSeconds:   5,
			MaxStarMagnitude: 2.5,
		},
	}
}

// ApplyEnvironment applies overrides using lookup, normally os.LookupEnv.
func (c *Config) ApplyEnvironment(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLatitude); ok && v != "" {
		lat, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvLatitude, v, err)
		}
		c.Observer.Latitude = lat
	}
	if v, ok := lookup(EnvLongitude); ok && v != "" {
		lon, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvLongitude, v, err)
		}
		c.Observer.Longitude = lon
	}
	if v, ok := lookup(EnvEphemeris); ok && v != "" {
		c.Ephemeris.Mode = v
	}
	if v, ok := lookup(EnvVSOP87Dir); ok && v != "" {
		c.Ephemeris.VSOP87Dir = v
	}
	if v, ok := lookup(EnvHorizonsURL); ok && v != "" {
		c.Ephemeris.HorizonsURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.Metrics.Addr = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Observer.Latitude < -90 || c.Observer.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalid, c.Observer.Latitude)
	}
	if c.Observer.Longitude < -180 || c.Observer.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalid, c.Observer.Longitude)
	}
	if _, err := ephem.ParseMode(c.Ephemeris.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Ephemeris.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: requests_per_second must be positive", ErrInvalid)
	}
	if c.Ephemeris.CacheTTLSeconds < 0 {
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalid)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Logging.Format)
	}
	if c.Display.RefreshSeconds <= 0 {
		return fmt.Errorf("%w: refresh_seconds must be positive", ErrInvalid)
	}
	return nil
}

// Location returns the observer as an astro.Location.
func (c *Config) Location() astro.Location {
	return astro.Location{LatDeg: c.Observer.Latitude, LonDeg: c.Observer.Longitude}
}

// CacheTTL returns the Horizons cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Ephemeris.CacheTTLSeconds) * time.Second
}

// Refresh returns the display refresh interval.
func (c *Config) Refresh() time.Duration {
	return time.Duration(c.Display.RefreshSeconds) * time.Second
}
