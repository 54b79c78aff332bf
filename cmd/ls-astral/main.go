// Command ls-astral shows where the Sun, Moon, planets and bright stars are
// for an observer, as a terminal UI or as plain text and JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/celestial"
	"github.com/litescript/ls-astral/internal/config"
	"github.com/litescript/ls-astral/internal/ephem"
	"github.com/litescript/ls-astral/internal/logging"
	"github.com/litescript/ls-astral/internal/metrics"
	"github.com/litescript/ls-astral/internal/state"
	"github.com/litescript/ls-astral/internal/ui"
	"github.com/litescript/ls-astral/internal/version"
)

const (
	minRefresh = 1 * time.Second
	maxRefresh = 5 * time.Minute

	visibilitySpan = 24 * time.Hour
	visibilityStep = 10 * time.Minute
)

// bodyList collects -body flags; each may hold a comma-separated list.
type bodyList []string

func (b *bodyList) String() string { return strings.Join(*b, ",") }

func (b *bodyList) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*b = append(*b, name)
		}
	}
	return nil
}

// options are the parsed command-line flags.
type options struct {
	configPath  string
	writeConfig bool
	lat, lon    float64
	jd          float64
	at          string
	bodies      bodyList
	ephemMode   string
	vsop87Dir   string
	logLevel    string
	metricsAddr string
	refresh     time.Duration
	watch       time.Duration

	summary    bool
	jsonOut    bool
	moon       bool
	events     bool
	visibility bool
	showVer    bool

	set map[string]bool
}

func (o *options) headless() bool {
	return o.summary || o.jsonOut || o.moon || o.events || o.visibility
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.configPath, "config", defaultConfigPath(), "Path to JSON config file")
	flag.BoolVar(&o.writeConfig, "write-config", false, "Write the effective config to -config and exit")
	flag.Float64Var(&o.lat, "lat", 0, "Observer latitude in degrees, north positive")
	flag.Float64Var(&o.lon, "lon", 0, "Observer longitude in degrees, east positive")
	flag.Float64Var(&o.jd, "jd", 0, "Julian Day to compute for (default now)")
	flag.StringVar(&o.at, "time", "", "RFC3339 time to compute for (default now)")
	flag.Var(&o.bodies, "body", "Body to show; repeat or comma-separate (planet or star name)")
	flag.StringVar(&o.ephemMode, "ephem", "", "Ephemeris source: vsop87, kepler, horizons or auto")
	flag.StringVar(&o.vsop87Dir, "vsop87", "", "Directory holding the VSOP87B.* files (default $VSOP87)")
	flag.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flag.DurationVar(&o.refresh, "refresh", 0, "Sky refresh interval (e.g. 5s, 1m)")
	flag.DurationVar(&o.watch, "watch", 0, "Repeat headless output at interval (e.g. 30s)")
	flag.BoolVar(&o.summary, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&o.jsonOut, "json", false, "Print JSON snapshot instead of TUI")
	flag.BoolVar(&o.moon, "moon", false, "Print the Moon panel only")
	flag.BoolVar(&o.events, "events", false, "Print the event log after each refresh")
	flag.BoolVar(&o.visibility, "visibility", false, "Print rise, transit and set over the next 24h")
	flag.BoolVar(&o.showVer, "version", false, "Print version and exit")
	flag.Parse()

	o.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ls-astral.json"
	}
	return filepath.Join(dir, "ls-astral", "config.json")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(o *options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.set["lat"] {
		cfg.Observer.Latitude = o.lat
	}
	if o.set["lon"] {
		cfg.Observer.Longitude = o.lon
	}
	if o.ephemMode != "" {
		cfg.Ephemeris.Mode = o.ephemMode
	}
	if o.vsop87Dir != "" {
		cfg.Ephemeris.VSOP87Dir = o.vsop87Dir
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.set["metrics-addr"] {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if len(o.bodies) > 0 {
		cfg.Display.Bodies = o.bodies
	}
	if o.refresh > 0 {
		r := max(minRefresh, min(maxRefresh, o.refresh))
		cfg.Display.RefreshSeconds = int(r / time.Second)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// clock returns the instant to compute for: fixed by -jd or -time, or now.
func clock(o *options) (func() time.Time, error) {
	switch {
	case o.set["jd"] && o.at != "":
		return nil, errors.New("-jd and -time are mutually exclusive")
	case o.set["jd"]:
		t := astro.TimeFromJulian(o.jd)
		return func() time.Time { return t }, nil
	case o.at != "":
		t, err := time.Parse(time.RFC3339, o.at)
		if err != nil {
			return nil, fmt.Errorf("parse -time: %w", err)
		}
		return func() time.Time { return t }, nil
	default:
		return time.Now, nil
	}
}

func main() {
	o := parseFlags()
	if o.showVer {
		fmt.Println("ls-astral", version.Version)
		return
	}
	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o *options) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	if o.writeConfig {
		if err := cfg.Save(o.configPath); err != nil {
			return err
		}
		fmt.Println("wrote", o.configPath)
		return nil
	}
	now, err := clock(o)
	if err != nil {
		return err
	}

	logger := logging.NewWithConfig(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: logging.Format(strings.ToLower(cfg.Logging.Format)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		serveMetrics(ctx, cfg.Metrics.Addr, m, logger)
	}

	mode, err := ephem.ParseMode(cfg.Ephemeris.Mode)
	if err != nil {
		return err
	}
	provider, err := ephem.NewProvider(mode, ephem.Options{
		VSOP87Dir:         cfg.Ephemeris.VSOP87Dir,
		HorizonsURL:       cfg.Ephemeris.HorizonsURL,
		RequestsPerSecond: cfg.Ephemeris.RequestsPerSecond,
		CacheTTL:          cfg.CacheTTL(),
		Logger:            logger.With("component", "ephem"),
		Metrics:           m,
	})
	if err != nil {
		return err
	}

	catalog, err := ephem.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("load star catalog: %w", err)
	}
	logger.Debug("loaded %d catalog stars, ephemeris %s", catalog.Len(), provider.Name())

	sky := celestial.NewSky(provider, catalog,
		celestial.WithLogger(logger.With("component", "sky")),
		celestial.WithMetrics(m),
	)

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = cfg.Refresh()
	stateMgr := state.NewManager(stateCfg)

	c := &computer{
		sky:    sky,
		state:  stateMgr,
		loc:    cfg.Location(),
		bodies: cfg.Display.Bodies,
		now:    now,
		logger: logger,
	}

	if o.headless() || !term.IsTerminal(int(os.Stdout.Fd())) {
		if !o.headless() {
			o.summary = true
		}
		return runHeadless(ctx, c, o)
	}

	vis := func(ctx context.Context, name string) (celestial.VisibilityWindow, error) {
		return celestial.Visibility(sky.Sampler(ctx, name, c.loc), now(), visibilitySpan, visibilityStep)
	}
	model := ui.New(stateMgr, catalog, cfg.Display.MaxStarMagnitude, vis)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runComputeLoop(ctx, c, p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// computer builds snapshots and records them in the state manager.
type computer struct {
	sky    *celestial.Sky
	state  *state.Manager
	loc    astro.Location
	bodies []string
	now    func() time.Time
	logger *logging.Logger
}

func (c *computer) compute(ctx context.Context) (*celestial.Snapshot, error) {
	start := time.Now()
	snap, err := c.sky.Snapshot(ctx, c.now(), c.loc, c.bodies)
	d := time.Since(start)
	if err != nil {
		c.logger.Error("compute failed: %v", err)
		c.state.Update(nil, d, err)
		return nil, err
	}
	c.logger.Debug("computed %d bodies in %v", len(snap.Bodies), d)
	c.state.Update(&snap, d, nil)
	return &snap, nil
}

func runComputeLoop(ctx context.Context, c *computer, p *tea.Program) {
	step := func() {
		if _, err := c.compute(ctx); err != nil {
			if ctx.Err() == nil {
				p.Send(ui.ErrorMsg{Error: err})
			}
			return
		}
		p.Send(ui.DataUpdateMsg{Snapshot: c.state.Snapshot()})
	}

	step()

	ticker := time.NewTicker(c.state.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("compute loop shutting down")
			return
		case <-ticker.C:
			step()
		}
	}
}

// runHeadless prints the requested outputs once, or repeatedly with -watch.
func runHeadless(ctx context.Context, c *computer, o *options) error {
	outputOnce := func() error {
		snap, err := c.compute(ctx)
		if err != nil {
			return err
		}

		if o.jsonOut {
			if err := ui.WriteJSON(os.Stdout, snap); err != nil {
				return err
			}
		}
		if o.summary {
			ui.WriteSummary(os.Stdout, snap)
		}
		if o.moon && !o.summary {
			ui.WriteMoon(os.Stdout, snap.Moon)
		}
		if o.visibility {
			fmt.Println()
			ui.WriteVisibility(os.Stdout, visibilityRows(ctx, c, snap))
		}
		if o.events {
			fmt.Println()
			ui.WriteEvents(os.Stdout, c.state.RecentEvents(10), 10)
		}
		return nil
	}

	if o.watch == 0 {
		return outputOnce()
	}

	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(max(minRefresh, o.watch))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fmt.Println()
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// visibilityRows computes the next window for the Sun, the Moon and every
// body that resolved in snap.
func visibilityRows(ctx context.Context, c *computer, snap *celestial.Snapshot) []ui.VisibilityRow {
	names := []string{"Sun", "Moon"}
	for _, b := range snap.Bodies {
		if b.Error == "" {
			names = append(names, b.Name)
		}
	}

	rows := make([]ui.VisibilityRow, 0, len(names))
	for _, name := range names {
		w, err := celestial.Visibility(c.sky.Sampler(ctx, name, c.loc), snap.Time, visibilitySpan, visibilityStep)
		rows = append(rows, ui.VisibilityRow{Name: name, Window: w, Err: err})
	}
	return rows
}

// serveMetrics exposes /metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("serving metrics on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()
}
