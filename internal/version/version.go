// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Visibility windows, event log, Prometheus metrics endpoint
// 0.2.0 - JPL Horizons vectors with Kepler fallback, --ephem flag
// 0.1.0 - Initial release: planets, Sun, Moon and catalog stars, TUI and headless modes
