package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/celestial"
	"github.com/litescript/ls-astral/internal/state"
)

// FormatRA renders right ascension in degrees as hours, minutes, seconds.
func FormatRA(deg float64) string {
	h := astro.NormalizeDegrees(deg) / 15
	hh := int(h)
	m := (h - float64(hh)) * 60
	mm := int(m)
	ss := (m - float64(mm)) * 60
	if ss >= 59.95 {
		ss = 0
		mm++
	}
	if mm == 60 {
		mm = 0
		hh = (hh + 1) % 24
	}
	return fmt.Sprintf("%02dh%02dm%04.1fs", hh, mm, ss)
}

// FormatDec renders declination in degrees as signed degrees, arcminutes,
// arcseconds.
func FormatDec(deg float64) string {
	sign := '+'
	if deg < 0 {
		sign = '-'
	}
	a := math.Abs(deg)
	d := int(a)
	m := (a - float64(d)) * 60
	mm := int(m)
	ss := int(math.Round((m - float64(mm)) * 60))
	if ss == 60 {
		ss = 0
		mm++
	}
	if mm == 60 {
		mm = 0
		d++
	}
	return fmt.Sprintf("%c%02d°%02d'%02d\"", sign, d, mm, ss)
}

// FormatDistance renders a distance in the unit its kind uses.
func FormatDistance(dist float64, kind celestial.Kind) string {
	switch kind {
	case celestial.KindStar:
		return fmt.Sprintf("%.1f pc", dist)
	case celestial.KindMoon:
		return fmt.Sprintf("%.0f km", dist)
	default:
		return fmt.Sprintf("%.4f AU", dist)
	}
}

// compassPoint returns the 16-wind compass point for an azimuth.
func compassPoint(az float64) string {
	points := []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}
	i := int(math.Floor(astro.NormalizeDegrees(az)/22.5+0.5)) % 16
	return points[i]
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}

// WriteSummary prints a text table of every body in the snapshot.
func WriteSummary(w io.Writer, snap *celestial.Snapshot) {
	fmt.Fprintf(w, "Sky @ %s (JD %.5f) from %.4f, %.4f [%s]\n",
		snap.Time.Format(time.RFC3339), snap.JD, snap.Location.LatDeg, snap.Location.LonDeg, snap.Provider)
	fmt.Fprintln(w, strings.Repeat("─", 96))
	fmt.Fprintf(w, "%-14s %-6s %9s %8s %-12s %-12s %7s %6s %-4s %-11s\n",
		"Body", "Kind", "EclLon", "EclLat", "RA", "Dec", "Az", "Alt", "Dir", "Distance")
	fmt.Fprintln(w, strings.Repeat("─", 96))

	writeRow(w, snap.Sun)
	for _, b := range snap.Bodies {
		writeRow(w, b)
	}

	fmt.Fprintln(w)
	WriteMoon(w, snap.Moon)
}

func writeRow(w io.Writer, b celestial.BodyReport) {
	name := truncateStr(b.Name, 14)
	if b.Error != "" || b.Equatorial == nil || b.Horizontal == nil || b.Ecliptic == nil {
		fmt.Fprintf(w, "%-14s error: %s\n", name, b.Error)
		return
	}
	fmt.Fprintf(w, "%-14s %-6s %9.4f %+8.4f %-12s %-12s %7.2f %+6.2f %-4s %-11s\n",
		name,
		b.Kind,
		b.Ecliptic.LonDeg,
		b.Ecliptic.LatDeg,
		FormatRA(b.Equatorial.RADeg),
		FormatDec(b.Equatorial.DecDeg),
		b.Horizontal.AzDeg,
		b.Horizontal.AltDeg,
		compassPoint(b.Horizontal.AzDeg),
		FormatDistance(b.Equatorial.Dist, b.Kind),
	)
}

// WriteMoon prints the lunar panel with phase art.
func WriteMoon(w io.Writer, m celestial.LunarInfo) {
	art := MoonArt(m.ImageKey)
	trend := "waning"
	if m.Waxing {
		trend = "waxing"
	}
	info := []string{
		fmt.Sprintf("Moon: %s (%s)", m.PhaseName, trend),
		fmt.Sprintf("Illuminated: %.1f%%", m.PercentIlluminated),
		fmt.Sprintf("Phase: %.3f", m.Phase),
		fmt.Sprintf("Az %.2f° (%s)  Alt %+.2f°", m.AzimuthDeg, compassPoint(m.AzimuthDeg), m.AltitudeDeg),
		fmt.Sprintf("RA %s  Dec %s", FormatRA(m.RADeg), FormatDec(m.DecDeg)),
		fmt.Sprintf("Distance: %s", FormatDistance(m.DistanceKm, celestial.KindMoon)),
	}

	n := max(len(art), len(info))
	for i := 0; i < n; i++ {
		var left, right string
		if i < len(art) {
			left = art[i]
		}
		if i < len(info) {
			right = info[i]
		}
		fmt.Fprintf(w, "%-*s  %s\n", moonArtWidth, left, right)
	}
}

// WriteEvents prints the last n events.
func WriteEvents(w io.Writer, events []state.Event, n int) {
	fmt.Fprintln(w, "Recent events")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	if len(events) == 0 {
		fmt.Fprintln(w, "none")
		return
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s  %-12s %s", e.Timestamp.Format("15:04:05"), e.Type, e.Body)
		if e.From != "" || e.To != "" {
			fmt.Fprintf(w, " %s→%s", e.From, e.To)
		}
		fmt.Fprintln(w)
	}
}

// WriteJSON encodes the snapshot as indented JSON.
func WriteJSON(w io.Writer, snap *celestial.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// VisibilityRow is one body's line in WriteVisibility.
type VisibilityRow struct {
	Name   string
	Window celestial.VisibilityWindow
	Err    error
}

// WriteVisibility prints rise, transit and set times for each row.
func WriteVisibility(w io.Writer, rows []VisibilityRow) {
	fmt.Fprintf(w, "%-14s %-16s %-22s %-16s\n", "Body", "Rise", "Transit", "Set")
	fmt.Fprintln(w, strings.Repeat("─", 70))
	for _, r := range rows {
		name := truncateStr(r.Name, 14)
		win := r.Window
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%-14s error: %v\n", name, r.Err)
		case win.NeverVisible:
			fmt.Fprintf(w, "%-14s below horizon (max %+.1f°)\n", name, win.MaxAltitude)
		case win.AlwaysVisible:
			fmt.Fprintf(w, "%-14s always up, transit %s @ %.1f°\n", name, clockTime(win.Transit), win.MaxAltitude)
		default:
			transit := fmt.Sprintf("%s @ %.1f°", clockTime(win.Transit), win.MaxAltitude)
			fmt.Fprintf(w, "%-14s %-16s %-22s %-16s\n", name, clockTime(win.Rise), transit, clockTime(win.Set))
		}
	}
}

// clockTime formats t in UTC, or "-" for the zero time.
func clockTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("01-02 15:04Z")
}
