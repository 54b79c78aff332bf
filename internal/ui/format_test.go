package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/celestial"
	"github.com/litescript/ls-astral/internal/state"
)

// testSnapshot is the sky over Santa Rosa at JD 2458061.2743171295.
func testSnapshot() *celestial.Snapshot {
	return &celestial.Snapshot{
		Time:     time.Date(2017, 11, 4, 18, 35, 0, 0, time.UTC),
		JD:       2458061.2743171295,
		Location: astro.Location{LatDeg: 38.44043, LonDeg: -122.71405},
		Provider: "kepler",
		Sun: celestial.BodyReport{
			Name:       "Sun",
			Kind:       celestial.KindSun,
			Ecliptic:   &astro.Ecliptic{LonDeg: 221.8, LatDeg: 0, Dist: 0.9916},
			Equatorial: &astro.Equatorial{RADeg: 219.10395133, DecDeg: -15.29262656, Dist: 0.9916},
			Horizontal: &astro.Horizontal{AzDeg: 190.2, AltDeg: 36.1},
		},
		Moon: celestial.LunarInfo{
			AltitudeDeg:        -40.7126342370,
			AzimuthDeg:         339.8779751853,
			RADeg:              33.9572058500,
			DecDeg:             8.2741659153,
			DistanceKm:         371551.974,
			PercentIlluminated: 99.46717671,
			Phase:              0.4767443677,
			PhaseName:          celestial.PhaseFull,
			Waxing:             true,
			ImageKey:           "full-moon",
		},
		Bodies: []celestial.BodyReport{
			{
				Name:          "Venus",
				Kind:          celestial.KindPlanet,
				Ecliptic:      &astro.Ecliptic{LonDeg: 205.37143625, LatDeg: 1.45250483, Dist: 1.61703923},
				Equatorial:    &astro.Equatorial{RADeg: 204.04900114888179, DecDeg: -8.45970181351729, Dist: 1.61703923},
				Horizontal:    &astro.Horizontal{AzDeg: 172.90148843919002, AltDeg: 42.86299764225456},
				SunSeparation: 16.22948,
			},
			{
				Name:       "Polaris",
				Kind:       celestial.KindStar,
				Ecliptic:   &astro.Ecliptic{LonDeg: 88.6, LatDeg: 66.1, Dist: 132.6},
				Equatorial: &astro.Equatorial{RADeg: 37.954517, DecDeg: 89.264108, Dist: 132.6},
				Horizontal: &astro.Horizontal{AzDeg: 359.69, AltDeg: 37.7667},
			},
			{Name: "Pluto", Error: "unsupported body"},
		},
	}
}

func TestFormatRA(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "00h00m00.0s"},
		{37.954517, "02h31m49.1s"},
		{204.04900114888179, "13h36m11.8s"},
		{-15, "23h00m00.0s"},
		{359.9999999, "00h00m00.0s"}, // rounds up past 24h
	}
	for _, tt := range tests {
		if got := FormatRA(tt.deg); got != tt.want {
			t.Errorf("FormatRA(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestFormatDec(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, `+00°00'00"`},
		{89.264108, `+89°15'51"`},
		{-8.45970181351729, `-08°27'35"`},
		{-0.5, `-00°30'00"`},
	}
	for _, tt := range tests {
		if got := FormatDec(tt.deg); got != tt.want {
			t.Errorf("FormatDec(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		dist float64
		kind celestial.Kind
		want string
	}{
		{2.64, celestial.KindStar, "2.6 pc"},
		{371551.974, celestial.KindMoon, "371552 km"},
		{1.61703923, celestial.KindPlanet, "1.6170 AU"},
		{0.9916, celestial.KindSun, "0.9916 AU"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.dist, tt.kind); got != tt.want {
			t.Errorf("FormatDistance(%v, %s) = %q, want %q", tt.dist, tt.kind, got, tt.want)
		}
	}
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		az   float64
		want string
	}{
		{0, "N"},
		{359, "N"},
		{11.24, "N"},
		{11.26, "NNE"},
		{90, "E"},
		{180, "S"},
		{202.5, "SSW"},
		{270, "W"},
		{-90, "W"},
	}
	for _, tt := range tests {
		if got := compassPoint(tt.az); got != tt.want {
			t.Errorf("compassPoint(%v) = %q, want %q", tt.az, got, tt.want)
		}
	}
}

func TestTruncateStr(t *testing.T) {
	if got := truncateStr("Betelgeuse", 5); got != "Bete…" {
		t.Errorf("truncateStr = %q", got)
	}
	if got := truncateStr("Vega", 5); got != "Vega" {
		t.Errorf("truncateStr = %q", got)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, testSnapshot())
	out := buf.String()

	for _, want := range []string{
		"JD 2458061.27432",
		"[kepler]",
		"Venus",
		"13h36m11.8s",
		"-08°27'35\"",
		"1.6170 AU",
		"Polaris",
		"132.6 pc",
		"Pluto          error: unsupported body",
		"Moon: full (waxing)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMoon(t *testing.T) {
	var buf bytes.Buffer
	WriteMoon(&buf, testSnapshot().Moon)
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != moonArtRows {
		t.Errorf("got %d lines, want %d", len(lines), moonArtRows)
	}
	for _, want := range []string{"Illuminated: 99.5%", "Phase: 0.477", "NNW", "371552 km"} {
		if !strings.Contains(out, want) {
			t.Errorf("moon panel missing %q:\n%s", want, out)
		}
	}
}

func TestWriteEvents(t *testing.T) {
	var buf bytes.Buffer
	WriteEvents(&buf, nil, 5)
	if !strings.Contains(buf.String(), "none") {
		t.Errorf("empty log = %q", buf.String())
	}

	t0 := time.Date(2017, 11, 4, 18, 0, 0, 0, time.UTC)
	events := []state.Event{
		{Type: state.EventRise, Timestamp: t0, Body: "Mars"},
		{Type: state.EventSet, Timestamp: t0.Add(time.Minute), Body: "Venus"},
		{Type: state.EventPhaseChange, Timestamp: t0.Add(2 * time.Minute), Body: "Moon", From: "waxing gibbous", To: "full"},
	}

	buf.Reset()
	WriteEvents(&buf, events, 2)
	out := buf.String()
	if strings.Contains(out, "Mars") {
		t.Errorf("oldest event should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "waxing gibbous→full") {
		t.Errorf("phase change missing:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testSnapshot()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"phase_name": "full"`,
		`"kind": "star"`,
		`"error": "unsupported body"`,
		`"provider": "kepler"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %q", want)
		}
	}
}

func TestWriteVisibility(t *testing.T) {
	t0 := time.Date(2017, 11, 4, 14, 5, 0, 0, time.UTC)
	rows := []VisibilityRow{
		{Name: "Venus", Window: celestial.VisibilityWindow{Rise: t0, Transit: t0.Add(5 * time.Hour), MaxAltitude: 43.2, Valid: true}},
		{Name: "Polaris", Window: celestial.VisibilityWindow{Transit: t0, MaxAltitude: 38.1, Valid: true, AlwaysVisible: true}},
		{Name: "Canopus", Window: celestial.VisibilityWindow{MaxAltitude: -0.4, Valid: true, NeverVisible: true}},
		{Name: "Vulcan", Err: errors.New("star not found")},
	}

	var buf bytes.Buffer
	WriteVisibility(&buf, rows)
	out := buf.String()

	for _, want := range []string{
		"11-04 14:05Z",
		"11-04 19:05Z @ 43.2°",
		"always up",
		"below horizon (max -0.4°)",
		"error: star not found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("visibility missing %q:\n%s", want, out)
		}
	}
	if clockTime(time.Time{}) != "-" {
		t.Error("zero time should render as -")
	}
}
