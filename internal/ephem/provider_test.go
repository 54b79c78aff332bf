package ephem

import (
	"context"
	"errors"
	"testing"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"vsop87", ModeVSOP87, false},
		{"kepler", ModeKepler, false},
		{"horizons", ModeHorizons, false},
		{"HORIZONS", ModeHorizons, false},
		{"auto", ModeAuto, false},
		{"", ModeVSOP87, false}, // default
		{"dsn", ModeVSOP87, true},
		{"invalid", ModeVSOP87, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMode(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMode(%q) err = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.expected {
				t.Errorf("ParseMode(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeVSOP87, "vsop87"},
		{ModeKepler, "kepler"},
		{ModeHorizons, "horizons"},
		{ModeAuto, "auto"},
		{Mode(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			got := tc.mode.String()
			if got != tc.expected {
				t.Errorf("Mode(%d).String() = %q, want %q", tc.mode, got, tc.expected)
			}
		})
	}
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		name string
		want Body
	}{
		{"Mercury", Mercury},
		{"venus", Venus},
		{"EARTH", Earth},
		{" Mars ", Mars},
		{"jupiter", Jupiter},
		{"Saturn", Saturn},
		{"uranus", Uranus},
		{"Neptune", Neptune},
		{"terra", Earth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBody(tt.name)
			if err != nil {
				t.Fatalf("ParseBody(%q): %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseBody(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseBodyUnsupported(t *testing.T) {
	for _, name := range []string{"Pluto", "Sun", "Moon", "", "Vulcan"} {
		_, err := ParseBody(name)
		if !errors.Is(err, ErrUnsupportedBody) {
			t.Errorf("ParseBody(%q) err = %v, want ErrUnsupportedBody", name, err)
		}
	}
}

func TestBodyMetadata(t *testing.T) {
	if Venus.NAIFID() != 299 {
		t.Errorf("Venus NAIF = %d, want 299", Venus.NAIFID())
	}
	if Venus.String() != "Venus" {
		t.Errorf("Venus.String() = %q", Venus.String())
	}
	if Body(42).Valid() {
		t.Error("Body(42) should be invalid")
	}
	if Body(42).String() != "Body(42)" {
		t.Errorf("Body(42).String() = %q", Body(42).String())
	}

	seen := make(map[Body]bool)
	for _, b := range Bodies {
		if seen[b.Body] {
			t.Errorf("duplicate body %v", b.Body)
		}
		seen[b.Body] = true
		if _, ok := keplerElements[b.Body]; !ok {
			t.Errorf("no Kepler elements for %v", b.Name)
		}
		if info, ok := b.Body.Info(); !ok || info.Symbol == 0 {
			t.Errorf("missing info for %v", b.Name)
		}
	}
}

func TestNewProvider(t *testing.T) {
	t.Setenv(EnvVSOP87Dir, "")
	dir := t.TempDir()

	tests := []struct {
		mode Mode
		opts Options
		name string
	}{
		{ModeVSOP87, Options{}, "kepler"},
		{ModeVSOP87, Options{VSOP87Dir: dir}, "vsop87+kepler"},
		{ModeKepler, Options{}, "kepler"},
		{ModeHorizons, Options{}, "horizons"},
		{ModeAuto, Options{}, "horizons+kepler"},
		{ModeAuto, Options{VSOP87Dir: dir}, "horizons+vsop87+kepler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.mode, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if p.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
			}
		})
	}

	if _, err := NewProvider(Mode(7), Options{}); err == nil {
		t.Error("NewProvider(Mode(7)) should fail")
	}
}

func TestInstrument(t *testing.T) {
	m := metrics.New()
	p := Instrument(NewKeplerProvider(), m)

	ctx := context.Background()
	if _, err := p.Heliocentric(ctx, Mars, astro.J2000); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Heliocentric(ctx, Body(1), astro.J2000); err == nil {
		t.Fatal("expected error for Body(1)")
	}

	if got := testutil.ToFloat64(m.EphemerisRequests().WithLabelValues("kepler", metrics.ResultOK)); got != 1 {
		t.Errorf("kepler/ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.EphemerisRequests().WithLabelValues("kepler", metrics.ResultError)); got != 1 {
		t.Errorf("kepler/error = %v, want 1", got)
	}

	if Instrument(p, nil) != p {
		t.Error("Instrument with nil metrics should return the provider unchanged")
	}
}
