package celestial

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-astral/internal/astro"
)

var visStart = time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

// sineSampler models a body whose altitude follows a sine of period 24h.
func sineSampler(offset, amplitude float64) Sampler {
	return func(t time.Time) (astro.Horizontal, error) {
		hours := t.Sub(visStart).Hours()
		return astro.Horizontal{AltDeg: offset + amplitude*math.Sin(2*math.Pi*hours/24)}, nil
	}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		name          string
		sampler       Sampler
		wantRise      time.Duration // offset from start, -1 for none
		wantSet       time.Duration
		wantTransit   time.Duration
		wantMax       float64
		alwaysVisible bool
		neverVisible  bool
	}{
		{
			name:        "rises at start, sets at 12h",
			sampler:     sineSampler(0, 30),
			wantRise:    0,
			wantSet:     12 * time.Hour,
			wantTransit: 6 * time.Hour,
			wantMax:     30,
		},
		{
			name:          "circumpolar",
			sampler:       sineSampler(40, 20),
			wantRise:      -1,
			wantSet:       -1,
			wantTransit:   6 * time.Hour,
			wantMax:       60,
			alwaysVisible: true,
		},
		{
			name:         "never rises",
			sampler:      sineSampler(-40, 20),
			wantRise:     -1,
			wantSet:      -1,
			neverVisible: true,
		},
		{
			name: "rises at 12h",
			sampler: func(t time.Time) (astro.Horizontal, error) {
				hours := t.Sub(visStart).Hours()
				return astro.Horizontal{AltDeg: -30 * math.Sin(2*math.Pi*hours/24)}, nil
			},
			wantRise:    12 * time.Hour,
			wantSet:     -1,
			wantTransit: 18 * time.Hour,
			wantMax:     30,
		},
		{
			name: "up at start, sets at 6h, rises again at 18h",
			sampler: func(t time.Time) (astro.Horizontal, error) {
				hours := t.Sub(visStart).Hours()
				return astro.Horizontal{AltDeg: 30 * math.Cos(2*math.Pi*hours/24)}, nil
			},
			wantRise:    18 * time.Hour,
			wantSet:     6 * time.Hour,
			wantTransit: 0,
			wantMax:     30,
		},
	}

	const tol = 2 * time.Minute
	near := func(got time.Time, want time.Duration) bool {
		if want < 0 {
			return got.IsZero()
		}
		d := got.Sub(visStart.Add(want))
		return d > -tol && d < tol
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Visibility(tt.sampler, visStart, 23*time.Hour, 10*time.Minute)
			if err != nil {
				t.Fatalf("Visibility: %v", err)
			}
			if !w.Valid {
				t.Error("window not valid")
			}
			if w.AlwaysVisible != tt.alwaysVisible || w.NeverVisible != tt.neverVisible {
				t.Errorf("always=%v never=%v", w.AlwaysVisible, w.NeverVisible)
			}
			if tt.neverVisible {
				return
			}
			if !near(w.Rise, tt.wantRise) {
				t.Errorf("rise = %v, want +%v", w.Rise, tt.wantRise)
			}
			if !near(w.Set, tt.wantSet) {
				t.Errorf("set = %v, want +%v", w.Set, tt.wantSet)
			}
			if !near(w.Transit, tt.wantTransit) {
				t.Errorf("transit = %v, want +%v", w.Transit, tt.wantTransit)
			}
			if math.Abs(w.MaxAltitude-tt.wantMax) > 0.01 {
				t.Errorf("max altitude = %v, want %v", w.MaxAltitude, tt.wantMax)
			}
		})
	}
}

func TestVisibilityErrors(t *testing.T) {
	s := sineSampler(0, 10)
	if _, err := Visibility(s, visStart, time.Hour, time.Hour); !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("err = %v, want ErrInsufficientSamples", err)
	}
	if _, err := Visibility(s, visStart, 0, time.Minute); !errors.Is(err, ErrBadSampleSpan) {
		t.Errorf("err = %v, want ErrBadSampleSpan", err)
	}

	boom := errors.New("boom")
	failing := func(time.Time) (astro.Horizontal, error) { return astro.Horizontal{}, boom }
	if _, err := Visibility(failing, visStart, 24*time.Hour, time.Hour); !errors.Is(err, boom) {
		t.Errorf("err = %v, want sampler error", err)
	}
}

func TestVisibilityPolaris(t *testing.T) {
	star := func(tm time.Time) (astro.Horizontal, error) {
		return FromGeocentricEquatorial(astro.JulianDay(tm), 37.954517, 89.264108, 1, KindStar).Horizontal(santaRosa)
	}
	w, err := Visibility(star, visStart, 24*time.Hour, 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !w.AlwaysVisible {
		t.Errorf("Polaris should be circumpolar from 38°N: %+v", w)
	}
}

func TestGetAltitudeTier(t *testing.T) {
	tests := []struct {
		alt  float64
		want AltitudeTier
	}{
		{-10, AltitudeNone},
		{0, AltitudeNone},
		{5, AltitudeLow},
		{15, AltitudeMedium},
		{44.9, AltitudeMedium},
		{45, AltitudeHigh},
		{90, AltitudeHigh},
	}
	for _, tt := range tests {
		if got := GetAltitudeTier(tt.alt); got != tt.want {
			t.Errorf("GetAltitudeTier(%v) = %v, want %v", tt.alt, got, tt.want)
		}
	}
}
