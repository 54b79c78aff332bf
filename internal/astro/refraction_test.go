package astro

import (
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/refraction"
	"github.com/soniakeys/unit"
)

func TestRefraction(t *testing.T) {
	tests := []struct {
		name   string
		altDeg float64
		want   float64 // arcseconds
		tol    float64
	}{
		{"horizon", 0, 29.0375781542 * 60, 0.01},
		{"below horizon clamps to horizon", -5, 29.0375781542 * 60, 0.01},
		{"45 degrees", 45, 60.7628448312, 0.001},
		{"zenith", 90, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := radToDeg(Refraction(degToRad(tt.altDeg))) * 3600
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Refraction(%v°) = %v\", want %v\"", tt.altDeg, got, tt.want)
			}
		})
	}
}

func TestRefractionNonNegativeAndDecreasing(t *testing.T) {
	prev := math.Inf(1)
	for i := 0; i <= 9000; i++ {
		h := degToRad(float64(i) / 100)
		r := Refraction(h)
		if r < 0 {
			t.Fatalf("Refraction(%v°) = %v, negative", float64(i)/100, r)
		}
		if r > prev {
			t.Fatalf("Refraction not decreasing at %v°", float64(i)/100)
		}
		prev = r
	}
	if prev > 1e-9 {
		t.Errorf("Refraction near zenith = %v, want ~0", prev)
	}
}

func TestRefractionMatchesSaemundsson(t *testing.T) {
	for alt := 10.0; alt <= 80; alt += 5 {
		got := radToDeg(Refraction(degToRad(alt))) * 3600
		want := refraction.Saemundsson(unit.AngleFromDeg(alt)).Deg() * 3600
		if math.Abs(got-want) > 0.5 {
			t.Errorf("alt %v°: Refraction = %.3f\", Saemundsson = %.3f\"", alt, got, want)
		}
	}
}

func TestApparentAltitude(t *testing.T) {
	h := degToRad(30)
	if got := ApparentAltitude(h); got != h+Refraction(h) {
		t.Errorf("ApparentAltitude = %v, want %v", got, h+Refraction(h))
	}
}
