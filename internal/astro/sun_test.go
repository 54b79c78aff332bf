package astro

import (
	"math"
	"testing"
)

func TestSunEquatorial(t *testing.T) {
	tests := []struct {
		name    string
		jd      float64
		wantRA  float64
		wantDec float64
	}{
		{"J2000", 2451545.0, 281.2927311185, -23.0336239080},
		{"2017-11-04", 2458061.2743171295, 218.8027184219, -15.1996455350},
		{"2024-01-01", 2460310.5, 280.4849692360, -23.0896289879},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunEquatorial(tt.jd)
			if math.Abs(got.RADeg-tt.wantRA) > 1e-6 {
				t.Errorf("RA = %v, want %v", got.RADeg, tt.wantRA)
			}
			if math.Abs(got.DecDeg-tt.wantDec) > 1e-6 {
				t.Errorf("Dec = %v, want %v", got.DecDeg, tt.wantDec)
			}
			if got.Dist != SunDistanceKm {
				t.Errorf("Dist = %v, want %v", got.Dist, SunDistanceKm)
			}
		})
	}
}

func TestSunDeclinationBounded(t *testing.T) {
	// Sample a full year; declination never exceeds the obliquity.
	for i := 0; i < 366; i++ {
		eq := SunEquatorial(2460310.5 + float64(i))
		if math.Abs(eq.DecDeg) > 23.4397+1e-9 {
			t.Fatalf("day %d: |dec| = %v exceeds obliquity", i, eq.DecDeg)
		}
		if eq.RADeg < 0 || eq.RADeg >= 360 {
			t.Fatalf("day %d: RA %v out of range", i, eq.RADeg)
		}
	}
}

func TestEquationOfCenter(t *testing.T) {
	if c := EquationOfCenter(0); c != 0 {
		t.Errorf("EquationOfCenter(0) = %v, want 0", c)
	}
	// Largest near quadrature, about 1.915°.
	if c := radToDeg(EquationOfCenter(math.Pi / 2)); math.Abs(c-1.9145) > 0.001 {
		t.Errorf("EquationOfCenter(90°) = %v, want ~1.9145", c)
	}
}

func TestSunHorizontal(t *testing.T) {
	loc := Location{LatDeg: 38.44043, LonDeg: -122.71405}
	got := SunHorizontal(2458061.2743171295, loc)

	if math.Abs(got.AzDeg-156.7639903828) > 1e-6 {
		t.Errorf("az = %v, want 156.7639903828", got.AzDeg)
	}
	if math.Abs(got.AltDeg-33.2028703545) > 1e-6 {
		t.Errorf("alt = %v, want 33.2028703545", got.AltDeg)
	}
}

func TestGetSunSeparationTier(t *testing.T) {
	tests := []struct {
		sep      float64
		expected SunSeparationTier
	}{
		{5, SunSepWarning},
		{9.9, SunSepWarning},
		{10, SunSepCaution},
		{15, SunSepCaution},
		{19.9, SunSepCaution},
		{20, SunSepSafe},
		{90, SunSepSafe},
	}

	for _, tt := range tests {
		got := GetSunSeparationTier(tt.sep)
		if got != tt.expected {
			t.Errorf("GetSunSeparationTier(%v) = %v, want %v", tt.sep, got, tt.expected)
		}
	}
}
