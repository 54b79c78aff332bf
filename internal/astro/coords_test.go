package astro

import (
	"math"
	"testing"
)

func TestEclipticToEquatorial(t *testing.T) {
	eps := degToRad(23.4397)

	tests := []struct {
		name     string
		lon, lat float64 // degrees
		obl      float64
		wantRA   float64 // degrees
		wantDec  float64 // degrees
	}{
		{"vernal equinox", 0, 0, eps, 0, 0},
		{"summer solstice", 90, 0, eps, 90, 23.4397},
		{"autumnal equinox", 180, 0, eps, 180, 0},
		{"ecliptic pole", 90, 90, eps, -90, 90 - 23.4397},
		{"zero obliquity is identity", 47, 12, 0, 47, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := EclipticToEquatorial(degToRad(tt.lon), degToRad(tt.lat), tt.obl)
			if math.Abs(NormalizeDegrees(radToDeg(ra))-NormalizeDegrees(tt.wantRA)) > 1e-9 {
				t.Errorf("ra = %v, want %v", radToDeg(ra), tt.wantRA)
			}
			if math.Abs(radToDeg(dec)-tt.wantDec) > 1e-9 {
				t.Errorf("dec = %v, want %v", radToDeg(dec), tt.wantDec)
			}
		})
	}
}

func TestFixedObliquityHelpers(t *testing.T) {
	l, b := degToRad(205.37143625), degToRad(1.45250483)
	ra, dec := EclipticToEquatorial(l, b, FixedObliquity)
	if RightAscension(l, b) != ra || Declination(l, b) != dec {
		t.Error("RightAscension/Declination disagree with EclipticToEquatorial")
	}
}

func TestEquatorialToHorizontal(t *testing.T) {
	phi := degToRad(40)

	// Body on the meridian south of the zenith.
	az, alt := EquatorialToHorizontal(0, phi, degToRad(10))
	if math.Abs(radToDeg(alt)-60) > 1e-9 {
		t.Errorf("alt = %v, want 60", radToDeg(alt))
	}
	if math.Abs(az) > 1e-12 {
		t.Errorf("az = %v, want 0 (south)", az)
	}

	// Six hours west of the meridian, the celestial equator sets due west.
	az, alt = EquatorialToHorizontal(math.Pi/2, phi, 0)
	if math.Abs(alt) > 1e-9 {
		t.Errorf("alt = %v, want 0", radToDeg(alt))
	}
	if math.Abs(radToDeg(az)-90) > 1e-9 {
		t.Errorf("az = %v, want 90 (west of south)", radToDeg(az))
	}
}

func TestHorizontalAtRanges(t *testing.T) {
	locs := []Location{
		{LatDeg: 38.44043, LonDeg: -122.71405},
		{LatDeg: -33.87, LonDeg: 151.21},
		{LatDeg: 89.9, LonDeg: 0},
		{LatDeg: -89.9, LonDeg: 180},
	}

	for _, loc := range locs {
		for i := 0; i < 200; i++ {
			jd := 2458061.2743171295 + float64(i)*0.37
			ra := math.Mod(float64(i)*47.3, 360)
			dec := -89 + math.Mod(float64(i)*13.7, 178)

			hz := HorizontalAt(jd, loc, ra, dec)
			if hz.AzDeg < 0 || hz.AzDeg >= 360 {
				t.Fatalf("az %v out of [0, 360) at jd=%v loc=%+v", hz.AzDeg, jd, loc)
			}
			if hz.AltDeg < -90 || hz.AltDeg > 90 {
				t.Fatalf("alt %v out of [-90, 90] at jd=%v loc=%+v", hz.AltDeg, jd, loc)
			}
		}
	}
}

func TestHorizontalAtAppliesRefractionOnce(t *testing.T) {
	loc := Location{LatDeg: 38.44043, LonDeg: -122.71405}
	jd := 2458061.2743171295
	ra, dec := 204.0490011489, -8.4597018135

	h := LocalHourAngle(jd, loc.LonDeg, ra)
	_, geometric := EquatorialToHorizontal(h, degToRad(loc.LatDeg), degToRad(dec))

	got := HorizontalAt(jd, loc, ra, dec)
	want := radToDeg(geometric + Refraction(geometric))
	if math.Abs(got.AltDeg-want) > 1e-12 {
		t.Errorf("alt = %v, want %v", got.AltDeg, want)
	}
}

func TestVenusReferenceHorizontal(t *testing.T) {
	loc := Location{LatDeg: 38.44043, LonDeg: -122.71405}
	got := HorizontalAt(2458061.2743171295, loc, 204.04900114888179, -8.45970181351729)

	if math.Abs(got.AzDeg-172.90148843919002) > 1e-6 {
		t.Errorf("az = %v, want 172.90148843919002", got.AzDeg)
	}
	if math.Abs(got.AltDeg-42.86299764225456) > 1e-6 {
		t.Errorf("alt = %v, want 42.86299764225456", got.AltDeg)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name     string
		ra1      float64
		dec1     float64
		ra2      float64
		dec2     float64
		expected float64
		tol      float64
	}{
		{"Same point", 0, 0, 0, 0, 0, 0.001},
		{"90 degrees along equator", 0, 0, 90, 0, 90, 0.001},
		{"180 degrees along equator", 0, 0, 180, 0, 180, 0.001},
		{"Pole to equator", 0, 90, 0, 0, 90, 0.001},
		{"Pole to pole", 0, 90, 0, -90, 180, 0.001},
		{"RA wrap", 359, 0, 1, 0, 2, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.ra1, tt.dec1, tt.ra2, tt.dec2)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("AngularSeparation() = %v, want %v", got, tt.expected)
			}
		})
	}
}
