package celestial

import (
	"errors"
	"math"
	"time"

	"github.com/litescript/ls-astral/internal/astro"
)

// Sampler returns a body's horizontal position at t.
type Sampler func(t time.Time) (astro.Horizontal, error)

// VisibilityWindow is one rise-transit-set cycle of a body.
type VisibilityWindow struct {
	Rise          time.Time `json:"rise,omitzero"`
	Transit       time.Time `json:"transit,omitzero"`
	Set           time.Time `json:"set,omitzero"`
	MaxAltitude   float64   `json:"max_altitude_deg"`
	Valid         bool      `json:"valid"`
	AlwaysVisible bool      `json:"always_visible,omitempty"`
	NeverVisible  bool      `json:"never_visible,omitempty"`
}

// HorizonAltitude is the apparent altitude at which a body counts as risen.
const HorizonAltitude = 0.0

var (
	ErrInsufficientSamples = errors.New("insufficient samples for visibility calculation")
	ErrBadSampleSpan       = errors.New("visibility span and step must be positive")
)

type altSample struct {
	t   time.Time
	alt float64
}

// Visibility samples a body every step over [start, start+span] and finds
// its first rise, the following set, and the refined transit. Crossings are
// interpolated linearly between samples.
func Visibility(sample Sampler, start time.Time, span, step time.Duration) (VisibilityWindow, error) {
	if span <= 0 || step <= 0 {
		return VisibilityWindow{}, ErrBadSampleSpan
	}
	n := int(span/step) + 1
	if n < 3 {
		return VisibilityWindow{}, ErrInsufficientSamples
	}

	samples := make([]altSample, n)
	minAlt, maxAlt := 90.0, -90.0
	maxIdx := 0
	for i := range samples {
		t := start.Add(time.Duration(i) * step)
		h, err := sample(t)
		if err != nil {
			return VisibilityWindow{}, err
		}
		samples[i] = altSample{t: t, alt: h.AltDeg}
		if h.AltDeg < minAlt {
			minAlt = h.AltDeg
		}
		if h.AltDeg > maxAlt {
			maxAlt = h.AltDeg
			maxIdx = i
		}
	}

	if minAlt > HorizonAltitude {
		transit, alt := refineMaximum(samples, maxIdx)
		return VisibilityWindow{
			Transit:       transit,
			MaxAltitude:   alt,
			Valid:         true,
			AlwaysVisible: true,
		}, nil
	}
	if maxAlt <= HorizonAltitude {
		return VisibilityWindow{Valid: true, NeverVisible: true, MaxAltitude: maxAlt}, nil
	}

	var rise, set time.Time
	riseIdx := -1
	for i := 1; i < n; i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.alt <= HorizonAltitude && curr.alt > HorizonAltitude {
			rise = interpolateCrossing(prev, curr, HorizonAltitude)
			riseIdx = i
			break
		}
	}

	// Already up at start: the first set precedes any rise.
	from := 1
	if samples[0].alt <= HorizonAltitude && riseIdx > 0 {
		from = riseIdx + 1
	}
	for i := from; i < n; i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.alt > HorizonAltitude && curr.alt <= HorizonAltitude {
			set = interpolateCrossing(prev, curr, HorizonAltitude)
			break
		}
	}

	transit, alt := refineMaximum(samples, maxIdx)
	return VisibilityWindow{
		Rise:        rise,
		Transit:     transit,
		Set:         set,
		MaxAltitude: alt,
		Valid:       true,
	}, nil
}

// refineMaximum fits a parabola through the maximum sample and its
// neighbours.
func refineMaximum(samples []altSample, i int) (time.Time, float64) {
	if i <= 0 || i >= len(samples)-1 {
		return samples[i].t, samples[i].alt
	}

	// y = at^2 + bt + c with t = -1, 0, +1.
	y0, y1, y2 := samples[i-1].alt, samples[i].alt, samples[i+1].alt
	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2
	if a >= 0 {
		return samples[i].t, y1
	}

	tMax := math.Max(-1, math.Min(1, -b/(2*a)))
	dt := samples[i].t.Sub(samples[i-1].t)
	return samples[i].t.Add(time.Duration(float64(dt) * tMax)), a*tMax*tMax + b*tMax + c
}

func interpolateCrossing(s1, s2 altSample, threshold float64) time.Time {
	if math.Abs(s2.alt-s1.alt) < 1e-4 {
		return s1.t
	}
	f := (threshold - s1.alt) / (s2.alt - s1.alt)
	f = math.Max(0, math.Min(1, f))
	return s1.t.Add(time.Duration(float64(s2.t.Sub(s1.t)) * f))
}

// AltitudeTier buckets an altitude for display.
type AltitudeTier int

const (
	AltitudeNone   AltitudeTier = iota // below horizon
	AltitudeLow                        // 0-15
	AltitudeMedium                     // 15-45
	AltitudeHigh                       // 45+
)

// GetAltitudeTier returns the tier for an altitude in degrees.
func GetAltitudeTier(altDeg float64) AltitudeTier {
	switch {
	case altDeg <= 0:
		return AltitudeNone
	case altDeg < 15:
		return AltitudeLow
	case altDeg < 45:
		return AltitudeMedium
	default:
		return AltitudeHigh
	}
}
