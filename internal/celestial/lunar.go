package celestial

import (
	"math"

	"github.com/litescript/ls-astral/internal/astro"
)

// Phase names reported by PhaseName.
const (
	PhaseNew            = "new"
	PhaseWaxingCrescent = "waxing crescent"
	PhaseFirstQuarter   = "first quarter"
	PhaseWaxingGibbous  = "waxing gibbous"
	PhaseFull           = "full"
	PhaseWaningGibbous  = "waning gibbous"
	PhaseLastQuarter    = "last quarter"
	PhaseWaningCrescent = "waning crescent"
	PhaseUnknown        = "unknown"
)

// phaseBuckets are upper bounds (exclusive) on the whole phase percentage.
// The first bucket that contains the percentage wins.
var phaseBuckets = []struct {
	below int
	name  string
}{
	{3, PhaseNew},
	{20, PhaseWaxingCrescent},
	{30, PhaseFirstQuarter},
	{47, PhaseWaxingGibbous},
	{53, PhaseFull},
	{70, PhaseWaningGibbous},
	{85, PhaseLastQuarter},
	{99, PhaseWaningCrescent},
}

// PhaseName maps a lunation fraction in [0, 1) to a named phase.
// Fractions of 0.99 and above report PhaseUnknown.
func PhaseName(phase float64) string {
	if math.IsNaN(phase) || phase < 0 {
		return PhaseUnknown
	}
	pct := int(math.Floor(phase * 100))
	for _, b := range phaseBuckets {
		if pct < b.below {
			return b.name
		}
	}
	return PhaseUnknown
}

// PhaseImageKey returns the art key for a phase name, or "" when no art
// exists for it.
func PhaseImageKey(name string) string {
	switch name {
	case PhaseNew:
		return "new-moon"
	case PhaseWaxingCrescent:
		return "waxing-crescent"
	case PhaseFirstQuarter:
		return "first-quarter"
	case PhaseWaxingGibbous:
		return "waxing-gibbous"
	case PhaseFull:
		return "full-moon"
	case PhaseWaningGibbous:
		return "waning-gibbous"
	case PhaseLastQuarter:
		return "last-quarter"
	case PhaseWaningCrescent:
		return "waning-crescent"
	}
	return ""
}

// LunarInfo is the Moon's sky position and phase for an observer.
type LunarInfo struct {
	AltitudeDeg        float64 `json:"altitude_deg"`
	AzimuthDeg         float64 `json:"azimuth_deg"`
	RADeg              float64 `json:"ra_deg"`
	DecDeg             float64 `json:"dec_deg"`
	DistanceKm         float64 `json:"distance_km"`
	PercentIlluminated float64 `json:"percent_illuminated"`
	Phase              float64 `json:"phase"`
	PhaseName          string  `json:"phase_name"`
	Waxing             bool    `json:"waxing"`
	ImageKey           string  `json:"image_key,omitempty"`
}

// MoonHorizontal returns the Moon's apparent azimuth and altitude.
func MoonHorizontal(jd float64, loc astro.Location) astro.Horizontal {
	return astro.MoonHorizontal(jd, loc)
}

// Lunar computes the Moon's position and phase at jd for loc.
func Lunar(jd float64, loc astro.Location) LunarInfo {
	eq := astro.MoonEquatorial(jd)
	h := astro.HorizontalAt(jd, loc, eq.RADeg, eq.DecDeg)

	_, _, waxing := astro.MoonPhaseAngle(jd)
	phase := astro.MoonPhase(jd)
	name := PhaseName(phase)
	illum := math.Max(0, math.Min(100, 100*astro.MoonIllumination(jd)))

	return LunarInfo{
		AltitudeDeg:        h.AltDeg,
		AzimuthDeg:         h.AzDeg,
		RADeg:              eq.RADeg,
		DecDeg:             eq.DecDeg,
		DistanceKm:         eq.Dist,
		PercentIlluminated: illum,
		Phase:              phase,
		PhaseName:          name,
		Waxing:             waxing,
		ImageKey:           PhaseImageKey(name),
	}
}
