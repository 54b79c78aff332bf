package ui

import (
	"math"
	"strings"
)

const (
	moonArtRows  = 7
	moonArtWidth = 2 * moonArtRows

	glyphMoonLit  = '█'
	glyphMoonDark = '░'
)

// keyPhases is the representative lunation fraction drawn for each phase
// image key.
var keyPhases = map[string]float64{
	"new-moon":        0,
	"waxing-crescent": 0.125,
	"first-quarter":   0.25,
	"waxing-gibbous":  0.375,
	"full-moon":       0.5,
	"waning-gibbous":  0.625,
	"last-quarter":    0.75,
	"waning-crescent": 0.875,
}

// MoonArt returns the art for a phase image key. Unknown keys get a blank
// disc with a question mark.
func MoonArt(key string) []string {
	if p, ok := keyPhases[key]; ok {
		return RenderMoon(p, moonArtRows)
	}
	art := RenderMoon(0, moonArtRows)
	mid := []rune(art[moonArtRows/2])
	mid[len(mid)/2] = '?'
	art[moonArtRows/2] = string(mid)
	return art
}

// RenderMoon draws the disc for a lunation fraction as seen from the
// northern hemisphere: waxing light grows from the right. Each row is
// 2*rows cells wide so the disc looks round in a terminal.
func RenderMoon(phase float64, rows int) []string {
	if rows < 1 {
		return nil
	}
	k := math.Cos(2 * math.Pi * phase)
	waxing := phase < 0.5
	width := 2 * rows

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		y := (float64(r)+0.5)/float64(rows)*2 - 1
		half := math.Sqrt(math.Max(0, 1-y*y))

		var b strings.Builder
		for c := 0; c < width; c++ {
			x := (float64(c)+0.5)/float64(width)*2 - 1
			if math.Abs(x) > half {
				b.WriteRune(' ')
				continue
			}
			lit := x >= k*half
			if !waxing {
				lit = x <= -k*half
			}
			if lit {
				b.WriteRune(glyphMoonLit)
			} else {
				b.WriteRune(glyphMoonDark)
			}
		}
		lines[r] = b.String()
	}
	return lines
}
