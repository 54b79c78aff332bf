package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/celestial"
	"github.com/litescript/ls-astral/internal/ephem"
)

const (
	// Field of view in degrees
	fovAz = 120.0 // horizontal FOV
	fovEl = 60.0  // vertical FOV

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Body glyphs
	glyphPlanet        = '●'
	glyphPlanetFocused = '◉'
	glyphSun           = '☼'
	glyphMoon          = '☾'

	colorPlanet        = "#d0c8ff"
	colorPlanetFocused = "229" // bright gold
	colorSun           = "214"
	colorMoon          = "252"

	// Star glyphs by magnitude
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '·' // mag 3.0-4.0
	glyphStarVeryDim = '·' // mag > 4.0

	// Star colors (grayscale to not compete with planets)
	colorStarBright  = "255"
	colorStarMedium  = "250"
	colorStarDim     = "244"
	colorStarVeryDim = "240"
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only focused body
	LabelAll                      // All bodies
)

// skyObject is one body placed on the dome.
type skyObject struct {
	name string
	kind celestial.Kind
	az   float64
	alt  float64
}

// skyStar is a catalog star placed on the dome.
type skyStar struct {
	az, alt float64
	mag     float64
}

// SkyViewModel renders the sky dome with body positions.
type SkyViewModel struct {
	width  int
	height int

	// Camera position (center of view)
	camAz float64
	camEl float64

	// Animation state
	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	focusIdx int
	objects  []skyObject
	stars    []skyStar

	labelMode LabelMode
	showStars bool

	catalog *ephem.StarCatalog
	maxMag  float64
	loc     astro.Location
	jd      float64
}

// NewSkyViewModel creates a sky view drawing catalog stars up to maxMag.
func NewSkyViewModel(catalog *ephem.StarCatalog, maxMag float64) SkyViewModel {
	return SkyViewModel{
		camAz:     180,
		camEl:     45,
		labelMode: LabelFocused,
		showStars: true,
		catalog:   catalog,
		maxMag:    maxMag,
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData places the snapshot's bodies and the catalog stars.
func (m SkyViewModel) UpdateData(snap *celestial.Snapshot) SkyViewModel {
	if snap == nil {
		return m
	}

	var focused string
	if m.focusIdx < len(m.objects) {
		focused = m.objects[m.focusIdx].name
	}

	m.objects = m.objects[:0:0]
	if h := snap.Sun.Horizontal; h != nil {
		m.objects = append(m.objects, skyObject{name: "Sun", kind: celestial.KindSun, az: h.AzDeg, alt: h.AltDeg})
	}
	m.objects = append(m.objects, skyObject{name: "Moon", kind: celestial.KindMoon, az: snap.Moon.AzimuthDeg, alt: snap.Moon.AltitudeDeg})
	for _, b := range snap.Bodies {
		if b.Horizontal == nil {
			continue
		}
		m.objects = append(m.objects, skyObject{name: b.Name, kind: b.Kind, az: b.Horizontal.AzDeg, alt: b.Horizontal.AltDeg})
	}

	m.focusIdx = 0
	for i, o := range m.objects {
		if o.name == focused {
			m.focusIdx = i
			break
		}
	}

	if snap.JD != m.jd || snap.Location != m.loc {
		m.jd = snap.JD
		m.loc = snap.Location
		m.stars = placeStars(m.catalog, m.maxMag, snap.JD, snap.Location)
	}

	if !m.animating && len(m.objects) > 0 {
		o := m.objects[m.focusIdx]
		m.camAz, m.camEl = o.az, clampCamEl(o.alt)
	}
	return m
}

// placeStars computes the horizontal position of every star brighter than
// maxMag.
func placeStars(catalog *ephem.StarCatalog, maxMag, jd float64, loc astro.Location) []skyStar {
	if catalog == nil {
		return nil
	}
	var out []skyStar
	for _, s := range catalog.Stars() {
		if s.Mag > maxMag {
			continue
		}
		h, err := celestial.FromGeocentric(jd, s.Vector(), celestial.KindStar).Horizontal(loc)
		if err != nil || h.AltDeg <= 0 {
			continue
		}
		out = append(out, skyStar{az: h.AzDeg, alt: h.AltDeg, mag: s.Mag})
	}
	return out
}

// clampCamEl keeps the horizon in frame for bodies below it.
func clampCamEl(alt float64) float64 {
	return math.Max(fovEl/2-5, math.Min(90-fovEl/2, alt))
}

// Focused returns the name of the focused body, or "".
func (m SkyViewModel) Focused() string {
	if m.focusIdx < len(m.objects) {
		return m.objects[m.focusIdx].name
	}
	return ""
}

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			return m.focusPrev()
		case "down", "j":
			return m.focusNext()
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "t":
			m.showStars = !m.showStars
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) focusNext() (SkyViewModel, tea.Cmd) {
	if len(m.objects) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.objects)
	return m.startAnimation()
}

func (m SkyViewModel) focusPrev() (SkyViewModel, tea.Cmd) {
	if len(m.objects) == 0 {
		return m, nil
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.objects) - 1
	}
	return m.startAnimation()
}

func (m SkyViewModel) startAnimation() (SkyViewModel, tea.Cmd) {
	if m.focusIdx >= len(m.objects) {
		return m, nil
	}

	o := m.objects[m.focusIdx]
	m.animating = true
	m.animStartAz = m.camAz
	m.animStartEl = m.camEl
	m.animTargAz = o.az
	m.animTargEl = clampCamEl(o.alt)
	m.animStart = time.Now()

	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	t := float64(time.Since(m.animStart)) / float64(animDuration)

	if t >= 1.0 {
		m.animating = false
		m.camAz = astro.NormalizeDegrees(m.animTargAz)
		m.camEl = m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	m.camAz = lerpAngle(m.animStartAz, m.animTargAz, t)
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)

	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	viewHeight := m.height - 4
	canvas := m.renderSkyCanvas(m.width, viewHeight)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(canvas)
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPlanet))

	title := titleStyle.Render("Sky View")

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelFocused:
		labelStr = accentStyle.Render("Labels: focus")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	starStr := dimStyle.Render("Stars: off")
	if m.showStars {
		starStr = accentStyle.Render(fmt.Sprintf("Stars: %d", len(m.stars)))
	}

	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f°", m.camAz, m.camEl))
	return fmt.Sprintf("%s | %s | %s | %s", title, labelStr, starStr, compass)
}

func (m SkyViewModel) renderStatus() string {
	if len(m.objects) == 0 {
		return "No bodies computed yet"
	}
	o := m.objects[m.focusIdx]

	where := "above horizon"
	if o.alt <= 0 {
		where = "below horizon"
	}
	line := fmt.Sprintf(">>> %s (%s) | Az:%.1f° %s El:%+.1f° | %s",
		o.name, o.kind, o.az, compassPoint(o.az), o.alt, where)

	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorPlanetFocused)).Render(line)
}

// objectPos tracks a placed body for label rendering
type objectPos struct {
	x, y       int
	name       string
	isFocused  bool
	labelStart int
	labelEnd   int
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2

	if m.showStars {
		for _, s := range m.stars {
			x, y, visible := m.projectToScreen(s.az, s.alt, width, height)
			if !visible || x < 0 || x >= width || y < 0 || y >= horizonY {
				continue
			}
			glyph, color := starGlyph(s.mag)
			canvas[y][x] = glyph
			colors[y][x] = color
		}
	}

	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}

	m.drawCardinal(canvas, colors, width, height, "N", 0)
	m.drawCardinal(canvas, colors, width, height, "E", 90)
	m.drawCardinal(canvas, colors, width, height, "S", 180)
	m.drawCardinal(canvas, colors, width, height, "W", 270)

	var positions []objectPos
	for i, o := range m.objects {
		if o.alt <= 0 {
			continue
		}
		x, y, visible := m.projectToScreen(o.az, o.alt, width, height)
		if !visible || x < 0 || x >= width || y < 0 || y >= horizonY {
			continue
		}

		isFocused := i == m.focusIdx
		glyph, color := bodyGlyph(o.kind, isFocused)
		canvas[y][x] = glyph
		colors[y][x] = color

		positions = append(positions, objectPos{x: x, y: y, name: o.name, isFocused: isFocused})
	}

	m.renderLabels(canvas, colors, width, horizonY, positions)

	// Observer marker at bottom center
	if ox, oy := width/2, height-1; oy >= 0 && ox < width {
		canvas[oy][ox] = '▲'
		colors[oy][ox] = "46"
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLabels draws body labels on the canvas based on label mode.
// Focused labels take priority in overlapping regions.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width, horizonY int, positions []objectPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for i := range positions {
		pos := &positions[i]
		pos.labelStart = pos.x + 2
		labelLen := len([]rune(pos.name))
		if pos.isFocused {
			labelLen += 2
		}
		pos.labelEnd = pos.labelStart + labelLen
	}

	focusedClaims := make(map[int]map[int]bool) // y -> x -> claimed
	for _, pos := range positions {
		if !pos.isFocused {
			continue
		}
		if focusedClaims[pos.y] == nil {
			focusedClaims[pos.y] = make(map[int]bool)
		}
		for x := pos.labelStart; x < pos.labelEnd; x++ {
			focusedClaims[pos.y][x] = true
		}
	}

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}

		labelColor := lipgloss.Color(colorPlanet)
		labelText := pos.name
		if pos.isFocused {
			labelColor = colorPlanetFocused
			labelText = "◄ " + pos.name
		}

		for i, r := range []rune(labelText) {
			x := pos.labelStart + i
			if x < 0 || x >= width || pos.y < 0 || pos.y >= horizonY {
				continue
			}
			if !pos.isFocused && focusedClaims[pos.y][x] {
				continue
			}
			canvas[pos.y][x] = r
			colors[pos.y][x] = labelColor
		}
	}
}

func bodyGlyph(kind celestial.Kind, focused bool) (rune, lipgloss.Color) {
	switch kind {
	case celestial.KindSun:
		return glyphSun, colorSun
	case celestial.KindMoon:
		return glyphMoon, colorMoon
	}
	if focused {
		return glyphPlanetFocused, colorPlanetFocused
	}
	return glyphPlanet, colorPlanet
}

// starGlyph returns the glyph and color for a star's magnitude.
func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, colorStarBright
	case mag < 3.0:
		return glyphStarMedium, colorStarMedium
	case mag < 4.0:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarVeryDim, colorStarVeryDim
	}
}

func (m SkyViewModel) drawCardinal(canvas [][]rune, colors [][]lipgloss.Color, width, height int, label string, az float64) {
	x, _, visible := m.projectToScreen(az, 0, width, height)
	if !visible {
		return
	}
	y := height - 2
	if x >= 0 && x < width && y >= 0 && y < height {
		canvas[y][x] = rune(label[0])
		colors[y][x] = "252"
	}
}

// projectToScreen converts az/el to screen coordinates relative to camera
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := el - m.camEl

	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if dEl < -fovEl/2 || dEl > fovEl/2 {
		return 0, 0, false
	}

	// X: -fovAz/2..+fovAz/2 -> 0..width
	// Y: +fovEl/2..-fovEl/2 -> 0..horizon (higher el = higher on screen)
	horizonY := height - 2
	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl/2 - dEl) / fovEl * float64(horizonY))
	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	return a + normalizeAngle(b-a)*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
