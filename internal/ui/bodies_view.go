package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/celestial"
)

// Styles for the bodies table
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Altitude tier colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high altitude
	colorVisMedium = "#FFD700" // Gold - medium altitude
	colorVisLow    = "#FF6347" // Tomato - low altitude
	colorVisNone   = "#444444" // Dark gray - below horizon

	// Sun separation colors
	colorSunSafe    = "#7CFC00"
	colorSunCaution = "#FFD700"
	colorSunWarning = "#FF4500"
)

// VisibilityRequestMsg asks the root model to compute a body's visibility
// window.
type VisibilityRequestMsg struct {
	Name string
}

// VisibilityResultMsg carries a computed visibility window.
type VisibilityResultMsg struct {
	Name   string
	Window celestial.VisibilityWindow
	Err    error
}

// BodiesModel is the table of every tracked body.
type BodiesModel struct {
	width   int
	height  int
	cursor  int
	snap    *celestial.Snapshot
	lastErr error

	windows map[string]celestial.VisibilityWindow
	winErrs map[string]error
	pending map[string]bool
}

// NewBodiesModel creates an empty bodies table.
func NewBodiesModel() BodiesModel {
	return BodiesModel{
		windows: make(map[string]celestial.VisibilityWindow),
		winErrs: make(map[string]error),
		pending: make(map[string]bool),
	}
}

// SetSize updates the viewport size.
func (m BodiesModel) SetSize(width, height int) BodiesModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData stores a new snapshot.
func (m BodiesModel) UpdateData(snap *celestial.Snapshot) BodiesModel {
	m.snap = snap
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m
}

// SetError sets the last error for display.
func (m BodiesModel) SetError(err error) BodiesModel {
	m.lastErr = err
	return m
}

// SetVisibility stores the result of a visibility request.
func (m BodiesModel) SetVisibility(msg VisibilityResultMsg) BodiesModel {
	delete(m.pending, msg.Name)
	if msg.Err != nil {
		m.winErrs[msg.Name] = msg.Err
		delete(m.windows, msg.Name)
		return m
	}
	delete(m.winErrs, msg.Name)
	m.windows[msg.Name] = msg.Window
	return m
}

// rows is the Sun followed by the snapshot's bodies.
func (m BodiesModel) rows() []celestial.BodyReport {
	if m.snap == nil {
		return nil
	}
	rows := make([]celestial.BodyReport, 0, len(m.snap.Bodies)+1)
	rows = append(rows, m.snap.Sun)
	return append(rows, m.snap.Bodies...)
}

// Selected returns the name of the selected row, or "".
func (m BodiesModel) Selected() string {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return ""
	}
	return rows[m.cursor].Name
}

// Update handles messages.
func (m BodiesModel) Update(msg tea.Msg) (BodiesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.rows())
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		case "v", "enter":
			name := m.Selected()
			if name == "" || m.pending[name] {
				return m, nil
			}
			m.pending[name] = true
			return m, func() tea.Msg { return VisibilityRequestMsg{Name: name} }
		}
	}
	return m, nil
}

// View renders the table and the selected body's visibility.
func (m BodiesModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if m.snap == nil {
		b.WriteString("Computing sky...\n")
		return b.String()
	}

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderVisibility())
	return b.String()
}

func (m BodiesModel) renderTable() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Sky from %.4f, %.4f", m.snap.Location.LatDeg, m.snap.Location.LonDeg)))
	b.WriteString("\n")

	header := fmt.Sprintf("%-12s %-6s %-11s %-10s %7s %6s %-4s %-6s %-11s %s",
		"Body", "Kind", "RA", "Dec", "Az", "Alt", "Dir", "Alt", "Distance", "Sun")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	rows := m.rows()
	maxRows := max(5, m.height-14)
	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := min(len(rows), startIdx+maxRows)

	for i := startIdx; i < endIdx; i++ {
		r := rows[i]
		var row string
		if r.Error != "" || r.Equatorial == nil || r.Horizontal == nil {
			row = fmt.Sprintf("%-12s %s", truncateStr(r.Name, 12), truncateStr("error: "+r.Error, 60))
		} else {
			sep := "   -"
			if r.Kind != celestial.KindSun {
				sep = renderSunSeparation(r.SunSeparation)
			}
			row = fmt.Sprintf("%-12s %-6s %-11s %-10s %7.2f %+6.2f %-4s %s %-11s %s",
				truncateStr(r.Name, 12),
				r.Kind,
				FormatRA(r.Equatorial.RADeg),
				FormatDec(r.Equatorial.DecDeg),
				r.Horizontal.AzDeg,
				r.Horizontal.AltDeg,
				compassPoint(r.Horizontal.AzDeg),
				renderTierBar(celestial.GetAltitudeTier(r.Horizontal.AltDeg)),
				FormatDistance(r.Equatorial.Dist, r.Kind),
				sep,
			)
		}

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(rows) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d bodies\n", startIdx+1, endIdx, len(rows)))
	}
	return b.String()
}

// renderVisibility renders the selected body's rise/transit/set window.
// Format:
//
//	Venus  Rise 07:14   Peak 12:02 @ 38°   Set 16:49
func (m BodiesModel) renderVisibility() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)

	name := m.Selected()
	if name == "" {
		return ""
	}
	line := labelStyle.Render(fmt.Sprintf("%-8s ", truncateStr(name, 8)))

	if m.pending[name] {
		return line + dimStyle.Render("Calculating...")
	}
	if err, ok := m.winErrs[name]; ok {
		return line + errorStyle.Render(err.Error())
	}
	w, ok := m.windows[name]
	if !ok {
		return line + dimStyle.Render("[v] next 24h visibility")
	}
	return line + renderWindow(w)
}

func renderWindow(w celestial.VisibilityWindow) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	tier := celestial.GetAltitudeTier(w.MaxAltitude)

	switch {
	case !w.Valid:
		return dimStyle.Render("No data")
	case w.NeverVisible:
		return dimStyle.Render("Below horizon")
	case w.AlwaysVisible:
		return colorByTier(tier, fmt.Sprintf("Always visible, peak %.0f°", w.MaxAltitude))
	}

	var parts []string
	if !w.Rise.IsZero() {
		parts = append(parts, fmt.Sprintf("Rise %s", w.Rise.Local().Format("15:04")))
	}
	if !w.Transit.IsZero() {
		parts = append(parts, fmt.Sprintf("Peak %s @ %.0f°", w.Transit.Local().Format("15:04"), w.MaxAltitude))
	}
	if !w.Set.IsZero() {
		parts = append(parts, fmt.Sprintf("Set %s", w.Set.Local().Format("15:04")))
	}
	if len(parts) == 0 {
		return dimStyle.Render("No crossing in window")
	}
	return colorByTier(tier, strings.Join(parts, "   "))
}

// renderTierBar renders a 4-character altitude bar padded to 6 cells.
func renderTierBar(tier celestial.AltitudeTier) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return style.Render(tierToBar(tier)) + "  "
}

// tierToBar converts an altitude tier to a 4-character bar.
func tierToBar(tier celestial.AltitudeTier) string {
	switch tier {
	case celestial.AltitudeHigh:
		return "████"
	case celestial.AltitudeMedium:
		return "██░░"
	case celestial.AltitudeLow:
		return "█░░░"
	default:
		return "░░░░"
	}
}

// tierToColor returns the color for an altitude tier.
func tierToColor(tier celestial.AltitudeTier) string {
	switch tier {
	case celestial.AltitudeHigh:
		return colorVisHigh
	case celestial.AltitudeMedium:
		return colorVisMedium
	case celestial.AltitudeLow:
		return colorVisLow
	default:
		return colorVisNone
	}
}

// colorByTier applies tier-based coloring to text.
func colorByTier(tier celestial.AltitudeTier, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return style.Render(text)
}

// renderSunSeparation colors an elongation from the Sun.
func renderSunSeparation(sep float64) string {
	color := colorSunSafe
	switch astro.GetSunSeparationTier(sep) {
	case astro.SunSepWarning:
		color = colorSunWarning
	case astro.SunSepCaution:
		color = colorSunCaution
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(fmt.Sprintf("%3.0f°", sep))
}
