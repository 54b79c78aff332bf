// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astral/internal/celestial"
	"github.com/litescript/ls-astral/internal/ephem"
	"github.com/litescript/ls-astral/internal/state"
	"github.com/litescript/ls-astral/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewBodies ViewMode = iota
	ViewSky
	ViewMoon
	ViewEvents

	viewCount
)

// VisibilityFunc computes the next visibility window for a named body.
type VisibilityFunc func(ctx context.Context, name string) (celestial.VisibilityWindow, error)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new sky snapshot is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a compute error.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state      *state.Manager
	visibility VisibilityFunc

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int // Animation tick for shimmer effects

	bodies  BodiesModel
	skyView SkyViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model. catalog and maxMag control the stars
// drawn in the sky view; vis may be nil to disable visibility requests.
func New(stateMgr *state.Manager, catalog *ephem.StarCatalog, maxMag float64, vis VisibilityFunc) Model {
	return Model{
		state:      stateMgr,
		visibility: vis,
		viewMode:   ViewBodies,
		bodies:     NewBodiesModel(),
		skyView:    NewSkyViewModel(catalog, maxMag),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "b":
			m.viewMode = ViewBodies
		case "2", "s":
			m.viewMode = ViewSky
		case "3", "m":
			m.viewMode = ViewMoon
		case "4", "e":
			m.viewMode = ViewEvents

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.bodies = m.bodies.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.state != nil {
			m.snapshot = m.state.Snapshot()
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.bodies = m.bodies.UpdateData(m.snapshot.Sky)
		m.skyView = m.skyView.UpdateData(m.snapshot.Sky)

	case VisibilityRequestMsg:
		cmds = append(cmds, m.computeVisibility(msg.Name))

	case VisibilityResultMsg:
		m.bodies = m.bodies.SetVisibility(msg)

	case ErrorMsg:
		m.bodies = m.bodies.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewBodies:
		m.bodies, cmd = m.bodies.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	}
	return cmd
}

// computeVisibility runs the visibility function off the UI goroutine.
func (m Model) computeVisibility(name string) tea.Cmd {
	vis := m.visibility
	if vis == nil {
		return func() tea.Msg {
			return VisibilityResultMsg{Name: name, Err: fmt.Errorf("visibility unavailable")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		w, err := vis(ctx, name)
		return VisibilityResultMsg{Name: name, Window: w, Err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewBodies:
		content = m.bodies.View()
	case ViewSky:
		content = m.skyView.View()
	case ViewMoon:
		content = m.renderMoonView()
	case ViewEvents:
		content = m.renderEventsView()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗      █████╗ ███████╗████████╗██████╗  █████╗ ██╗     `,
		`  ██║     ██╔════╝     ██╔══██╗██╔════╝╚══██╔══╝██╔══██╗██╔══██╗██║     `,
		`  ██║     ███████╗████╗███████║███████╗   ██║   ██████╔╝███████║██║     `,
		`  ██║     ╚════██║╚═══╝██╔══██║╚════██║   ██║   ██╔══██╗██╔══██║██║     `,
		`  ███████╗███████║     ██║  ██║███████║   ██║   ██║  ██║██║  ██║███████╗`,
		`  ╚══════╝╚══════╝     ╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	tagline := fmt.Sprintf("  Sun · Moon · Planets · Stars | v%s", version.Version)
	b.WriteString(muted.Render(tagline))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep blue through violet to a pale dawn gold.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Navy (#1E3A8A) -> Indigo (#6366F1) -> Violet (#A855F7) -> Gold (#FBBF24)
	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r = 30 + t*(99-30)
		g = 58 + t*(102-58)
		b = 138 + t*(241-138)
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r = 99 + t*(168-99)
		g = 102 + t*(85-102)
		b = 241 + t*(247-241)
	default:
		t := (xRatio - 0.66) / 0.34
		r = 168 + t*(251-168)
		g = 85 + t*(191-85)
		b = 247 + t*(36-247)
	}

	// Vertical fade: brighter at top
	f := 1.0 - yRatio*0.4
	clamp := func(v float64) int {
		return max(0, min(255, int(v*f)))
	}

	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Bodies", "[2] Sky", "[3] Moon", "[4] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderMoonView() string {
	sky := m.snapshot.Sky
	if sky == nil {
		return "Computing sky..."
	}
	info := sky.Moon

	lit := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMoon))
	art := RenderMoon(info.Phase, 11)
	for i, line := range art {
		art[i] = lit.Render(line)
	}

	trend := "waning"
	if info.Waxing {
		trend = "waxing"
	}
	where := "below horizon"
	if info.AltitudeDeg > 0 {
		where = "above horizon"
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s (%s)", strings.ToUpper(info.PhaseName), trend)),
		"",
		fmt.Sprintf("Illuminated  %5.1f%%", info.PercentIlluminated),
		fmt.Sprintf("Lunation     %5.3f", info.Phase),
		fmt.Sprintf("Azimuth      %6.2f° %s", info.AzimuthDeg, compassPoint(info.AzimuthDeg)),
		fmt.Sprintf("Altitude     %+6.2f° %s", info.AltitudeDeg, where),
		fmt.Sprintf("RA           %s", FormatRA(info.RADeg)),
		fmt.Sprintf("Dec          %s", FormatDec(info.DecDeg)),
		fmt.Sprintf("Distance     %s", FormatDistance(info.DistanceKm, celestial.KindMoon)),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(art, "\n")),
		lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n")),
	)
}

func (m Model) renderEventsView() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(dimStyle.Render("  No events yet"))
		return b.String()
	}

	maxRows := max(5, m.height-14)
	if len(events) > maxRows {
		events = events[len(events)-maxRows:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		line := fmt.Sprintf("  %s  %-12s %-12s", e.Timestamp.Local().Format("15:04:05"), e.Type, e.Body)
		if e.From != "" || e.To != "" {
			line += fmt.Sprintf(" %s → %s", e.From, e.To)
		}
		b.WriteString(eventStyle(e.Type).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func eventStyle(t state.EventType) lipgloss.Style {
	switch t {
	case state.EventRise:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorVisHigh))
	case state.EventSet:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorVisLow))
	case state.EventPhaseChange:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorMoon))
	default:
		return errorStyle
	}
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastCompute.IsZero():
		var interval time.Duration
		if m.state != nil {
			interval = m.state.RefreshInterval()
		}
		countdown := time.Until(m.snapshot.LastCompute.Add(interval)).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" refresh in %ds", int(countdown.Seconds())))
		if m.snapshot.Duration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.Duration.Round(time.Millisecond).String() + ")")
		}
		if sky := m.snapshot.Sky; sky != nil {
			status += dimStyle.Render(" [" + sky.Provider + "]")
		}
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Computing sky...")
	}

	var help string
	switch m.viewMode {
	case ViewBodies:
		help = dimStyle.Render("↑↓: select | v: visibility | tab: switch view")
	case ViewSky:
		help = dimStyle.Render("j/k: focus | l: labels | t: stars")
	default:
		help = dimStyle.Render("tab: switch view | q: quit")
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
