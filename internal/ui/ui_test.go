package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-astral/internal/celestial"
	"github.com/litescript/ls-astral/internal/state"
)

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func readyModel(t *testing.T, vis VisibilityFunc) Model {
	t.Helper()
	mgr := state.NewManager(state.DefaultConfig())
	snap := testSnapshot()
	mgr.Update(snap, 3*time.Millisecond, nil)

	var m tea.Model = New(mgr, nil, 2.5, vis)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m, _ = m.Update(DataUpdateMsg{Snapshot: mgr.Snapshot()})
	return m.(Model)
}

func TestModel_InitialView(t *testing.T) {
	m := New(nil, nil, 2.5, nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before size = %q", got)
	}

	m = readyModel(t, nil)
	view := m.View()
	for _, want := range []string{"[1] Bodies", "Venus", "refresh in", "[kepler]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_SwitchViews(t *testing.T) {
	var m tea.Model = readyModel(t, nil)

	m, _ = m.Update(key("3"))
	if m.(Model).viewMode != ViewMoon {
		t.Fatalf("viewMode = %d, want moon", m.(Model).viewMode)
	}
	view := m.View()
	for _, want := range []string{"FULL (waxing)", "99.5%", "below horizon"} {
		if !strings.Contains(view, want) {
			t.Errorf("moon view missing %q", want)
		}
	}

	m, _ = m.Update(key("tab"))
	if m.(Model).viewMode != ViewEvents {
		t.Errorf("tab from moon = %d, want events", m.(Model).viewMode)
	}
	if !strings.Contains(m.View(), "No events yet") {
		t.Error("events view should be empty")
	}

	m, _ = m.Update(key("tab"))
	if m.(Model).viewMode != ViewBodies {
		t.Errorf("tab should wrap to bodies, got %d", m.(Model).viewMode)
	}

	m, _ = m.Update(key("s"))
	if !strings.Contains(m.View(), "Sky View") {
		t.Error("sky view not rendered")
	}
}

func TestModel_EventsView(t *testing.T) {
	m := readyModel(t, nil)
	t0 := time.Date(2017, 11, 4, 18, 0, 0, 0, time.UTC)
	m.snapshot.Events = []state.Event{
		{Type: state.EventRise, Timestamp: t0, Body: "Mars"},
		{Type: state.EventPhaseChange, Timestamp: t0.Add(time.Hour), Body: "Moon", From: "waxing gibbous", To: "full"},
	}
	m.viewMode = ViewEvents

	view := m.View()
	if !strings.Contains(view, "waxing gibbous → full") {
		t.Errorf("phase change missing:\n%s", view)
	}
	// Newest first.
	if strings.Index(view, "PHASE_CHANGE") > strings.Index(view, "RISE") {
		t.Error("events should be listed newest first")
	}
}

func TestModel_Quit(t *testing.T) {
	m := readyModel(t, nil)
	_, cmd := m.Update(key("q"))
	var quit bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			quit = true
		}
	}
	if !quit {
		t.Error("q should quit")
	}
}

func TestModel_Visibility(t *testing.T) {
	want := celestial.VisibilityWindow{Valid: true, NeverVisible: true}
	var asked string
	vis := func(ctx context.Context, name string) (celestial.VisibilityWindow, error) {
		asked = name
		return want, nil
	}
	var m tea.Model = readyModel(t, vis)

	m, cmd := m.Update(key("down"))
	m, cmd = m.Update(key("v"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("messages = %#v", msgs)
	}

	m, cmd = m.Update(msgs[0])
	msgs = collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("messages = %#v", msgs)
	}
	res, ok := msgs[0].(VisibilityResultMsg)
	if !ok || res.Name != "Venus" || asked != "Venus" || res.Err != nil {
		t.Fatalf("result = %#v (asked %q)", msgs[0], asked)
	}

	m, _ = m.Update(res)
	if !strings.Contains(m.View(), "Below horizon") {
		t.Error("visibility result not shown")
	}
}

func TestModel_VisibilityUnavailable(t *testing.T) {
	m := readyModel(t, nil)
	msgs := collect(m.computeVisibility("Venus"))
	res, ok := msgs[0].(VisibilityResultMsg)
	if !ok || res.Err == nil {
		t.Errorf("result = %#v, want error", msgs[0])
	}
}

func TestModel_ErrorMsg(t *testing.T) {
	var m tea.Model = readyModel(t, nil)
	m, _ = m.Update(ErrorMsg{Error: errors.New("sun: provider down")})
	if !strings.Contains(m.View(), "sun: provider down") {
		t.Error("error not shown")
	}
}

func TestSendHelpers(t *testing.T) {
	if _, ok := SendDataUpdate(state.Snapshot{})().(DataUpdateMsg); !ok {
		t.Error("SendDataUpdate message type")
	}
	err := errors.New("x")
	if msg, ok := SendError(err)().(ErrorMsg); !ok || msg.Error != err {
		t.Error("SendError message")
	}
}

func TestGradientColor(t *testing.T) {
	for _, pos := range [][2]int{{0, 0}, {35, 3}, {69, 5}} {
		c := gradientColor(pos[0], pos[1], 70, 6)
		if len(c) != 7 || c[0] != '#' {
			t.Errorf("gradientColor(%d, %d) = %q", pos[0], pos[1], c)
		}
	}
}
