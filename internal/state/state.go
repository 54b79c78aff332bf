// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-astral/internal/celestial"
)

// EventType represents the type of sky change event.
type EventType string

const (
	EventRise        EventType = "RISE"
	EventSet         EventType = "SET"
	EventPhaseChange EventType = "PHASE_CHANGE"
	EventLookupError EventType = "LOOKUP_ERROR"
)

// Event is a change between two consecutive snapshots.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// BodyHistory tracks a body's altitude over recent snapshots.
type BodyHistory struct {
	Name     string
	Altitude []TimeSeries
}

// Manager holds the latest sky snapshot and what changed recently.
type Manager struct {
	mu sync.RWMutex

	current     *celestial.Snapshot
	lastCompute time.Time
	lastError   error
	duration    time.Duration

	// previous altitude per body, for rise/set detection
	prevAlt   map[string]float64
	prevErr   map[string]string
	prevPhase string

	history    map[string]*BodyHistory
	maxHistory int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistory      int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistory:      720, // one hour at the default refresh
		MaxEvents:       50,
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 1
	}
	return &Manager{
		maxHistory:      maxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		history:         make(map[string]*BodyHistory),
		prevAlt:         make(map[string]float64),
		prevErr:         make(map[string]string),
	}
}

// Update records the result of one sky computation. A nil snapshot keeps
// the previous one and only records the error.
func (m *Manager) Update(snap *celestial.Snapshot, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCompute = time.Now()
	m.lastError = err
	m.duration = d

	if snap == nil {
		return
	}

	m.detectEvents(snap)
	m.current = snap

	for _, b := range snap.Bodies {
		if b.Horizontal == nil {
			continue
		}
		m.appendHistory(b.Name, snap.Time, b.Horizontal.AltDeg)
	}
	m.appendHistory("Moon", snap.Time, snap.Moon.AltitudeDeg)
}

func (m *Manager) appendHistory(name string, t time.Time, alt float64) {
	h, ok := m.history[name]
	if !ok {
		h = &BodyHistory{Name: name}
		m.history[name] = h
	}
	h.Altitude = append(h.Altitude, TimeSeries{Timestamp: t, Value: alt})
	if len(h.Altitude) > m.maxHistory {
		h.Altitude = h.Altitude[1:]
	}
}

// detectEvents compares snap with the previous snapshot. The first
// snapshot is the baseline and emits nothing.
func (m *Manager) detectEvents(snap *celestial.Snapshot) {
	now := snap.Time
	baseline := m.current == nil

	alts := make(map[string]float64, len(snap.Bodies)+2)
	errs := make(map[string]string)
	for _, b := range snap.Bodies {
		if b.Error != "" {
			errs[b.Name] = b.Error
			if !baseline && m.prevErr[b.Name] != b.Error {
				m.addEvent(Event{Type: EventLookupError, Timestamp: now, Body: b.Name, To: b.Error})
			}
			continue
		}
		if b.Horizontal != nil {
			alts[b.Name] = b.Horizontal.AltDeg
		}
	}
	if snap.Sun.Horizontal != nil {
		alts["Sun"] = snap.Sun.Horizontal.AltDeg
	}
	alts["Moon"] = snap.Moon.AltitudeDeg

	for name, alt := range alts {
		prev, ok := m.prevAlt[name]
		if !ok {
			continue
		}
		switch {
		case prev <= celestial.HorizonAltitude && alt > celestial.HorizonAltitude:
			m.addEvent(Event{Type: EventRise, Timestamp: now, Body: name})
		case prev > celestial.HorizonAltitude && alt <= celestial.HorizonAltitude:
			m.addEvent(Event{Type: EventSet, Timestamp: now, Body: name})
		}
	}

	if m.prevPhase != "" && m.prevPhase != snap.Moon.PhaseName {
		m.addEvent(Event{
			Type:      EventPhaseChange,
			Timestamp: now,
			Body:      "Moon",
			From:      m.prevPhase,
			To:        snap.Moon.PhaseName,
		})
	}

	m.prevAlt = alts
	m.prevErr = errs
	m.prevPhase = snap.Moon.PhaseName
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Sky         *celestial.Snapshot
	LastCompute time.Time
	LastError   error
	Duration    time.Duration
	Events      []Event
}

// Snapshot returns a consistent snapshot of current state. The sky
// snapshot is shared and must not be modified.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Sky:         m.current,
		LastCompute: m.lastCompute,
		LastError:   m.lastError,
		Duration:    m.duration,
		Events:      m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// History returns a copy of a body's altitude history, or nil.
func (m *Manager) History(name string) *BodyHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.history[name]
	if !ok {
		return nil
	}
	out := &BodyHistory{Name: h.Name, Altitude: make([]TimeSeries, len(h.Altitude))}
	copy(out.Altitude, h.Altitude)
	return out
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once a snapshot has been stored.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
