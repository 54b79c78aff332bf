package ephem

import (
	"fmt"
	"strings"
)

// Body is a major solar-system body served by a Provider. Values are NAIF
// SPICE IDs.
// Sourced from https://naif.jpl.nasa.gov/pub/naif/toolkit_docs/C/req/naif_ids.html
type Body int

const (
	Mercury Body = 199
	Venus   Body = 299
	Earth   Body = 399
	Mars    Body = 499
	Jupiter Body = 599
	Saturn  Body = 699
	Uranus  Body = 799
	Neptune Body = 899
)

// BodyInfo describes a supported body.
type BodyInfo struct {
	Body    Body
	Name    string
	Symbol  rune     // Glyph used on the sky view
	Aliases []string // Alternative names accepted by ParseBody
}

// Bodies is the canonical list of supported bodies, innermost first.
var Bodies = []BodyInfo{
	{Body: Mercury, Name: "Mercury", Symbol: '☿'},
	{Body: Venus, Name: "Venus", Symbol: '♀'},
	{Body: Earth, Name: "Earth", Symbol: '⊕', Aliases: []string{"terra"}},
	{Body: Mars, Name: "Mars", Symbol: '♂'},
	{Body: Jupiter, Name: "Jupiter", Symbol: '♃'},
	{Body: Saturn, Name: "Saturn", Symbol: '♄'},
	{Body: Uranus, Name: "Uranus", Symbol: '⛢'},
	{Body: Neptune, Name: "Neptune", Symbol: '♆'},
}

// bodiesByID maps NAIF IDs to body info for quick lookup.
var bodiesByID = func() map[Body]BodyInfo {
	m := make(map[Body]BodyInfo, len(Bodies))
	for _, b := range Bodies {
		m[b.Body] = b
	}
	return m
}()

// bodiesByName maps lowercase names and aliases to bodies.
var bodiesByName = func() map[string]Body {
	m := make(map[string]Body, len(Bodies)*2)
	for _, b := range Bodies {
		m[normalizeName(b.Name)] = b.Body
		for _, alias := range b.Aliases {
			m[normalizeName(alias)] = b.Body
		}
	}
	return m
}()

// normalizeName folds a body or star name for case-insensitive matching.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseBody resolves a case-insensitive planet name. Unknown names, Pluto
// included, return an error wrapping ErrUnsupportedBody.
func ParseBody(name string) (Body, error) {
	if b, ok := bodiesByName[normalizeName(name)]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBody, name)
}

// Info returns the body's descriptor.
func (b Body) Info() (BodyInfo, bool) {
	info, ok := bodiesByID[b]
	return info, ok
}

// NAIFID returns the body's NAIF SPICE ID.
func (b Body) NAIFID() int {
	return int(b)
}

// String returns the body's display name.
func (b Body) String() string {
	if info, ok := bodiesByID[b]; ok {
		return info.Name
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// Valid reports whether b is a supported body.
func (b Body) Valid() bool {
	_, ok := bodiesByID[b]
	return ok
}
