// Package celestial answers "where is body B at time T" for planets, stars,
// the Sun and the Moon through one set of coordinate views.
package celestial

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKind is returned when a view is requested for a body kind
// that cannot provide it.
var ErrUnsupportedKind = errors.New("unsupported body kind")

// Kind selects how a position's equatorial coordinates are derived.
type Kind int

const (
	KindPlanet Kind = iota
	KindStar
	KindSun
	KindMoon
)

// String returns the kind name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindStar:
		return "star"
	case KindSun:
		return "sun"
	case KindMoon:
		return "moon"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
