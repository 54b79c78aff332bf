package ephem

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/litescript/ls-astral/internal/astro"
)

//go:embed data/stars.csv
var starsCSV []byte

// distanceTolerance is the allowed relative mismatch between |xyz| and dist.
const distanceTolerance = 0.01

// Star is a catalog row. Position is geocentric equatorial Cartesian in
// parsecs; RA and Dec are the catalog's own convenience columns.
type Star struct {
	Name   string
	X, Y   float64
	Z      float64
	Dist   float64 // parsecs
	RAHour float64 // right ascension in hours
	DecDeg float64
	Mag    float64 // apparent visual magnitude, 0 when the column is absent
}

// Vector returns the star's geocentric equatorial position.
func (s Star) Vector() astro.GeoVec {
	return astro.Geo(s.X, s.Y, s.Z)
}

// RADeg returns right ascension in degrees.
func (s Star) RADeg() float64 {
	return s.RAHour * 15
}

// StarCatalog is an immutable, name-indexed star table.
type StarCatalog struct {
	stars  []Star
	byName map[string]int
}

// requiredColumns must be present in the header, in any order.
var requiredColumns = []string{"proper", "x", "y", "z", "dist", "ra", "dec"}

// LoadCatalog parses a catalog in CSV form with a header row naming at least
// proper,x,y,z,dist,ra,dec. An optional mag column is read when present.
// Any malformed row fails the whole load.
func LoadCatalog(r io.Reader) (*StarCatalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrCatalogFormat)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrCatalogFormat, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrCatalogFormat, name)
		}
	}
	magCol, hasMag := col["mag"]

	cat := &StarCatalog{byName: make(map[string]int)}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrCatalogFormat, row, err)
		}

		star, err := parseStar(rec, col, magCol, hasMag)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrCatalogFormat, row, err)
		}

		key := normalizeName(star.Name)
		if _, dup := cat.byName[key]; dup {
			return nil, fmt.Errorf("%w: row %d: duplicate star %q", ErrCatalogFormat, row, star.Name)
		}
		cat.byName[key] = len(cat.stars)
		cat.stars = append(cat.stars, star)
	}

	if len(cat.stars) == 0 {
		return nil, fmt.Errorf("%w: no stars", ErrCatalogFormat)
	}
	return cat, nil
}

func parseStar(rec []string, col map[string]int, magCol int, hasMag bool) (Star, error) {
	field := func(name string) string {
		return strings.TrimSpace(rec[col[name]])
	}
	num := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("column %s: not finite", name)
		}
		return v, nil
	}

	s := Star{Name: field("proper")}
	if s.Name == "" {
		return Star{}, errors.New("empty proper name")
	}

	var err error
	targets := []struct {
		name string
		dst  *float64
	}{
		{"x", &s.X}, {"y", &s.Y}, {"z", &s.Z},
		{"dist", &s.Dist}, {"ra", &s.RAHour}, {"dec", &s.DecDeg},
	}
	for _, t := range targets {
		if *t.dst, err = num(t.name); err != nil {
			return Star{}, err
		}
	}

	if hasMag && strings.TrimSpace(rec[magCol]) != "" {
		if s.Mag, err = num("mag"); err != nil {
			return Star{}, err
		}
	}

	if s.Dist <= 0 {
		return Star{}, fmt.Errorf("non-positive distance %v", s.Dist)
	}
	if n := s.Vector().Norm(); math.Abs(n-s.Dist) > distanceTolerance*s.Dist {
		return Star{}, fmt.Errorf("|xyz| = %v disagrees with dist %v", n, s.Dist)
	}
	if s.RAHour < 0 || s.RAHour >= 24 {
		return Star{}, fmt.Errorf("ra %v outside [0, 24)", s.RAHour)
	}
	if s.DecDeg < -90 || s.DecDeg > 90 {
		return Star{}, fmt.Errorf("dec %v outside [-90, 90]", s.DecDeg)
	}
	return s, nil
}

// DefaultCatalog parses the bundled catalog. Callers should load it once and
// share the result.
func DefaultCatalog() (*StarCatalog, error) {
	return LoadCatalog(bytes.NewReader(starsCSV))
}

// Lookup finds a star by case-insensitive exact name.
func (c *StarCatalog) Lookup(name string) (Star, error) {
	if i, ok := c.byName[normalizeName(name)]; ok {
		return c.stars[i], nil
	}
	return Star{}, fmt.Errorf("%w: %q", ErrStarNotFound, name)
}

// Len returns the number of stars.
func (c *StarCatalog) Len() int {
	return len(c.stars)
}

// Stars returns a copy of all rows in catalog order.
func (c *StarCatalog) Stars() []Star {
	out := make([]Star, len(c.stars))
	copy(out, c.stars)
	return out
}
