package ephem

import (
	"context"
	"errors"
	"fmt"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/logging"
)

// FallbackProvider tries a primary provider and falls back to a secondary
// one when the primary fails.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	log       *logging.Logger
}

// NewFallbackProvider creates a provider that prefers primary.
func NewFallbackProvider(primary, secondary Provider, log *logging.Logger) *FallbackProvider {
	if log == nil {
		log = logging.Discard()
	}
	return &FallbackProvider{primary: primary, secondary: secondary, log: log}
}

// Name implements Provider.
func (p *FallbackProvider) Name() string {
	return fmt.Sprintf("%s+%s", p.primary.Name(), p.secondary.Name())
}

// Heliocentric implements Provider.
func (p *FallbackProvider) Heliocentric(ctx context.Context, body Body, jd float64) (astro.HelioVec, error) {
	v, err := p.primary.Heliocentric(ctx, body, jd)
	if err == nil {
		return v, nil
	}
	// Unsupported bodies and cancellation are not provider failures.
	if errors.Is(err, ErrUnsupportedBody) || ctx.Err() != nil {
		return astro.HelioVec{}, err
	}

	if errors.Is(err, ErrNoPlanetData) {
		p.log.Debug("%s has no data for %v, using %s: %v", p.primary.Name(), body, p.secondary.Name(), err)
	} else {
		p.log.Warn("%s failed for %v, using %s: %v", p.primary.Name(), body, p.secondary.Name(), err)
	}
	v, err2 := p.secondary.Heliocentric(ctx, body, jd)
	if err2 != nil {
		return astro.HelioVec{}, fmt.Errorf("%s: %w (after %s: %v)", p.secondary.Name(), err2, p.primary.Name(), err)
	}
	return v, nil
}
