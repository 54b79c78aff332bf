package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-astral/internal/astro"
	"github.com/litescript/ls-astral/internal/logging"
	"github.com/litescript/ls-astral/internal/metrics"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second

	// VectorCacheTTL is how long to cache heliocentric positions.
	VectorCacheTTL = 10 * time.Minute

	// MaxCacheEntries bounds the vector cache; the oldest entry is evicted
	// beyond it.
	MaxCacheEntries = 512

	// DefaultRequestsPerSecond keeps us well inside Horizons' fair-use limits.
	DefaultRequestsPerSecond = 2.0

	// maxRetries is the number of retries for transient HTTP failures.
	maxRetries = 2
)

// retryDelay is the initial backoff between retries; doubled each attempt.
var retryDelay = 500 * time.Millisecond

// errTransient marks failures worth retrying (HTTP 429 and 5xx).
var errTransient = errors.New("transient horizons failure")

// HorizonsProvider queries JPL Horizons for heliocentric state vectors.
type HorizonsProvider struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	ttl     time.Duration
	log     *logging.Logger
	metrics *metrics.Metrics

	mu         sync.RWMutex
	cache      map[vectorKey]cachedVector
	maxEntries int
}

// vectorKey identifies a cached position.
type vectorKey struct {
	body Body
	jd   float64
}

// cachedVector stores a cached heliocentric position.
type cachedVector struct {
	pos       astro.HelioVec
	fetchedAt time.Time
}

// NewHorizonsProvider creates a new Horizons API client.
func NewHorizonsProvider(opts Options) *HorizonsProvider {
	baseURL := opts.HorizonsURL
	if baseURL == "" {
		baseURL = HorizonsAPIURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: RequestTimeout}
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = VectorCacheTTL
	}

	return &HorizonsProvider{
		baseURL: baseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		ttl:     ttl,
		log:     opts.logger().With("provider", "horizons"),
		metrics: opts.Metrics,
		cache:   make(map[vectorKey]cachedVector),

		maxEntries: MaxCacheEntries,
	}
}

// Name implements Provider.
func (p *HorizonsProvider) Name() string {
	return "horizons"
}

// Heliocentric implements Provider.
// Returns a cached vector if available, otherwise queries Horizons.
func (p *HorizonsProvider) Heliocentric(ctx context.Context, body Body, jd float64) (astro.HelioVec, error) {
	if !body.Valid() {
		return astro.HelioVec{}, fmt.Errorf("%w: %v", ErrUnsupportedBody, body)
	}

	key := vectorKey{body: body, jd: jd}
	p.mu.RLock()
	cached, ok := p.cache[key]
	p.mu.RUnlock()

	if ok && time.Since(cached.fetchedAt) < p.ttl {
		p.metrics.ObserveCacheHit(p.Name())
		return cached.pos, nil
	}

	v, err := p.fetchWithRetry(ctx, body, jd)
	if err != nil {
		return astro.HelioVec{}, err
	}
	pos := astro.HelioVec{Vec3: astro.PrecessEcliptic(v, jd)}

	p.mu.Lock()
	p.storeLocked(key, pos, time.Now())
	p.mu.Unlock()

	return pos, nil
}

// storeLocked caches pos after dropping expired entries and, at capacity,
// the oldest one. Callers hold p.mu.
func (p *HorizonsProvider) storeLocked(key vectorKey, pos astro.HelioVec, now time.Time) {
	var oldest vectorKey
	var oldestAt time.Time
	for k, v := range p.cache {
		if now.Sub(v.fetchedAt) >= p.ttl {
			delete(p.cache, k)
			continue
		}
		if oldestAt.IsZero() || v.fetchedAt.Before(oldestAt) {
			oldest, oldestAt = k, v.fetchedAt
		}
	}
	if _, ok := p.cache[key]; !ok && p.maxEntries > 0 && len(p.cache) >= p.maxEntries {
		delete(p.cache, oldest)
	}
	p.cache[key] = cachedVector{pos: pos, fetchedAt: now}
}

// cacheLen returns the number of cached vectors.
func (p *HorizonsProvider) cacheLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}

// InvalidateCache clears all cached vectors.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.cache = make(map[vectorKey]cachedVector)
	p.mu.Unlock()
}

// fetchWithRetry retries transient failures with exponential backoff.
func (p *HorizonsProvider) fetchWithRetry(ctx context.Context, body Body, jd float64) (astro.Vec3, error) {
	delay := retryDelay
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			p.log.Debug("retrying %v after %v: %v", body, delay, lastErr)
			select {
			case <-ctx.Done():
				return astro.Vec3{}, fmt.Errorf("horizons retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		v, err := p.queryHeliocentricVectors(ctx, body, jd)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, errTransient) {
			return astro.Vec3{}, err
		}
		lastErr = err
	}

	return astro.Vec3{}, fmt.Errorf("horizons: max retries (%d) exceeded: %w", maxRetries, lastErr)
}

// queryHeliocentricVectors queries Horizons for heliocentric ecliptic state vectors.
func (p *HorizonsProvider) queryHeliocentricVectors(ctx context.Context, body Body, jd float64) (astro.Vec3, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return astro.Vec3{}, fmt.Errorf("rate limiter: %w", err)
	}

	// Values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", body.NAIFID()))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "VECTORS")
	params.Set("CENTER", "'@10'")       // Sun center
	params.Set("REF_PLANE", "ECLIPTIC") // J2000 ecliptic
	params.Set("REF_SYSTEM", "ICRF")
	params.Set("VEC_TABLE", "'1'") // Position only
	params.Set("VEC_LABELS", "NO")
	params.Set("OUT_UNITS", "'AU-D'")
	params.Set("TLIST", fmt.Sprintf("'%s'", strconv.FormatFloat(jd, 'f', -1, 64)))

	reqURL := p.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("horizons request: %w", err)
	}

	p.log.Debug("querying %v at JD %.6f", body, jd)
	resp, err := p.client.Do(req)
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("horizons vector request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return astro.Vec3{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return astro.Vec3{}, fmt.Errorf("%w: %w", errTransient, err)
		}
		return astro.Vec3{}, err
	}

	return parseVectorResponse(data)
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseVectorResponse parses the Horizons JSON response for vector data.
func parseVectorResponse(body []byte) (astro.Vec3, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return astro.Vec3{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return astro.Vec3{}, fmt.Errorf("horizons error: %s", strings.TrimSpace(resp.Error))
	}

	// Find the data section between $$SOE and $$EOE markers
	soeIdx := strings.Index(resp.Result, "$$SOE")
	eoeIdx := strings.Index(resp.Result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return astro.Vec3{}, fmt.Errorf("could not find vector data markers")
	}

	dataSection := resp.Result[soeIdx+5 : eoeIdx]
	lines := strings.Split(dataSection, "\n")

	// Vector format (VEC_TABLE='1'):
	// 2458061.774317130 = A.D. 2017-Nov-04 06:35:00.0000 TDB
	//  X = 1.234567890123456E+00 Y = 2.345678901234567E+00 Z = 3.456789012345678E-01
	// OR compact format (VEC_LABELS=NO):
	// 2458061.774317130 = A.D. 2017-Nov-04 06:35:00.0000 TDB
	//  1.234567890123456E+00  2.345678901234567E+00  3.456789012345678E-01

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "=") && strings.Contains(line, "A.D.") {
			continue
		}

		if strings.Contains(line, "X =") {
			return parseVectorLabeled(line)
		}

		vec, err := parseVectorUnlabeled(line)
		if err == nil {
			return vec, nil
		}
	}

	return astro.Vec3{}, fmt.Errorf("could not parse vector data")
}

// parseVectorLabeled parses: X = 1.23E+00 Y = 2.34E+00 Z = 3.45E-01
func parseVectorLabeled(line string) (astro.Vec3, error) {
	parts := strings.Split(line, "=")
	if len(parts) < 4 {
		return astro.Vec3{}, fmt.Errorf("invalid labeled format")
	}

	// parts[1] holds "X_value Y", parts[2] "Y_value Z", parts[3] "Z_value"
	var vals [3]float64
	for i, part := range parts[1:4] {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			return astro.Vec3{}, fmt.Errorf("invalid labeled format")
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return astro.Vec3{}, err
		}
		vals[i] = v
	}

	return checkVector(astro.Vec3{X: vals[0], Y: vals[1], Z: vals[2]})
}

// parseVectorUnlabeled parses: 1.23E+00  2.34E+00  3.45E-01
func parseVectorUnlabeled(line string) (astro.Vec3, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return astro.Vec3{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return astro.Vec3{}, err
		}
		vals[i] = v
	}

	return checkVector(astro.Vec3{X: vals[0], Y: vals[1], Z: vals[2]})
}

func checkVector(v astro.Vec3) (astro.Vec3, error) {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
		return astro.Vec3{}, fmt.Errorf("vector contains NaN")
	}
	return v, nil
}
