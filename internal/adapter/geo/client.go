package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

const (
	// NearRegionFallbackKm is assumed when the remote lookup fails for a near-region address.
	NearRegionFallbackKm = 15.0
	// FarFallbackKm is assumed when the remote lookup fails for any other address.
	FarFallbackKm = 50.0

	defaultTimeout   = 3 * time.Second
	defaultCacheSize = 1024
)

// Resolver estimates the delivery distance from the base zone to an address.
type Resolver interface {
	DistanceKm(ctx context.Context, address model.Address) float64
}

// Options configure the HTTP resolver.
type Options struct {
	BaseURL      string
	BaseCity     string
	NearPrefixes []string
	Timeout      time.Duration
	CacheSize    int
}

// HTTPResolver asks a routing service for distances and degrades to fixed estimates.
type HTTPResolver struct {
	baseURL      *url.URL
	baseCity     string
	nearPrefixes []string
	timeout      time.Duration
	httpClient   *http.Client
	cache        *lru.Cache[string, float64]
	logger       *slog.Logger
}

type response struct {
	DistanceKm float64 `json:"distance_km"`
}

// NewHTTPResolver creates a resolver. An empty BaseURL yields a fallback-only resolver.
func NewHTTPResolver(opts Options, logger *slog.Logger) (*HTTPResolver, error) {
	var base *url.URL
	if opts.BaseURL != "" {
		parsed, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse geocoder url: %w", err)
		}
		if !parsed.IsAbs() {
			return nil, fmt.Errorf("geocoder url must be absolute")
		}
		base = parsed
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, float64](size)
	if err != nil {
		return nil, fmt.Errorf("create distance cache: %w", err)
	}

	return &HTTPResolver{
		baseURL:      base,
		baseCity:     normalize(opts.BaseCity),
		nearPrefixes: opts.NearPrefixes,
		timeout:      timeout,
		httpClient:   &http.Client{Timeout: timeout},
		cache:        cache,
		logger:       logger,
	}, nil
}

// DistanceKm returns 0 inside the base city, the routed distance otherwise, and a
// fixed estimate when the routing service is unreachable.
func (r *HTTPResolver) DistanceKm(ctx context.Context, address model.Address) float64 {
	if r.InBaseZone(address) {
		return 0
	}

	key := cacheKey(address)
	if km, ok := r.cache.Get(key); ok {
		return km
	}

	km, err := r.fetch(ctx, address)
	if err != nil {
		fallback := r.Fallback(address)
		r.logger.Warn("distance lookup failed, using fallback",
			slog.String("city", address.City),
			slog.Float64("fallback_km", fallback),
			slog.String("error", err.Error()),
		)
		return fallback
	}

	r.cache.Add(key, km)
	return km
}

// InBaseZone reports whether the address lies in the free delivery zone.
func (r *HTTPResolver) InBaseZone(address model.Address) bool {
	return r.baseCity != "" && normalize(address.City) == r.baseCity
}

// Fallback is the deterministic estimate used when the remote lookup is unavailable.
func (r *HTTPResolver) Fallback(address model.Address) float64 {
	postal := strings.TrimSpace(address.PostalCode)
	for _, prefix := range r.nearPrefixes {
		if prefix != "" && strings.HasPrefix(postal, prefix) {
			return NearRegionFallbackKm
		}
	}
	return FarFallbackKm
}

func (r *HTTPResolver) fetch(ctx context.Context, address model.Address) (float64, error) {
	if r.baseURL == nil {
		return 0, domainErrors.Wrap(domainErrors.KindDependencyUnavailable, "geocoder not configured", domainErrors.ErrDependencyUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint := *r.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/distance")
	query := endpoint.Query()
	query.Set("origin", r.baseCity)
	query.Set("destination", formatAddress(address))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, domainErrors.Wrap(domainErrors.KindDependencyUnavailable, "geocoder request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, domainErrors.Wrap(domainErrors.KindDependencyUnavailable, "geocoder status "+resp.Status, domainErrors.ErrDependencyUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, fmt.Errorf("decode geocoder response: %w", err)
	}
	if data.DistanceKm < 0 || math.IsNaN(data.DistanceKm) || math.IsInf(data.DistanceKm, 0) {
		return 0, fmt.Errorf("geocoder returned invalid distance %v", data.DistanceKm)
	}
	return math.Round(data.DistanceKm*100) / 100, nil
}

func formatAddress(a model.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, strings.TrimSpace(a.PostalCode + " " + a.City)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func cacheKey(a model.Address) string {
	return normalize(a.Street) + "|" + strings.TrimSpace(a.PostalCode) + "|" + normalize(a.City)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
