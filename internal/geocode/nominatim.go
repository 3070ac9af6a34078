package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/geo"
	"github.com/ranyal-tech/dispatch-frontend/pkg/cache"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// Resolver reverse-geocodes coordinates to display addresses via a
// Nominatim-compatible endpoint. Strictly best-effort: every failure is
// swallowed and the raw coordinate string is shown instead.
type Resolver struct {
	baseURL string
	http    *http.Client
	cache   cache.Store
	ttl     time.Duration
	enabled bool
	logger  *logger.Logger
}

// Config holds resolver configuration
type Config struct {
	Enabled  bool
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// New creates a resolver backed by the given cache store.
func New(cfg Config, store cache.Store, log *logger.Logger) *Resolver {
	return &Resolver{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   store,
		ttl:     cfg.CacheTTL,
		enabled: cfg.Enabled,
		logger:  log,
	}
}

// Reverse returns a display address for the point, or the formatted raw
// coordinate when resolution is disabled, cached-missing and failing, or the
// response is unusable.
func (r *Resolver) Reverse(ctx context.Context, p geo.Point) string {
	fallback := p.String()
	if !r.enabled || p.IsZero() {
		return fallback
	}

	key := fmt.Sprintf("geocode:%.4f:%.4f", p.Lat, p.Lng)
	if cached, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		return cached
	}

	url := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%f&lon=%f", r.baseURL, p.Lat, p.Lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fallback
	}
	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.Debug("Reverse geocode failed", logger.Err(err))
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var out struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.DisplayName == "" {
		return fallback
	}

	if err := r.cache.Set(ctx, key, out.DisplayName, r.ttl); err != nil {
		r.logger.Debug("Geocode cache write failed", logger.Err(err))
	}
	return out.DisplayName
}
