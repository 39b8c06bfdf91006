// Package geocode wraps the external reverse-geocoding HTTP service.
// The service is a courtesy-rate public API: the client identifies
// itself with a User-Agent, bounds every call with a timeout, caches
// results for the session so repeated lookups of the same point cost
// one network call, and trips a circuit breaker when the upstream is
// misbehaving.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/motoshop/directory-api/pkg/circuitbreaker"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// Address is the subset of the upstream address block this service
// cares about. Missing fields stay empty; callers treat them as unset.
type Address struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	City        string `json:"city"`
	State       string `json:"state"`
}

type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     *gocache.Cache
	cb        *circuitbreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		cache:     gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "reverse-geocoder",
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     time.Minute,
		}),
	}
}

// Reverse resolves coordinates to an address block. Results are cached
// on coordinates rounded to ~100m so a session hammering the same spot
// produces a single upstream call.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Address, error) {
	key := fmt.Sprintf("%.3f,%.3f", lat, lon)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Address), nil
	}

	var addr *Address
	err := c.cb.Execute(func() error {
		var reqErr error
		addr, reqErr = c.reverse(ctx, lat, lon)
		return reqErr
	})
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, addr)
	return addr, nil
}

func (c *Client) reverse(ctx context.Context, lat, lon float64) (*Address, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}

	addr := body.Address
	addr.CountryCode = strings.ToUpper(addr.CountryCode)
	return &addr, nil
}
