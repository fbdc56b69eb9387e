// Package geocode resolves place names to coordinates through a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/okian/natal/pkg/logger"
	"github.com/okian/natal/pkg/metrics"
)

const maxBody = 1 << 20

// Place is a resolved location.
type Place struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}

// Client queries the geocoder with retries behind a circuit breaker.
type Client struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	userAgent      string
	attempts       int
	backoff        time.Duration
	breakerTimeout time.Duration
	cb             *gobreaker.CircuitBreaker
}

// New creates a client for the search endpoint at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        baseURL,
		http:           &http.Client{},
		timeout:        5 * time.Second,
		userAgent:      "natal/1.0",
		attempts:       3,
		backoff:        250 * time.Millisecond,
		breakerTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "geocode",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateGeocodeBreakerState(int(to))
			logger.Get().Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
	return c
}

// Search returns the best match for q.
func (c *Client) Search(ctx context.Context, q string) (Place, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return Place{}, ErrEmptyQuery
	}

	var last error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		res, err := c.cb.Execute(func() (interface{}, error) {
			return c.fetch(ctx, q)
		})
		if err == nil {
			metrics.RecordGeocodeRequest("ok")
			return res.(Place), nil
		}
		switch {
		case errors.Is(err, ErrNotFound):
			metrics.RecordGeocodeRequest("not_found")
			return Place{}, err
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordGeocodeRequest("rejected")
			return Place{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		last = err

		if attempt < c.attempts {
			select {
			case <-ctx.Done():
				return Place{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}
	}
	metrics.RecordGeocodeRequest("error")
	return Place{}, fmt.Errorf("%w: %d attempts: %w", ErrUnavailable, c.attempts, last)
}

type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *Client) fetch(ctx context.Context, q string) (Place, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Place{}, fmt.Errorf("%w: base url: %w", ErrUpstream, err)
	}
	params := u.Query()
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Place{}, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var results []result
	if err := json.Unmarshal(body, &results); err != nil {
		return Place{}, fmt.Errorf("%w: non-JSON response: %w", ErrUpstream, err)
	}
	if len(results) == 0 {
		return Place{}, fmt.Errorf("%w: %q", ErrNotFound, q)
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return Place{}, fmt.Errorf("%w: bad coordinates %q,%q", ErrUpstream, results[0].Lat, results[0].Lon)
	}
	return Place{Latitude: lat, Longitude: lon, DisplayName: results[0].DisplayName}, nil
}

// State reports the breaker state: closed, half-open or open.
func (c *Client) State() string { return c.cb.State().String() }
