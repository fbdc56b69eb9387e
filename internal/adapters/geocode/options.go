package geocode

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header Nominatim requires.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// WithAttempts sets the number of tries per lookup.
func WithAttempts(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.attempts = n
		}
	}
}

// WithBackoff sets the base delay between attempts; attempt i waits i*d.
func WithBackoff(d time.Duration) Option {
	return func(cl *Client) {
		if d >= 0 {
			cl.backoff = d
		}
	}
}

// WithBreakerTimeout sets how long the breaker stays open before probing.
func WithBreakerTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.breakerTimeout = d
		}
	}
}
