// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/natal/internal/adapters/geocode"
	"github.com/okian/natal/internal/adapters/repository"
	service "github.com/okian/natal/internal/app"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/chart"
	"github.com/okian/natal/internal/domain/model"
	"github.com/okian/natal/internal/domain/scoring"
	"github.com/okian/natal/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ComputeChartOnce computes and stores a chart, replaying the earlier
	// snapshot when key was already used with the same body fingerprint.
	ComputeChartOnce(ctx context.Context, key, fingerprint string, in astro.BirthInput) (model.Snapshot, bool, error)
	GetChart(ctx context.Context, id string) (model.Snapshot, error)
	ComputeBatch(ctx context.Context, inputs []astro.BirthInput) ([]service.BatchItem, error)

	ComputeProfile(ctx context.Context, placements []astro.Placement, trace bool) (scoring.Profile, *scoring.Trace)

	Geocode(ctx context.Context, q string) (geocode.Place, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	chartsHandler  *ChartsHandler
	profileHandler *ProfileHandler
	geocodeHandler *GeocodeHandler

	limiter      *RateLimiter
	maxBodyBytes int64
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRateLimiter throttles the compute endpoints per client IP.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = rl
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{maxBodyBytes: 1 << 20}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler(statsProvider)
	s.statsHandler = NewStatsHandler(statsProvider, s.limiter)
	s.chartsHandler = NewChartsHandler(deps, s.maxBodyBytes)
	s.profileHandler = NewProfileHandler(deps, s.maxBodyBytes)
	s.geocodeHandler = NewGeocodeHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux. The rate limiter's cleanup
// loop runs until ctx is done.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	if s.limiter != nil {
		s.limiter.Start(ctx)
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /charts", MetricsMiddleware(s.limit(s.chartsHandler.HandleCreate, "charts"), "charts"))
	mux.HandleFunc("POST /charts/batch", MetricsMiddleware(s.limit(s.chartsHandler.HandleBatch, "charts_batch"), "charts_batch"))
	mux.HandleFunc("GET /charts/{id}", MetricsMiddleware(s.chartsHandler.HandleGet, "charts_get"))
	mux.HandleFunc("POST /profile", MetricsMiddleware(s.limit(s.profileHandler.HandleProfile, "profile"), "profile"))
	mux.HandleFunc("GET /geocode", MetricsMiddleware(s.limit(s.geocodeHandler.HandleGeocode, "geocode"), "geocode"))
}

func (s *Server) limit(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Middleware(next, endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads at most limit bytes of JSON into v and returns the raw
// body for fingerprinting.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, ErrTooLarge
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return raw, nil
}

// fail maps err to a status and a stable code and writes it. Server side
// failures are logged and reported with a generic message.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code, public := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("code", code),
			logger.Error(err),
		)
	}
	if public == "" {
		public = Wrap(op, err).Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: public})
}

// classify returns status, code and, for failures whose cause must not be
// echoed, a fixed message.
func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large", ""
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, astro.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, service.ErrBatchTooLarge),
		errors.Is(err, geocode.ErrEmptyQuery):
		return http.StatusBadRequest, "bad_request", ""
	case errors.Is(err, repository.ErrInvalidID):
		return http.StatusBadRequest, "invalid_id", ""
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found", ""
	case errors.Is(err, geocode.ErrNotFound):
		return http.StatusNotFound, "no_match", ""
	case errors.Is(err, service.ErrRequestInFlight):
		return http.StatusConflict, "in_flight", ""
	case errors.Is(err, service.ErrKeyReused):
		return http.StatusUnprocessableEntity, "idempotency_key_reused", ""
	case errors.Is(err, chart.ErrEphemeris):
		return http.StatusServiceUnavailable, "ephemeris_unavailable", "chart computation is temporarily unavailable, retry later"
	case errors.Is(err, geocode.ErrUnavailable), errors.Is(err, geocode.ErrUpstream):
		return http.StatusBadGateway, "geocoder_unavailable", "geocoder is temporarily unavailable, retry later"
	case errors.Is(err, service.ErrGeocoderDisabled), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "request timed out"
	}
	return http.StatusInternalServerError, "internal_error", "internal error"
}
