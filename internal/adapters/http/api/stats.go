package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler reports service statistics together with the state of the
// HTTP layer itself.
type StatsHandler struct {
	provider StatsProvider
	limiter  *RateLimiter
	since    time.Time
}

// NewStatsHandler creates a new stats handler. limiter may be nil.
func NewStatsHandler(provider StatsProvider, limiter *RateLimiter) *StatsHandler {
	return &StatsHandler{provider: provider, limiter: limiter, since: time.Now()}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	out := map[string]interface{}{}
	if h.provider != nil {
		maps.Copy(out, h.provider.GetStats())
	}

	httpStats := map[string]interface{}{
		"uptimeSeconds": int64(time.Since(h.since).Seconds()),
		"rateLimited":   h.limiter != nil,
	}
	if h.limiter != nil {
		httpStats["trackedClients"] = h.limiter.Len()
	}
	out["http"] = httpStats

	writeJSON(w, http.StatusOK, out)
}
