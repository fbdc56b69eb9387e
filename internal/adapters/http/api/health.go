// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/natal/pkg/metrics"
)

// HealthHandler handles liveness, readiness and metrics requests.
type HealthHandler struct {
	stats   StatsProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler. Readiness is read from the
// "started" stat of stats.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{
		stats:   stats,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests by serving the Prometheus
// metrics of the process registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// HandleReady handles GET /readyz requests.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.stats != nil {
		if started, _ := h.stats.GetStats()["started"].(bool); !started {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
