package api

import (
	"net/http"
	"strings"

	"github.com/okian/natal/internal/adapters/geocode"
)

// GeocodeHandler handles place lookups.
type GeocodeHandler struct {
	deps Dependencies
}

// NewGeocodeHandler creates a new geocode handler.
func NewGeocodeHandler(deps Dependencies) *GeocodeHandler {
	return &GeocodeHandler{deps: deps}
}

// HandleGeocode handles GET /geocode?q= requests.
func (h *GeocodeHandler) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	const op = "api.geocode"
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		fail(w, r, op, WrapKind(op, ErrBadRequest, geocode.ErrEmptyQuery))
		return
	}
	place, err := h.deps.Geocode(r.Context(), q)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}
