package api

import (
	"net/http"
	"strconv"
)

// ProfileHandler handles direct profile scoring requests.
type ProfileHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps Dependencies, maxBodyBytes int64) *ProfileHandler {
	return &ProfileHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleProfile handles POST /profile?trace=1 requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile"

	trace := false
	if v := r.URL.Query().Get("trace"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		trace = b
	}

	var req profileRequest
	if _, err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateRequest(req); err != nil {
		fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	placements, err := req.placements()
	if err != nil {
		fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}

	profile, tr := h.deps.ComputeProfile(r.Context(), placements, trace)
	writeJSON(w, http.StatusOK, profileResponse{Profile: profile, Trace: tr})
}
