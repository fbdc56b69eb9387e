package api

import (
	"net/http"
	"strings"

	"github.com/okian/natal/internal/adapters/idempotency"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/model"
)

// Request and response headers for idempotent creates.
const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKey    = 255
)

// ChartsHandler handles chart requests.
type ChartsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies, maxBodyBytes int64) *ChartsHandler {
	return &ChartsHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleCreate handles POST /charts requests.
func (h *ChartsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_chart"

	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if len(key) > maxIdempotencyKey {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var req chartRequest
	raw, err := decodeBody(w, r, h.maxBodyBytes, &req)
	if err != nil {
		fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateRequest(req); err != nil {
		fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}

	snap, replayed, err := h.deps.ComputeChartOnce(r.Context(), key, idempotency.Fingerprint(raw), req.birthInput())
	if err != nil {
		fail(w, r, op, err)
		return
	}

	w.Header().Set("Location", "/charts/"+snap.ID)
	if replayed {
		w.Header().Set(headerReplayed, "true")
		writeJSON(w, http.StatusOK, snap)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// HandleGet handles GET /charts/{id} requests.
func (h *ChartsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chart"
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	snap, err := h.deps.GetChart(r.Context(), id)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type batchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type batchResult struct {
	Index    int                    `json:"index"`
	ID       string                 `json:"id,omitempty"`
	Summary  *model.SnapshotSummary `json:"summary,omitempty"`
	Warnings int                    `json:"warnings,omitempty"`
	Error    *batchError            `json:"error,omitempty"`
}

type batchResponse struct {
	Results   []batchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// HandleBatch handles POST /charts/batch requests. Each input succeeds or
// fails on its own; results keep input order.
func (h *ChartsHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.batch_charts"

	var req batchRequest
	if _, err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateRequest(req); err != nil {
		fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}

	inputs := make([]astro.BirthInput, len(req.Inputs))
	for i, in := range req.Inputs {
		inputs[i] = in.birthInput()
	}
	items, err := h.deps.ComputeBatch(r.Context(), inputs)
	if err != nil {
		fail(w, r, op, err)
		return
	}

	resp := batchResponse{Results: make([]batchResult, len(items))}
	for i, it := range items {
		res := batchResult{Index: it.Index}
		if it.Err != nil {
			_, code, msg := classify(it.Err)
			if msg == "" {
				msg = it.Err.Error()
			}
			res.Error = &batchError{Code: code, Message: msg}
			resp.Failed++
		} else {
			sum := it.Snapshot.Summary()
			res.ID = it.Snapshot.ID
			res.Summary = &sum
			if it.Snapshot.Chart != nil {
				res.Warnings = len(it.Snapshot.Chart.Warnings)
			}
			resp.Succeeded++
		}
		resp.Results[i] = res
	}
	writeJSON(w, http.StatusOK, resp)
}
