package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/natal/internal/adapters/geocode"
	"github.com/okian/natal/internal/adapters/http/api"
	"github.com/okian/natal/internal/adapters/repository"
	service "github.com/okian/natal/internal/app"
	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/internal/domain/chart"
	"github.com/okian/natal/internal/domain/model"
	"github.com/okian/natal/internal/domain/scoring"
)

const knownID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

// mockDeps records calls and returns canned results.
type mockDeps struct {
	mu sync.Mutex

	computeErr error
	batchErr   error
	geoErr     error
	keys       map[string]string
	lastInput  astro.BirthInput
	lastTrace  bool
	lastPlaced []astro.Placement
}

func newMockDeps() *mockDeps {
	return &mockDeps{keys: map[string]string{}}
}

func snapshotFor(in astro.BirthInput) model.Snapshot {
	ch := &chart.Chart{
		Input: in,
		Placements: []astro.Placement{
			{Body: astro.Sun, Sign: astro.Capricorn, House: 10},
			{Body: astro.ASC, Sign: astro.Aries, House: 1},
		},
	}
	return model.NewSnapshot(ch)
}

func (m *mockDeps) ComputeChartOnce(_ context.Context, key, fp string, in astro.BirthInput) (model.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastInput = in
	if m.computeErr != nil {
		return model.Snapshot{}, false, m.computeErr
	}
	if err := in.Validate(); err != nil {
		return model.Snapshot{}, false, err
	}
	snap := snapshotFor(in)
	if key == "" {
		return snap, false, nil
	}
	if prev, ok := m.keys[key]; ok {
		if prev != fp {
			return model.Snapshot{}, false, service.ErrKeyReused
		}
		return snap, true, nil
	}
	m.keys[key] = fp
	return snap, false, nil
}

func (m *mockDeps) GetChart(_ context.Context, id string) (model.Snapshot, error) {
	switch {
	case !model.ValidID(id):
		return model.Snapshot{}, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	case id != knownID:
		return model.Snapshot{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	snap := snapshotFor(astro.BirthInput{Year: 1990, Month: 1, Day: 15})
	snap.ID = knownID
	return snap, nil
}

func (m *mockDeps) ComputeBatch(_ context.Context, inputs []astro.BirthInput) ([]service.BatchItem, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([]service.BatchItem, len(inputs))
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			out[i] = service.BatchItem{Index: i, Err: err}
			continue
		}
		out[i] = service.BatchItem{Index: i, Snapshot: snapshotFor(in)}
	}
	return out, nil
}

func (m *mockDeps) ComputeProfile(_ context.Context, placements []astro.Placement, trace bool) (scoring.Profile, *scoring.Trace) {
	m.mu.Lock()
	m.lastTrace = trace
	m.lastPlaced = placements
	m.mu.Unlock()
	if trace {
		p, t := scoring.ComputeProfileWithTrace(placements)
		return p, &t
	}
	return scoring.ComputeProfile(placements), nil
}

func (m *mockDeps) Geocode(_ context.Context, q string) (geocode.Place, error) {
	if m.geoErr != nil {
		return geocode.Place{}, m.geoErr
	}
	return geocode.Place{Latitude: 31.23, Longitude: 121.47, DisplayName: q + ", China"}, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

const validChart = `{"y":1990,"m":1,"d":15,"hh":8,"mm":30,"tzOffsetHours":8,"lat":31.23,"lon":121.47,"name":"Ada","locationName":"Shanghai"}`

func do(mux http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) (code, message string) {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code, body.Message
}

func newMux(deps *mockDeps, opts ...api.ServerOption) *http.ServeMux {
	stats := &mockStatsProvider{stats: map[string]interface{}{"started": true, "snapshots": 3}}
	server := api.NewServer(deps, stats, opts...)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDeps())

		Convey("Then health serves metrics", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then readiness follows the service state", func() {
			w := do(mux, "GET", "/readyz", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			stopped := api.NewServer(newMockDeps(), &mockStatsProvider{stats: map[string]interface{}{"started": false}})
			m2 := http.NewServeMux()
			stopped.Register(context.Background(), m2)
			So(do(m2, "GET", "/readyz", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Then stats are returned as JSON", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"snapshots":3`)
			So(w.Body.String(), ShouldContainSubstring, `"rateLimited":false`)
		})

		Convey("Then unknown paths are not found", func() {
			So(do(mux, "GET", "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then wrong methods are rejected", func() {
			So(do(mux, "GET", "/charts", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestCharts(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)

		Convey("When creating a chart", func() {
			w := do(mux, "POST", "/charts", validChart)

			Convey("Then the snapshot is created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var snap model.Snapshot
				So(json.Unmarshal(w.Body.Bytes(), &snap), ShouldBeNil)
				So(w.Header().Get("Location"), ShouldEqual, "/charts/"+snap.ID)
				So(deps.lastInput.Hour, ShouldEqual, 8)
				So(deps.lastInput.LocationName, ShouldEqual, "Shanghai")
			})
		})

		Convey("When hour and offset are zero", func() {
			w := do(mux, "POST", "/charts", `{"y":2000,"m":1,"d":1,"hh":0,"mm":0,"tzOffsetHours":0,"lat":0,"lon":0}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("When a retry carries the same Idempotency-Key", func() {
			first := do(mux, "POST", "/charts", validChart, "Idempotency-Key", "abc")
			second := do(mux, "POST", "/charts", validChart, "Idempotency-Key", "abc")

			Convey("Then the second response is a replay", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Header().Get("Idempotent-Replayed"), ShouldEqual, "true")
			})

			Convey("And a different body under the key is rejected", func() {
				w := do(mux, "POST", "/charts", strings.Replace(validChart, "1990", "1991", 1), "Idempotency-Key", "abc")
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				code, _ := decodeError(w)
				So(code, ShouldEqual, "idempotency_key_reused")
			})
		})

		Convey("When required fields are missing", func() {
			w := do(mux, "POST", "/charts", `{"m":1,"d":15,"hh":8,"mm":0,"tzOffsetHours":8,"lat":31}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			code, msg := decodeError(w)
			So(code, ShouldEqual, "bad_request")
			So(msg, ShouldContainSubstring, "missing y")
			So(msg, ShouldContainSubstring, "missing lon")
		})

		Convey("When a field is out of range", func() {
			w := do(mux, "POST", "/charts", strings.Replace(validChart, `"m":1`, `"m":13`, 1))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			_, msg := decodeError(w)
			So(msg, ShouldContainSubstring, "m must be at most 12")
		})

		Convey("When the day does not exist in the month", func() {
			w := do(mux, "POST", "/charts", strings.Replace(validChart, `"m":1,"d":15`, `"m":2,"d":30`, 1))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is not JSON", func() {
			So(do(mux, "POST", "/charts", `{`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the ephemeris fails", func() {
			deps.computeErr = &chart.EphemerisError{Op: "position", Body: astro.Pluto, Err: errors.New("out of range")}
			w := do(mux, "POST", "/charts", validChart)

			Convey("Then a generic retry message is returned", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				code, msg := decodeError(w)
				So(code, ShouldEqual, "ephemeris_unavailable")
				So(msg, ShouldNotContainSubstring, "out of range")
			})
		})

		Convey("When storage fails", func() {
			deps.computeErr = fmt.Errorf("save snapshot: %w", repository.ErrBackend)
			w := do(mux, "POST", "/charts", validChart)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			_, msg := decodeError(w)
			So(msg, ShouldEqual, "internal error")
		})

		Convey("When the body is too large", func() {
			small := newMux(deps, api.WithMaxBodyBytes(16))
			So(do(small, "POST", "/charts", validChart).Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("When reading charts back", func() {
			So(do(mux, "GET", "/charts/"+knownID, "").Code, ShouldEqual, http.StatusOK)
			So(do(mux, "GET", "/charts/0b8a3f5e-1111-4c2d-9e8f-000000000000", "").Code, ShouldEqual, http.StatusNotFound)

			w := do(mux, "GET", "/charts/not-a-uuid", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			code, _ := decodeError(w)
			So(code, ShouldEqual, "invalid_id")
		})
	})
}

func TestBatch(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)

		Convey("When a batch mixes valid and invalid inputs", func() {
			bad := strings.Replace(validChart, `"d":15`, `"d":31,"m":4`, 1)
			bad = strings.Replace(bad, `"m":1,`, ``, 1)
			w := do(mux, "POST", "/charts/batch", `{"inputs":[`+validChart+`,`+bad+`]}`)

			Convey("Then each result stands alone", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Results []struct {
						Index   int    `json:"index"`
						ID      string `json:"id"`
						Summary *struct {
							Sun string `json:"sun"`
						} `json:"summary"`
						Error *struct {
							Code string `json:"code"`
						} `json:"error"`
					} `json:"results"`
					Succeeded int `json:"succeeded"`
					Failed    int `json:"failed"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Results, ShouldHaveLength, 2)
				So(resp.Results[0].ID, ShouldNotBeEmpty)
				So(resp.Results[0].Summary.Sun, ShouldEqual, "Capricorn")
				So(resp.Results[1].Index, ShouldEqual, 1)
				So(resp.Results[1].Error.Code, ShouldEqual, "bad_request")
				So(resp.Succeeded, ShouldEqual, 1)
				So(resp.Failed, ShouldEqual, 1)
			})
		})

		Convey("When the batch is empty", func() {
			So(do(mux, "POST", "/charts/batch", `{"inputs":[]}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the batch exceeds the limit", func() {
			deps.batchErr = fmt.Errorf("%w: 99 inputs, limit 50", service.ErrBatchTooLarge)
			So(do(mux, "POST", "/charts/batch", `{"inputs":[`+validChart+`]}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestProfile(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)
		body := `{"placements":[{"body":"Sun","sign":"capricorn","house":10},{"body":"Rising","sign":"Aries","house":0.4},{"body":"Saturn","sign":"Capricorn","house":17}]}`

		Convey("When scoring placements", func() {
			w := do(mux, "POST", "/profile", body)

			Convey("Then names are resolved and houses clamped", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastTrace, ShouldBeFalse)
				So(deps.lastPlaced[0].Sign, ShouldEqual, astro.Capricorn)
				So(deps.lastPlaced[1].Body, ShouldEqual, astro.ASC)
				So(deps.lastPlaced[1].House, ShouldEqual, astro.House(1))
				So(deps.lastPlaced[2].House, ShouldEqual, astro.House(12))
				So(w.Body.String(), ShouldNotContainSubstring, `"trace"`)
			})
		})

		Convey("When a body is listed twice", func() {
			dup := `{"placements":[{"body":"Sun","sign":"Leo","house":5},{"body":"Sun","sign":"Virgo","house":6}]}`
			So(do(mux, "POST", "/profile", dup).Code, ShouldEqual, http.StatusOK)

			Convey("Then the last entry is kept", func() {
				So(deps.lastPlaced, ShouldHaveLength, 1)
				So(deps.lastPlaced[0].Sign, ShouldEqual, astro.Virgo)
				So(deps.lastPlaced[0].House, ShouldEqual, astro.House(6))
			})
		})

		Convey("When a trace is requested", func() {
			w := do(mux, "POST", "/profile?trace=1", body)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastTrace, ShouldBeTrue)
			So(w.Body.String(), ShouldContainSubstring, `"archetypeBuckets"`)
		})

		Convey("When the trace flag is garbage", func() {
			So(do(mux, "POST", "/profile?trace=maybe", body).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a body is unknown", func() {
			w := do(mux, "POST", "/profile", `{"placements":[{"body":"Chiron","sign":"Aries","house":1}]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			_, msg := decodeError(w)
			So(msg, ShouldContainSubstring, "Chiron")
		})

		Convey("When placements are empty", func() {
			So(do(mux, "POST", "/profile", `{"placements":[]}`).Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestGeocode(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)

		Convey("When a place is found", func() {
			w := do(mux, "GET", "/geocode?q=Shanghai", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"displayName":"Shanghai, China"`)
		})

		Convey("When q is missing", func() {
			So(do(mux, "GET", "/geocode?q=%20", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When nothing matches", func() {
			deps.geoErr = fmt.Errorf("%w: %q", geocode.ErrNotFound, "Atlantis")
			So(do(mux, "GET", "/geocode?q=Atlantis", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the upstream is down", func() {
			deps.geoErr = fmt.Errorf("%w: 3 attempts", geocode.ErrUnavailable)
			So(do(mux, "GET", "/geocode?q=Paris", "").Code, ShouldEqual, http.StatusBadGateway)
		})

		Convey("When no geocoder is configured", func() {
			deps.geoErr = service.ErrGeocoderDisabled
			So(do(mux, "GET", "/geocode?q=Paris", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestRateLimiter(t *testing.T) {
	Convey("Given a server limited to a burst of two", t, func() {
		rl := api.NewRateLimiter(0.001, 2)
		mux := newMux(newMockDeps(), api.WithRateLimiter(rl))

		Convey("When one client sends three requests", func() {
			codes := make([]int, 0, 3)
			var last *httptest.ResponseRecorder
			for i := 0; i < 3; i++ {
				last = do(mux, "GET", "/geocode?q=Oslo", "")
				codes = append(codes, last.Code)
			}

			Convey("Then the third is throttled", func() {
				So(codes, ShouldResemble, []int{200, 200, 429})
				So(last.Header().Get("Retry-After"), ShouldNotBeEmpty)
				So(rl.Len(), ShouldEqual, 1)
			})

			Convey("And unthrottled endpoints still answer", func() {
				w := do(mux, "GET", "/stats", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"trackedClients":1`)
			})
		})
	})
}

func TestRecover(t *testing.T) {
	Convey("Given a panicking handler", t, func() {
		h := api.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
		w := do(h, "GET", "/", "")
		So(w.Code, ShouldEqual, http.StatusInternalServerError)
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := errors.New("unexpected EOF")

		Convey("Then WrapKind renders op, kind and cause", func() {
			err := api.WrapKind("api.create_chart", api.ErrBadRequest, cause)
			So(err.Error(), ShouldEqual, "api.create_chart: bad request: unexpected EOF")
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("Then NewKind has no cause", func() {
			err := api.NewKind("api.geocode", api.ErrRateLimited)
			So(err.Error(), ShouldEqual, "api.geocode: rate limited")
		})

		Convey("Then Wrap keeps nil as nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
			So(api.Wrap("op", cause).Error(), ShouldEqual, "op: unexpected EOF")
		})
	})
}
