package loadtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/natal/internal/adapters/ephemeris"
	"github.com/okian/natal/internal/adapters/http/api"
	service "github.com/okian/natal/internal/app"
	"github.com/okian/natal/internal/domain/astro"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc := service.New(ephemeris.New(), service.WithBatchWorkers(2))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateInputs(t *testing.T) {
	Convey("Given the input generator", t, func() {
		ctx := context.Background()

		Convey("When the same seed is used twice", func() {
			a, err := generateInputs(ctx, 42, 50)
			So(err, ShouldBeNil)
			b, err := generateInputs(ctx, 42, 50)
			So(err, ShouldBeNil)

			Convey("Then the inputs are identical and valid", func() {
				So(a, ShouldResemble, b)
				for _, in := range a {
					So(in.Validate(), ShouldBeNil)
				}
			})
		})

		Convey("When a different seed is used", func() {
			a, _ := generateInputs(ctx, 1, 20)
			b, _ := generateInputs(ctx, 2, 20)
			So(a, ShouldNotResemble, b)
		})

		Convey("When the count is not positive", func() {
			_, err := generateInputs(ctx, 1, 0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDaysIn(t *testing.T) {
	Convey("Given month lengths", t, func() {
		So(daysIn(2000, 2), ShouldEqual, 29)
		So(daysIn(1900, 2), ShouldEqual, 28)
		So(daysIn(2024, 2), ShouldEqual, 29)
		So(daysIn(2023, 4), ShouldEqual, 30)
		So(daysIn(2023, 12), ShouldEqual, 31)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running chart service", t, func() {
		srv := newTestServer(t)
		out := filepath.Join(t.TempDir(), "inputs", "run.json")
		cfg := &Config{
			BaseURL:    srv.URL,
			Charts:     12,
			Workers:    4,
			Timeout:    10 * time.Second,
			Seed:       7,
			Verify:     3,
			OutputFile: out,
		}

		Convey("When a load run completes", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then every chart is created and verified", func() {
				So(err, ShouldBeNil)
				So(stats.ChartsGenerated, ShouldEqual, 12)
				So(stats.ChartsSubmitted, ShouldEqual, 12)
				So(stats.ChartsCreated, ShouldEqual, 12)
				So(stats.ChartsFailed, ShouldEqual, 0)
				So(stats.ReadsVerified, ShouldEqual, 3)
				So(stats.ReplaysVerified, ShouldEqual, 3)
				So(stats.Mismatches, ShouldEqual, 0)
			})

			Convey("And the inputs are written to the output file", func() {
				data, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				var saved []astro.BirthInput
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(len(saved), ShouldEqual, 12)
			})
		})
	})

	Convey("Given a service that is not ready", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := Run(context.Background(), &Config{BaseURL: srv.URL, Charts: 1, Workers: 1, Timeout: time.Second})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "readiness")
	})
}

func TestSameProfile(t *testing.T) {
	Convey("Given two snapshot replies", t, func() {
		var a, b snapshotReply
		a.Profile.CareerArchetype = "Builder"
		b.Profile.CareerArchetype = "Builder"

		So(sameProfile(a, b), ShouldBeNil)

		b.Profile.CareerArchetype = "Strategist"
		So(sameProfile(a, b), ShouldNotBeNil)
	})
}
