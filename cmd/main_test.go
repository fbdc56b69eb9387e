package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/natal/internal/config"
	"github.com/okian/natal/pkg/metrics"
)

const birthBody = `{"y":1990,"m":6,"d":15,"hh":12,"mm":30,"tzOffsetHours":2,"lat":52.52,"lon":13.405,"name":"Ada"}`

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		_ = os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range kv {
			_ = os.Unsetenv(k)
		}
	})
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			setEnv(t, map[string]string{
				"NATAL_ADDR":           ":8080",
				"NATAL_BATCH_WORKERS":  "4",
				"NATAL_MAX_BATCH_SIZE": "20",
				"NATAL_HOUSE_SYSTEM":   "o",
			})

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BatchWorkers, convey.ShouldEqual, 4)
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When an unknown store backend is configured", func() {
			setEnv(t, map[string]string{"NATAL_STORE_BACKEND": "cassandra"})

			convey.Convey("Then loading fails", func() {
				_, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager()
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestBuildService(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.EphemerisPath = t.TempDir()

		convey.Convey("When the service is built and started", func() {
			svc, err := buildService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then stats reflect the configuration", func() {
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldEqual, true)
				convey.So(stats["geocoder"], convey.ShouldEqual, true)
				convey.So(stats["maxBatchSize"], convey.ShouldEqual, cfg.MaxBatchSize)
				convey.So(stats["ephemerisMode"], convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When the file backend points at a usable directory", func() {
			cfg.StoreBackend = config.StoreFile
			cfg.StoreDir = t.TempDir()

			svc, err := buildService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc, convey.ShouldNotBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			svc.Stop()
		})

		convey.Convey("When the geocoder URL is blank", func() {
			cfg.GeocodeURL = ""

			svc, err := buildService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then geocoding is reported as disabled", func() {
				convey.So(svc.GetStats()["geocoder"], convey.ShouldEqual, false)
			})
		})
	})
}

func TestHandlerEndToEnd(t *testing.T) {
	convey.Convey("Given a started service behind the full handler", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg := config.New()
		cfg.EphemerisPath = t.TempDir()
		cfg.GeocodeURL = ""

		svc, err := buildService(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler, err := newHandler(ctx, cfg, svc)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When a chart is created", func() {
			req := httptest.NewRequest(http.MethodPost, "/charts", strings.NewReader(birthBody))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
			var created map[string]any
			convey.So(json.Unmarshal(rec.Body.Bytes(), &created), convey.ShouldBeNil)
			id, _ := created["id"].(string)
			convey.So(id, convey.ShouldNotBeEmpty)
			convey.So(rec.Header().Get("Location"), convey.ShouldEqual, "/charts/"+id)
			convey.So(created["profile"], convey.ShouldNotBeNil)
			convey.So(created["brief"], convey.ShouldNotBeNil)

			convey.Convey("Then it can be read back by id", func() {
				get := httptest.NewRequest(http.MethodGet, "/charts/"+id, nil)
				getRec := httptest.NewRecorder()
				handler.ServeHTTP(getRec, get)

				convey.So(getRec.Code, convey.ShouldEqual, http.StatusOK)
				var fetched map[string]any
				convey.So(json.Unmarshal(getRec.Body.Bytes(), &fetched), convey.ShouldBeNil)
				convey.So(fetched["id"], convey.ShouldEqual, id)
				convey.So(fetched["createdAt"], convey.ShouldEqual, created["createdAt"])
			})
		})

		convey.Convey("When readiness is probed", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When the docs are requested", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "openapi: 3.0.3")
		})

		convey.Convey("When geocoding is disabled", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geocode?q=Berlin", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}
