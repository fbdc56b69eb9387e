package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then defaults are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "natal")
				So(manager.subsystem, ShouldEqual, "service")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("charts"),
				WithHistogramBuckets([]float64{1.0, 0.1, 0.5, 0.5}),
				WithBatchBuckets([]float64{10, 1}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then they are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "charts")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.batchBuckets, ShouldResemble, []float64{1, 10})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})

			Convey("Then metric names carry the namespace", func() {
				manager.chartsComputed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_charts_charts_computed_total")
			})
		})

		Convey("When empty values are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithBatchBuckets([]float64{}),
				WithConstLabels(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "natal")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.batchBuckets, ShouldNotBeEmpty)
				So(manager.constLabels, ShouldBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording chart metrics", func() {
			before := testutil.ToFloat64(globalManager.chartsComputed)
			RecordChartComputed()
			RecordChartComputed()

			Convey("Then the counter advances", func() {
				So(testutil.ToFloat64(globalManager.chartsComputed), ShouldEqual, before+2)
			})

			Convey("And warnings are labelled by code", func() {
				w := globalManager.ephemerisWarnings.WithLabelValues("degraded_precision")
				was := testutil.ToFloat64(w)
				RecordEphemerisWarning("degraded_precision")
				So(testutil.ToFloat64(w), ShouldEqual, was+1)
			})

			Convey("And latency, errors and profiles do not panic", func() {
				So(func() {
					RecordChartLatency(3.2)
					RecordEphemerisError()
					RecordProfileComputed()
					RecordPitfall("RISK_OVERLOAD")
					RecordBatchSize(12)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store metrics", func() {
			RecordStoreOperation("memory", "save", "ok")
			UpdateSnapshotsStored(7)

			Convey("Then the values are visible", func() {
				So(testutil.ToFloat64(globalManager.storeOperations.WithLabelValues("memory", "save", "ok")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.snapshotsStored), ShouldEqual, 7)
			})

			Convey("And latency does not panic", func() {
				So(func() { RecordStoreLatency("postgres", "get", 1.5) }, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/charts", "POST", "201")
				RecordHTTPRequestDuration("/charts", "POST", "201", 12.5)
				RecordRateLimited("/charts")
				RecordIdempotencyHit()
				RecordErrorByEndpoint("/charts", "POST", "invalid_input")
				RecordErrorByComponent("ephemeris", "out_of_range")
			}, ShouldNotPanic)
		})

		Convey("When recording geocoder metrics", func() {
			RecordGeocodeRequest("ok")
			UpdateGeocodeBreakerState(2)

			Convey("Then the breaker gauge reflects the state", func() {
				So(testutil.ToFloat64(globalManager.geocodeBreakerState), ShouldEqual, 2)
			})
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		Convey("Then it is shared and gatherable", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
