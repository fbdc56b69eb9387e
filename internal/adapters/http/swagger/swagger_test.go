package swagger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		convey.Convey("When registering the swagger handler", func() {
			convey.So(Register(ctx, mux), convey.ShouldBeNil)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "openapi: 3.0.3")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "/charts/{id}:")
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, DefaultRedocURL)
			})
		})

		convey.Convey("When a local ReDoc bundle is used", func() {
			convey.So(RegisterWithRedoc(mux, "/static/redoc.js"), convey.ShouldBeNil)
			req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `src="/static/redoc.js"`)
		})
	})
}

func TestOpenAPIDocumentsEveryRoute(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		doc := string(OpenAPI)

		for _, path := range []string{"/charts:", "/charts/{id}:", "/charts/batch:", "/profile:", "/geocode:", "/healthz:", "/readyz:", "/stats:"} {
			convey.So(doc, convey.ShouldContainSubstring, "\n  "+path+"\n")
		}
		convey.So(doc, convey.ShouldContainSubstring, "Idempotency-Key")
		convey.So(doc, convey.ShouldContainSubstring, "house_unresolved")
	})
}

func TestSwaggerHandlerWithNilMux(t *testing.T) {
	convey.Convey("Given a nil mux", t, func() {
		err := Register(context.Background(), nil)
		convey.So(errors.Is(err, ErrNilMux), convey.ShouldBeTrue)
	})
}
