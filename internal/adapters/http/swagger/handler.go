// Package swagger serves the OpenAPI document and a ReDoc viewer for it.
package swagger

import (
	"context"
	"errors"
	"net/http"
)

// Error constants.
var (
	ErrNilMux = errors.New("swagger: nil mux")
)

// DefaultRedocURL is the ReDoc bundle the viewer page loads.
const DefaultRedocURL = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// Register attaches the API docs routes to mux.
// Routes:
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) error {
	return RegisterWithRedoc(mux, DefaultRedocURL)
}

// RegisterWithRedoc is Register with a custom ReDoc bundle URL, for hosts
// that serve it locally.
func RegisterWithRedoc(mux *http.ServeMux, redocURL string) error {
	if mux == nil {
		return ErrNilMux
	}
	page := []byte(indexHTML(redocURL))

	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
	return nil
}

func indexHTML(redocURL string) string {
	return `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Natal API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + redocURL + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
}
