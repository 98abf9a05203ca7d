// Package chi provides a Chi router front-end for the Gateway Core's
// transport-agnostic http.Handler (SPEC_FULL.md section 10: "pluggable
// router front-ends the Gateway Core's net/http.Handler can be mounted
// behind"). Unlike the gin/echo/fiber adapters, Chi's middleware signature
// (func(http.Handler) http.Handler) already matches httpserver.Middleware
// exactly, so every middleware in this package and its stdlib-compatible
// counterparts can be used directly with chi.Router.Use — no wrapping
// required.
package chi

import (
	"net/http"

	chilib "github.com/go-chi/chi/v5"

	"github.com/thefixer3x/onasis-gateway-sub003/httpserver"
)

// Mount attaches handler (typically the result of gateway.NewRouter) onto
// router at prefix, letting a deployment front the Gateway Core with a Chi
// router that also serves its own routes (e.g. a Chi-native admin API
// alongside the gateway's REST/JSON-RPC surface).
func Mount(router chilib.Router, prefix string, handler http.Handler) {
	router.Mount(prefix, handler)
}

// Use installs every httpserver.Middleware in the chain on router, in
// order. Because the two middleware signatures are identical, no adapter
// function is needed beyond this convenience wrapper.
func Use(router chilib.Router, middlewares ...httpserver.Middleware) {
	for _, m := range middlewares {
		router.Use(func(next http.Handler) http.Handler {
			return m(next)
		})
	}
}

// RegisterHealth registers the teacher's standard liveness/readiness
// endpoints on a Chi router, mirroring the gin/echo adapters' RegisterHealth.
func RegisterHealth(router chilib.Router, h *httpserver.HealthHandler) {
	router.Get("/ping", h.PingHandler().ServeHTTP)
	router.Get("/livez", h.LiveHandler().ServeHTTP)
	router.Get("/readyz", h.ReadyHandler().ServeHTTP)
}

// RegisterPrometheus registers the Prometheus metrics endpoint at path
// (default "/metrics" when empty).
func RegisterPrometheus(router chilib.Router, path string) {
	if path == "" {
		path = "/metrics"
	}
	router.Get(path, httpserver.PrometheusHandler().ServeHTTP)
}
