// Package gateway is the composition root: it builds the router, wires the
// middleware chain, and mounts JSON-RPC, SSE, proxy, and catalog routes onto
// an httpserver.Server (spec.md 4.6).
package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/authbridge"
	"github.com/thefixer3x/onasis-gateway-sub003/catalog"
	"github.com/thefixer3x/onasis-gateway-sub003/discovery"
	"github.com/thefixer3x/onasis-gateway-sub003/httpserver"
)

// Config wires every component the gateway's routes delegate to.
type Config struct {
	Registry  *adapter.Registry
	Discovery *discovery.Layer
	LazyMode  bool
	Auth      *authbridge.Bridge
	Version   VersionInfo

	CORSPolicy CORSPolicy

	SupabaseBaseURL string
	AIPrimaryURL    string
	AIFallbackURL   string
	ServiceBaseURLs map[string]string
	APIServices     []catalog.APIService

	Logger zerolog.Logger

	// PprofUsername/PprofPassword gate /debug/pprof behind HTTP basic auth.
	// Leaving either empty disables the pprof mount entirely — profiling
	// endpoints are never exposed unopted.
	PprofUsername string
	PprofPassword string
}

// rateLimitByPrefix dispatches /mcp to its own higher-budget limiter and every
// other path to the default /api/* limiter (spec.md 4.6 step 4: "/api/* at 100
// req / 15 min; /mcp at 1,000 req / 15 min").
func rateLimitByPrefix(mcpLimiter, apiLimiter httpserver.Middleware) httpserver.Middleware {
	return func(next http.Handler) http.Handler {
		mcpHandler := mcpLimiter(next)
		apiHandler := apiLimiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/mcp" {
				mcpHandler.ServeHTTP(w, r)
				return
			}
			apiHandler.ServeHTTP(w, r)
		})
	}
}

// boundedTimeout applies httpserver.Timeout to every request except the
// long-lived SSE stream on GET /mcp, which never completes within a fixed
// deadline by design.
func boundedTimeout(timeout time.Duration) httpserver.Middleware {
	timed := httpserver.Timeout(timeout)
	return func(next http.Handler) http.Handler {
		timedNext := timed(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && r.URL.Path == "/mcp" {
				next.ServeHTTP(w, r)
				return
			}
			timedNext.ServeHTTP(w, r)
		})
	}
}

// perWindowLimit converts a "requests per window" budget into a
// golang.org/x/time/rate.Limit (events per second), matching the teacher's
// RateLimitConfig shape (httpserver/middleware_ratelimit.go).
func perWindowLimit(requests int, window time.Duration) rate.Limit {
	return rate.Limit(float64(requests) / window.Seconds())
}

// NewRouter builds the gorilla/mux router exposing every route from
// spec.md section 6, wrapped in the deterministic middleware chain from
// spec.md 4.6.
func NewRouter(cfg Config) http.Handler {
	router := mux.NewRouter()

	rpc := &RPCHandler{Registry: cfg.Registry, Discovery: cfg.Discovery, LazyMode: cfg.LazyMode, VersionInfo: cfg.Version}
	router.Handle("/mcp", rpc).Methods(http.MethodPost)
	router.HandleFunc("/mcp", SSEHandler).Methods(http.MethodGet)

	router.Handle("/", &ManifestHandler{Registry: cfg.Registry, VersionInfo: cfg.Version, BaseURLs: cfg.ServiceBaseURLs})
	router.Handle("/health", &HealthHandler{Discovery: cfg.Discovery})
	router.HandleFunc("/api/v1/gateway/route-policy", RoutePolicyHandler)

	services := &ServicesHandler{Services: cfg.APIServices}
	router.HandleFunc("/api/services", services.List).Methods(http.MethodGet)
	router.HandleFunc("/api/services/{name}", services.Get).Methods(http.MethodGet)
	router.PathPrefix("/api/services/{name}/{rest:.*}").HandlerFunc(services.Proxy)

	proxy := &EdgeFunctionProxy{BaseURL: cfg.SupabaseBaseURL}
	router.Handle("/functions/v1/{name}", proxy)
	router.Handle("/api/v1/functions/v1/{name}", proxy)

	aiChat := &AIChatRouter{PrimaryURL: cfg.AIPrimaryURL, FallbackURL: cfg.AIFallbackURL}
	router.Handle("/api/v1/ai-chat", aiChat).Methods(http.MethodPost)

	router.Handle("/metrics", httpserver.RateLimit(httpserver.RateLimitConfig{
		Limit:   perWindowLimit(60, time.Minute),
		Burst:   10,
		KeyFunc: httpserver.KeyFuncByIP(),
	})(httpserver.PrometheusHandler()))

	if cfg.PprofUsername != "" && cfg.PprofPassword != "" {
		router.PathPrefix("/debug/pprof/").Handler(httpserver.RateLimit(httpserver.RateLimitConfig{
			Limit:   perWindowLimit(30, time.Minute),
			Burst:   5,
			KeyFunc: httpserver.KeyFuncByIP(),
		})(httpserver.PprofHandler(httpserver.PprofConfig{
			EnableAuth: true,
			Username:   cfg.PprofUsername,
			Password:   cfg.PprofPassword,
		})))
	}

	mcpLimiter := httpserver.RateLimit(httpserver.RateLimitConfig{
		Limit:   perWindowLimit(1000, 15*time.Minute),
		Burst:   1000,
		KeyFunc: RateLimitBucketKey,
	})
	apiLimiter := httpserver.RateLimit(httpserver.RateLimitConfig{
		Limit:   perWindowLimit(100, 15*time.Minute),
		Burst:   100,
		KeyFunc: RateLimitBucketKey,
	})

	tracingCfg := httpserver.DefaultTracingConfig()
	tracingCfg.SkipPaths = []string{"/metrics", "/health"}

	chain := httpserver.Chain(
		DotfileBlock(),
		httpserver.RequestID(),
		httpserver.Tracing(tracingCfg),
		CORS(cfg.CORSPolicy),
		rateLimitByPrefix(mcpLimiter, apiLimiter),
		boundedTimeout(30 * time.Second),
		httpserver.Logger(httpserver.LoggerConfig{Logger: cfg.Logger}),
	)

	return chain(router)
}
