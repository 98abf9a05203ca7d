package gateway

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/authbridge"
	"github.com/thefixer3x/onasis-gateway-sub003/discovery"
)

// ManifestHandler serves GET / — a service manifest with adapter counts and
// base URLs (spec.md section 6).
type ManifestHandler struct {
	Registry    *adapter.Registry
	VersionInfo VersionInfo
	BaseURLs    map[string]string
}

func (h *ManifestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats := h.Registry.GetStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"name":     h.VersionInfo.Name,
		"version":  h.VersionInfo.Version,
		"adapters": stats,
		"baseUrls": h.BaseURLs,
	})
}

// HealthHandler serves GET /health — aggregated adapter health via the
// discovery layer's cached health probe.
type HealthHandler struct {
	Discovery *discovery.Layer
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	results := h.Discovery.Health(r.Context())
	status := http.StatusOK
	for _, res := range results {
		if !res.Healthy {
			status = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, status, map[string]any{"adapters": results})
}

// RoutePolicyHandler serves GET /api/v1/gateway/route-policy.
func RoutePolicyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, authbridge.DefaultRoutePolicy())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
