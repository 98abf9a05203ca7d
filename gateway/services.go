package gateway

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/thefixer3x/onasis-gateway-sub003/catalog"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// ServicesHandler serves the API-service catalog and transparent proxy
// routes from spec.md section 6: GET /api/services, GET /api/services/:name,
// ALL /api/services/:name/*.
type ServicesHandler struct {
	Services   []catalog.APIService
	HTTPClient *http.Client

	indexOnce sync.Once
	byName    map[string]catalog.APIService
}

// index lazily builds the name lookup once, regardless of how many requests
// race to call it first — ServicesHandler is shared across every request.
func (h *ServicesHandler) index() map[string]catalog.APIService {
	h.indexOnce.Do(func() {
		h.byName = make(map[string]catalog.APIService, len(h.Services))
		for _, s := range h.Services {
			h.byName[s.Name] = s
		}
	})
	return h.byName
}

// List handles GET /api/services: the full index.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": h.Services})
}

// Get handles GET /api/services/:name: one service's catalog entry.
func (h *ServicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	svc, ok := h.index()[name]
	if !ok {
		writeGatewayError(w, gwerrors.ToolNotFound(name))
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Proxy handles ALL /api/services/:name/*: a transparent reverse proxy to
// the named service's BaseURL, preserving method, query string, and body.
func (h *ServicesHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	svc, ok := h.index()[name]
	if !ok {
		writeGatewayError(w, gwerrors.ToolNotFound(name))
		return
	}

	targetURL := strings.TrimRight(svc.BaseURL, "/") + "/" + strings.TrimLeft(vars["rest"], "/")
	if r.URL.RawQuery != "" {
		targetURL += "?" + r.URL.RawQuery
	}

	var body io.Reader = r.Body
	if r.Body == nil || r.Body == http.NoBody {
		body = nil
	}

	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, body)
	if err != nil {
		writeGatewayError(w, gwerrors.Internal(err))
		return
	}
	outReq.Header = r.Header.Clone()

	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(outReq)
	if err != nil {
		writeGatewayError(w, gwerrors.Upstream(0, "service "+name+" unreachable", err))
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func writeGatewayError(w http.ResponseWriter, err error) {
	ge, ok := gwerrors.As(err)
	if !ok {
		ge = gwerrors.Internal(err)
	}
	writeJSON(w, ge.Status, map[string]any{"error": map[string]any{"code": ge.Code, "message": ge.Message}})
}
