// Package authbridge implements the Auth Bridge & Policy component: bearer
// verification against an external identity service, never validated
// locally (spec.md 4.7).
package authbridge

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// VerifyResult is verifyAuth's success shape.
type VerifyResult struct {
	OK      bool   `json:"ok"`
	User    string `json:"user,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	Method  string `json:"method,omitempty"`
}

// Bridge holds the configuration needed to call the external auth service.
type Bridge struct {
	httpClient   *http.Client
	baseURL      string
	timeout      time.Duration
	monitorToken string
	monitorOps   map[string]bool
}

// Config configures a Bridge.
type Config struct {
	HTTPClient   *http.Client
	BaseURL      string
	Timeout      time.Duration // default 8s per spec.md 5 "Cancellation"
	MonitorToken string
	// MonitorOps lists operation names the shared-secret monitor token may
	// bypass remote verification for (spec.md 4.7: "only for specific
	// operational endpoints").
	MonitorOps []string
}

// New builds a Bridge.
func New(cfg Config) *Bridge {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	ops := make(map[string]bool, len(cfg.MonitorOps))
	for _, op := range cfg.MonitorOps {
		ops[op] = true
	}

	return &Bridge{
		httpClient:   client,
		baseURL:      cfg.BaseURL,
		timeout:      timeout,
		monitorToken: cfg.MonitorToken,
		monitorOps:   ops,
	}
}

// verifyRequestBody is what /v1/auth/verify expects.
type verifyRequestBody struct {
	Token        string `json:"token"`
	RequireAdmin bool   `json:"requireAdmin"`
}

type verifyResponseBody struct {
	OK      bool   `json:"ok"`
	User    string `json:"user"`
	IsAdmin bool   `json:"isAdmin"`
}

// VerifyAuth extracts the bearer from req, and — unless operation matches a
// monitor-token bypass — forwards it to the configured auth service's
// /v1/auth/verify. Timeouts never pass; they surface as
// AUTH_GATEWAY_UNAVAILABLE (spec.md 4.7).
func (b *Bridge) VerifyAuth(ctx context.Context, req *http.Request, requireAdmin bool, operation string) (*VerifyResult, error) {
	if operation != "" && b.monitorOps[operation] {
		if bearer := extractBearer(req); bearer != "" && b.monitorToken != "" && bearer == b.monitorToken {
			return &VerifyResult{OK: true, User: "monitor", IsAdmin: true, Method: "monitor-token"}, nil
		}
	}

	bearer := extractBearer(req)
	if bearer == "" {
		return nil, gwerrors.Unauthorized("missing bearer token")
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	reqBody, err := json.Marshal(verifyRequestBody{Token: bearer, RequireAdmin: requireAdmin})
	if err != nil {
		return nil, gwerrors.Internal(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/auth/verify", strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, gwerrors.Internal(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Msg("auth gateway unreachable")
		return nil, gwerrors.AuthGatewayUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, gwerrors.Unauthorized("credential rejected by auth service")
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, gwerrors.Forbidden("admin privileges required")
	}
	if resp.StatusCode >= 500 {
		return nil, gwerrors.AuthGatewayUnavailable(nil)
	}

	var body verifyResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, gwerrors.Internal(err)
	}

	if !body.OK {
		return nil, gwerrors.Unauthorized("credential rejected by auth service")
	}
	if requireAdmin && !body.IsAdmin {
		return nil, gwerrors.Forbidden("admin privileges required")
	}

	return &VerifyResult{OK: true, User: body.User, IsAdmin: body.IsAdmin, Method: "bearer"}, nil
}

func extractBearer(req *http.Request) string {
	header := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimPrefix(header, prefix)
	}
	return ""
}

// RoutePolicy is the document published at GET /api/v1/gateway/route-policy
// (spec.md 4.7 "Policy contract").
type RoutePolicy struct {
	Message      string   `json:"message"`
	ProxyRoutes  []string `json:"acceptedProxyRoutes"`
	CentralEntry string   `json:"centralEntryPoint"`
}

// DefaultRoutePolicy is the route-policy document this gateway publishes.
func DefaultRoutePolicy() RoutePolicy {
	return RoutePolicy{
		Message:      "all client traffic must enter via the central gateway",
		CentralEntry: "/mcp",
		ProxyRoutes: []string{
			"/api/services/:name",
			"/api/services/:name/*",
			"/(api/v1/)?functions/v1/:name",
			"/api/v1/ai-chat",
		},
	}
}
