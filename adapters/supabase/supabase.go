// Package supabase implements the representative edge-function adapter: its
// tool list is derived from remote route-description documents rather than
// hardcoded (spec.md 4.8).
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
	"github.com/thefixer3x/onasis-gateway-sub003/httpclient"
)

// DescriptorSource fetches the current route-description document. In
// production this is an HTTP GET against a documentation endpoint; tests
// supply a function returning a fixed string.
type DescriptorSource func(ctx context.Context) (string, error)

// Config configures an Adapter.
type Config struct {
	ID          string
	BaseURL     string
	Source      DescriptorSource
	CacheTTL    time.Duration // default 5 minutes
	HTTPClient  *http.Client  // for callTool; defaults to http.DefaultClient

	// HealthProbe must be constructed with httpclient.WithBaseURL(BaseURL);
	// probeHealth resolves against it with a bare "/".
	HealthProbe *httpclient.Client
}

// Adapter is the Supabase/Edge-Function adapter. Its tool set is rebuilt
// from Source whenever the cache TTL elapses.
type Adapter struct {
	*adapter.BaseAdapter

	id         string
	baseURL    string
	source     DescriptorSource
	cacheTTL   time.Duration
	httpClient *http.Client

	mu          sync.Mutex
	routes      map[string]RouteDescriptor
	lastRefresh time.Time
}

// New builds a Supabase adapter. Initialize performs the first descriptor
// fetch.
func New(cfg Config) *Adapter {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	base := adapter.NewBaseAdapter(cfg.ID, cfg.ID, "v1", "edge-function")
	a := &Adapter{
		BaseAdapter: base,
		id:          cfg.ID,
		baseURL:     cfg.BaseURL,
		source:      cfg.Source,
		cacheTTL:    ttl,
		httpClient:  client,
		routes:      make(map[string]RouteDescriptor),
	}

	if cfg.HealthProbe != nil {
		base.SetHealthProbe(func(ctx context.Context) adapter.HealthStatus {
			return a.probeHealth(ctx, cfg.HealthProbe)
		})
	}
	return a
}

func (a *Adapter) Initialize(ctx context.Context) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}
	a.BaseAdapter.MarkReady()
	return nil
}

func (a *Adapter) refresh(ctx context.Context) error {
	doc, err := a.source(ctx)
	if err != nil {
		return gwerrors.Upstream(0, "failed to fetch route descriptions", err)
	}

	descriptors := ParseRouteDescriptions(doc)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.BaseAdapter.ResetTools()
	a.routes = make(map[string]RouteDescriptor, len(descriptors))
	for _, d := range descriptors {
		a.routes[d.Slug] = d
		tool := adapter.Tool{Name: d.Slug, Description: d.Description, InputSchema: d.InputSchema}
		a.BaseAdapter.RegisterTool(tool, a.makeHandler(d.Slug))
	}
	a.lastRefresh = time.Now()
	return nil
}

func (a *Adapter) ensureFresh(ctx context.Context) {
	a.mu.Lock()
	stale := time.Since(a.lastRefresh) > a.cacheTTL
	a.mu.Unlock()
	if stale {
		_ = a.refresh(ctx)
	}
}

// makeHandler closes over slug so RegisterTool's ToolHandler signature is
// satisfied while still routing to the same callTool logic for every tool.
func (a *Adapter) makeHandler(slug string) adapter.ToolHandler {
	return func(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
		return a.callTool(ctx, slug, args, rc)
	}
}

// CallTool overrides BaseAdapter's dispatch so a stale tool cache still
// triggers a refresh before reporting FUNCTION_NOT_FOUND.
func (a *Adapter) CallTool(ctx context.Context, name string, args map[string]any, rc *adapter.RequestContext) (any, error) {
	a.ensureFresh(ctx)

	a.mu.Lock()
	_, known := a.routes[name]
	a.mu.Unlock()
	if !known {
		return nil, gwerrors.FunctionNotFound(name)
	}
	return a.callTool(ctx, name, args, rc)
}

func (a *Adapter) callTool(ctx context.Context, slug string, args map[string]any, rc *adapter.RequestContext) (any, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, gwerrors.Internal(err)
	}

	url := fmt.Sprintf("%s/functions/v1/%s", a.baseURL, slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, gwerrors.Internal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer := rc.Header("Authorization"); bearer != "" {
		req.Header.Set("Authorization", bearer)
	} else if rc.Authorization != "" {
		req.Header.Set("Authorization", "Bearer "+rc.Authorization)
	}
	if apikey := rc.Header("Apikey"); apikey != "" {
		req.Header.Set("apikey", apikey)
	} else if rc.APIKey != "" {
		req.Header.Set("apikey", rc.APIKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, gwerrors.Upstream(0, "edge function unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gwerrors.Internal(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, gwerrors.Upstream(resp.StatusCode, fmt.Sprintf("edge function %q returned %d", slug, resp.StatusCode), nil)
	}

	var result any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return string(respBody), nil
		}
	}
	return result, nil
}

// probeHealth issues a read-only GET against the base URL via the adaptive
// hedge-enabled client, since a health probe is idempotent and safe to
// duplicate under the adaptive hedging contract (SPEC_FULL.md section 11).
func (a *Adapter) probeHealth(ctx context.Context, client *httpclient.Client) adapter.HealthStatus {
	resp, err := client.Request("supabase-health").
		AdaptiveHedge(httpclient.DefaultAdaptiveHedgeConfig()).
		Get(ctx, "/")
	if err != nil {
		return adapter.HealthStatus{Healthy: false, Detail: err.Error()}
	}
	if resp.StatusCode >= 500 {
		return adapter.HealthStatus{Healthy: false, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return adapter.HealthStatus{Healthy: true}
}
