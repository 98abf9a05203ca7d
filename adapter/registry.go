package adapter

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// Registry holds every constructed adapter, keyed by adapter ID, and
// dispatches `adapterId:toolName` calls (spec.md 4.3).
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	ready    bool
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter. Registering the same ID twice replaces the
// previous entry and logs a warning (spec.md 4.3: "Duplicate ids replace
// with a warning").
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[a.ID()]; exists {
		log.Warn().Str("adapter_id", a.ID()).Msg("replacing adapter registered under duplicate id")
	}
	r.adapters[a.ID()] = a
}

// RegisterMock adds a mock adapter. Mock adapters are indistinguishable from
// real ones at the Registry's level — they satisfy the same Adapter
// interface and report Info().Mock == true — the "always ADAPTER_NOT_EXECUTABLE"
// behavior lives in the mock adapter's own CallTool implementation
// (adapters/mock), not in the Registry (spec.md 4.3).
func (r *Registry) RegisterMock(a Adapter) {
	r.Register(a)
}

// MarkReady flips the registry into the ready state. The Gateway Core calls
// this once every configured adapter has completed Initialize (spec.md 4.6
// Startup sequence).
func (r *Registry) MarkReady() {
	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()
}

// Ready reports whether the registry has completed its startup sequence.
func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Get returns the adapter registered under id, if any.
func (r *Registry) Get(id string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[id]
	return a, ok
}

// List returns every registered adapter's Info, sorted by nothing in
// particular — callers that need a stable order sort it themselves.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a.Info())
	}
	return out
}

// AllTools returns every tool across every adapter, each tagged with its
// registry-scoped ID ("${adapterId}:${toolName}"), for tools/list responses.
func (r *Registry) AllTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Tool
	for id, a := range r.adapters {
		for _, t := range a.ListTools() {
			out = append(out, Tool{
				Name:        t.ID(id),
				Description: t.Description,
				InputSchema: t.InputSchema,
			})
		}
	}
	return out
}

// SplitToolID splits "adapterId:toolName" on the first colon. It returns
// ok=false if toolID has no colon, which callers report as TOOL_NOT_FOUND
// rather than a malformed-input validation error (spec.md 4.3).
func SplitToolID(toolID string) (adapterID, toolName string, ok bool) {
	idx := strings.Index(toolID, ":")
	if idx < 0 {
		return "", "", false
	}
	return toolID[:idx], toolID[idx+1:], true
}

// CallTool resolves "adapterId:toolName", rejecting unready registries,
// malformed ids and unknown adapters before touching the adapter's own
// dispatch; an unknown tool name on a known adapter is reported by that
// adapter's CallTool (spec.md 4.3 error conditions: ADAPTER_REGISTRY_NOT_READY,
// TOOL_NOT_FOUND).
func (r *Registry) CallTool(ctx context.Context, toolID string, args map[string]any, rc *RequestContext) (any, error) {
	if !r.Ready() {
		return nil, gwerrors.RegistryNotReady()
	}

	adapterID, toolName, ok := SplitToolID(toolID)
	if !ok {
		return nil, gwerrors.ToolNotFound(toolID)
	}

	a, found := r.Get(adapterID)
	if !found {
		return nil, gwerrors.ToolNotFound(toolID)
	}

	return a.CallTool(ctx, toolName, args, rc)
}

// RegistryStats are the aggregate totals spec.md 4.3's getStats() returns.
type RegistryStats struct {
	Adapters int `json:"adapters"`
	Real     int `json:"real"`
	Mock     int `json:"mock"`
	Tools    int `json:"tools"`
}

// GetStats implements spec.md 4.3's getStats(): totals across every
// registered adapter, real and mock alike.
func (r *Registry) GetStats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{Adapters: len(r.adapters)}
	for _, a := range r.adapters {
		info := a.Info()
		if info.Mock {
			stats.Mock++
		} else {
			stats.Real++
		}
		stats.Tools += info.Tools
	}
	return stats
}
