package adapter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// Adapter is the uniform execution surface every upstream vendor integration
// implements (spec.md 4.2).
type Adapter interface {
	// ID is the stable adapter identifier, e.g. "paystack".
	ID() string

	// Initialize populates the tool list, possibly by calling the upstream
	// to enumerate resources. Must be idempotent.
	Initialize(ctx context.Context) error

	// ListTools returns the adapter's current tool list.
	ListTools() []Tool

	// CallTool looks up name among the adapter's tools and executes it.
	CallTool(ctx context.Context, name string, args map[string]any, rc *RequestContext) (any, error)

	// HealthCheck probes the adapter. Adapters with no upstream probe
	// default to healthy once initialized.
	HealthCheck(ctx context.Context) HealthStatus

	// Info returns the adapter's catalog/health metadata, including live stats.
	Info() Info
}

// ToolHandler executes one tool call. Concrete adapters build a
// map[string]ToolHandler at Initialize() time; this is the static
// alternative to runtime string-addressed dispatch described in spec.md's
// DESIGN NOTES (a map[string]func(ctx, input) (any, error) built at startup).
type ToolHandler func(ctx context.Context, args map[string]any, rc *RequestContext) (any, error)

// BaseAdapter implements the lifecycle and statistics bookkeeping shared by
// every adapter. Concrete adapters embed it and supply their own
// initializer/handlers.
type BaseAdapter struct {
	id       string
	name     string
	version  string
	category string

	mu       sync.RWMutex
	tools    []Tool
	handlers map[string]ToolHandler
	ready    bool

	calls    atomic.Uint64
	errors   atomic.Uint64
	lastCall atomic.Int64 // unix nanos

	healthProbe func(ctx context.Context) HealthStatus
}

// NewBaseAdapter constructs a BaseAdapter. version/category are descriptive
// and surfaced via Info(); category need not match a VAL category.
func NewBaseAdapter(id, name, version, category string) *BaseAdapter {
	return &BaseAdapter{
		id:       id,
		name:     name,
		version:  version,
		category: category,
		handlers: make(map[string]ToolHandler),
	}
}

// ID implements Adapter.
func (b *BaseAdapter) ID() string { return b.id }

// SetHealthProbe installs a custom probe used by HealthCheck. If unset,
// HealthCheck reports healthy once the adapter is ready (spec.md 4.2:
// "defaults to healthy if no client probe").
func (b *BaseAdapter) SetHealthProbe(probe func(ctx context.Context) HealthStatus) {
	b.healthProbe = probe
}

// RegisterTool adds a tool and its handler. Calling RegisterTool twice with
// the same name is a programmer error and panics, enforcing the "tool names
// are unique within an adapter" invariant (spec.md section 3) at
// registration time rather than silently shadowing.
func (b *BaseAdapter) RegisterTool(tool Tool, handler ToolHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[tool.Name]; exists {
		panic("adapter " + b.id + ": duplicate tool name " + tool.Name)
	}
	b.tools = append(b.tools, tool)
	b.handlers[tool.Name] = handler
}

// ResetTools clears every registered tool and handler. Adapters whose tool
// set is rebuilt from a remote descriptor (e.g. adapters/supabase) call this
// before re-registering a fresh batch, so a refresh cycle doesn't hit
// RegisterTool's duplicate-name panic when the descriptor is unchanged.
func (b *BaseAdapter) ResetTools() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tools = nil
	b.handlers = make(map[string]ToolHandler)
}

// MarkReady flips the adapter into the ready state. Call once Initialize has
// populated the tool list.
func (b *BaseAdapter) MarkReady() {
	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()
}

// ListTools implements Adapter.
func (b *BaseAdapter) ListTools() []Tool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Tool, len(b.tools))
	copy(out, b.tools)
	return out
}

// CallTool implements Adapter, recording call/error statistics around the
// registered handler.
func (b *BaseAdapter) CallTool(ctx context.Context, name string, args map[string]any, rc *RequestContext) (any, error) {
	b.mu.RLock()
	handler, ok := b.handlers[name]
	b.mu.RUnlock()

	if !ok {
		return nil, gwerrors.ToolNotFound(b.id + ":" + name)
	}

	b.calls.Add(1)
	b.lastCall.Store(time.Now().UnixNano())

	result, err := handler(ctx, args, rc)
	if err != nil {
		b.errors.Add(1)
		log.Error().Str("adapter_id", b.id).Str("tool", name).Err(err).Msg("tool call failed")
		return nil, err
	}
	return result, nil
}

// HealthCheck implements Adapter.
func (b *BaseAdapter) HealthCheck(ctx context.Context) HealthStatus {
	if b.healthProbe != nil {
		return b.healthProbe(ctx)
	}
	b.mu.RLock()
	ready := b.ready
	b.mu.RUnlock()
	if !ready {
		return HealthStatus{Healthy: false, Detail: "not initialized"}
	}
	return HealthStatus{Healthy: true}
}

// Info implements Adapter.
func (b *BaseAdapter) Info() Info {
	b.mu.RLock()
	ready := b.ready
	toolCount := len(b.tools)
	b.mu.RUnlock()

	var lastCall time.Time
	if ns := b.lastCall.Load(); ns != 0 {
		lastCall = time.Unix(0, ns)
	}

	return Info{
		ID:       b.id,
		Name:     b.name,
		Version:  b.version,
		Category: b.category,
		Mock:     false,
		Ready:    ready,
		Tools:    toolCount,
		Stats: Stats{
			Calls:    b.calls.Load(),
			Errors:   b.errors.Load(),
			LastCall: lastCall,
		},
	}
}
