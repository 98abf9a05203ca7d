// Package mock provides the mock adapter factory: adapters that are
// registered and discoverable but never executable (spec.md 4.2 "Lifecycle",
// 4.3 registerMock). Mock adapters exist so the catalog can describe an
// upstream integration that is not yet (or no longer) live without the
// Gateway Core lying about what tools/list reports.
package mock

import (
	"context"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// Descriptor is the catalog-supplied shape of a mock adapter: just enough to
// populate discovery without ever calling anything.
type Descriptor struct {
	ID       string
	Name     string
	Version  string
	Category string
	Tools    []adapter.Tool
}

// Adapter is a mock Adapter: every CallTool invocation fails with
// ADAPTER_NOT_EXECUTABLE regardless of whether the named tool exists, per
// spec.md's "Mock adapter invocation → ADAPTER_NOT_EXECUTABLE even if the
// tool name exists" edge case.
type Adapter struct {
	*adapter.BaseAdapter
	desc Descriptor
}

// New builds a mock Adapter from a catalog Descriptor. It is ready
// immediately — mocks have no upstream to initialize against.
func New(desc Descriptor) *Adapter {
	base := adapter.NewBaseAdapter(desc.ID, desc.Name, desc.Version, desc.Category)
	a := &Adapter{BaseAdapter: base, desc: desc}

	for _, t := range desc.Tools {
		tool := t
		base.RegisterTool(tool, func(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
			return nil, gwerrors.AdapterNotExecutable(desc.ID)
		})
	}
	base.MarkReady()
	return a
}

// Initialize is a no-op; mocks are constructed already-ready.
func (a *Adapter) Initialize(ctx context.Context) error { return nil }

// CallTool always fails, even for an unregistered tool name — mocks never
// report TOOL_NOT_FOUND, only ADAPTER_NOT_EXECUTABLE, so discovery tooling
// can distinguish "not wired yet" from "doesn't exist".
func (a *Adapter) CallTool(ctx context.Context, name string, args map[string]any, rc *adapter.RequestContext) (any, error) {
	return nil, gwerrors.AdapterNotExecutable(a.desc.ID)
}

// Info reports Mock: true, overriding BaseAdapter's default.
func (a *Adapter) Info() adapter.Info {
	info := a.BaseAdapter.Info()
	info.Mock = true
	return info
}
