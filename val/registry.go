package val

import (
	"context"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// Invoker is the subset of adapter.Registry the VAL needs — kept as an
// interface so tests can stub it without spinning up real adapters.
type Invoker interface {
	CallTool(ctx context.Context, toolID string, args map[string]any, rc *adapter.RequestContext) (any, error)
}

// Registry holds every registered Category and dispatches
// executeAbstractedCall against a backing adapter.Registry-like Invoker
// (spec.md 4.4).
type Registry struct {
	mu         sync.RWMutex
	categories map[string]Category
	compiled   map[string]*jsonschema.Schema // "category:operation" -> compiled schema
	invoker    Invoker
	overrides  OverrideSource
	now        func() time.Time
}

// NewRegistry constructs a VAL Registry backed by invoker (typically an
// *adapter.Registry).
func NewRegistry(invoker Invoker) *Registry {
	return &Registry{
		categories: make(map[string]Category),
		compiled:   make(map[string]*jsonschema.Schema),
		invoker:    invoker,
		now:        time.Now,
	}
}

// SetOverrideSource installs a deployment-configured vendor-preference
// source, consulted by Execute whenever a call arrives with no explicit
// vendor preference. Optional — a nil source (the default) means every
// category always defaults to its static VendorOrder[0].
func (r *Registry) SetOverrideSource(source OverrideSource) {
	r.mu.Lock()
	r.overrides = source
	r.mu.Unlock()
}

// RegisterCategory seeds the VAL with one category, compiling every
// operation's schema up front so executeAbstractedCall never compiles on
// the hot path.
func (r *Registry) RegisterCategory(cat Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for op, opSchema := range cat.Operations {
		key := cat.Name + ":" + op
		compiled, err := CompileSchema(key, opSchema.Schema)
		if err != nil {
			return err
		}
		r.compiled[key] = compiled
	}

	r.categories[cat.Name] = cat
	return nil
}

// ListCategories returns every registered category, for gateway-list-categories.
func (r *Registry) ListCategories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out
}

// Describe returns the operation's schema and available vendors, for
// gateway-describe.
func (r *Registry) Describe(category, operation string) (OperationSchema, []string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cat, ok := r.categories[category]
	if !ok {
		return OperationSchema{}, nil, gwerrors.UnknownCategory(category)
	}
	opSchema, ok := cat.Operations[operation]
	if !ok {
		return OperationSchema{}, nil, gwerrors.UnknownOperation(category, operation)
	}

	vendors := make([]string, 0, len(cat.VendorOrder))
	for _, vendorID := range cat.VendorOrder {
		if v, ok := cat.Vendors[vendorID]; ok {
			if _, supports := v.Mappings[operation]; supports {
				vendors = append(vendors, vendorID)
			}
		}
	}
	return opSchema, vendors, nil
}

// Execute runs the full executeAbstractedCall protocol (spec.md 4.4).
func (r *Registry) Execute(ctx context.Context, category, operation string, input map[string]any, vendorPreference string, rc *adapter.RequestContext) (*Result, error) {
	r.mu.RLock()
	cat, ok := r.categories[category]
	if !ok {
		r.mu.RUnlock()
		return nil, gwerrors.UnknownCategory(category)
	}

	opSchema, ok := cat.Operations[operation]
	if !ok {
		r.mu.RUnlock()
		return nil, gwerrors.UnknownOperation(category, operation)
	}

	compiled := r.compiled[category+":"+operation]
	overrides := r.overrides
	r.mu.RUnlock()

	// Step 3: copy input, apply defaults, validate.
	validated, err := ValidateAndDefault(compiled, opSchema.Schema, input)
	if err != nil {
		return nil, err
	}

	// Step 4: select vendor.
	if len(cat.VendorOrder) == 0 {
		return nil, gwerrors.NoVendors(category)
	}
	vendorID := cat.VendorOrder[0]
	if overrides != nil {
		if overrideVendor, ok, err := overrides.PreferredVendor(ctx, category); err == nil && ok {
			if _, known := cat.Vendors[overrideVendor]; known {
				vendorID = overrideVendor
			}
		}
	}
	if vendorPreference != "" {
		if _, ok := cat.Vendors[vendorPreference]; ok {
			vendorID = vendorPreference
		}
	}
	vendor, ok := cat.Vendors[vendorID]
	if !ok {
		return nil, gwerrors.NoVendors(category)
	}

	// Step 5: look up mapping.
	mapping, ok := vendor.Mappings[operation]
	if !ok {
		return nil, gwerrors.OperationNotSupported(vendorID, operation)
	}

	// Step 6: transform.
	transformed, err := mapping.Transform(validated)
	if err != nil {
		return nil, gwerrors.Internal(err)
	}

	// Step 7: invoke registry. Ambient context flows through rc unchanged.
	toolID := vendor.Adapter + ":" + mapping.Tool
	data, err := r.invoker.CallTool(ctx, toolID, transformed, rc)
	if err != nil {
		return nil, err
	}

	// Step 8: wrap success envelope.
	return &Result{
		Success: true,
		Data:    data,
		Metadata: Metadata{
			Category:   category,
			Operation:  operation,
			Vendor:     vendorID,
			Timestamp:  r.now().UTC().Format(time.RFC3339),
			Abstracted: true,
		},
	}, nil
}
