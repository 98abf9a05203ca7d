// Package discovery implements lazy execution mode: the five gateway-*
// meta-tools that replace the full tool catalog (spec.md 4.5).
package discovery

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
	"github.com/thefixer3x/onasis-gateway-sub003/val"
)

// The five meta-tool names. tools/list returns exactly these in lazy mode.
const (
	ToolIntent         = "gateway-intent"
	ToolListCategories = "gateway-list-categories"
	ToolDescribe       = "gateway-describe"
	ToolExecute        = "gateway-execute"
	ToolHealth         = "gateway-health"
)

// CategoryDescription supplies the free-text description gateway-intent
// scores an incoming description against.
type CategoryDescription struct {
	Category    string
	Operation   string
	Description string
}

// AdapterHealth reports one adapter's aggregate health for gateway-health.
type AdapterHealth struct {
	AdapterID string `json:"adapterId"`
	Healthy   bool   `json:"healthy"`
	Detail    string `json:"detail,omitempty"`
}

// HealthChecker is the subset of adapter.Registry the health meta-tool
// needs.
type HealthChecker interface {
	List() []adapter.Info
	Get(id string) (adapter.Adapter, bool)
}

// Layer implements the five meta-tools over a VAL Registry and an adapter
// Registry.
type Layer struct {
	val          *val.Registry
	health       HealthChecker
	intentCorpus []CategoryDescription

	healthTTL time.Duration

	mu             sync.Mutex
	healthCache    []AdapterHealth
	healthCachedAt time.Time
	group          singleflight.Group
}

// New builds a discovery Layer. healthTTL governs how long gateway-health
// results are cached (spec.md's supplemented "Adapter health aggregation
// cache"); a zero value disables caching.
func New(valRegistry *val.Registry, health HealthChecker, corpus []CategoryDescription, healthTTL time.Duration) *Layer {
	return &Layer{
		val:          valRegistry,
		health:       health,
		intentCorpus: corpus,
		healthTTL:    healthTTL,
	}
}

// Tools returns the five meta-tool definitions for tools/list.
func Tools() []adapter.Tool {
	return []adapter.Tool{
		{Name: ToolIntent, Description: "Rank categories/operations most likely to satisfy a free-form intent description."},
		{Name: ToolListCategories, Description: "Enumerate categories with their operations and default vendors."},
		{Name: ToolDescribe, Description: "Return the client schema and available vendors for a category/operation."},
		{Name: ToolExecute, Description: "Invoke the Vendor Abstraction Layer for a category/operation."},
		{Name: ToolHealth, Description: "Aggregate health of registered adapters."},
	}
}

// IsMetaTool reports whether name should be dispatched to the discovery
// layer (spec.md 4.5: "any tools/call whose name starts with gateway-").
func IsMetaTool(name string) bool {
	return strings.HasPrefix(name, "gateway-")
}

// Dispatch routes a tools/call by name to the matching meta-tool. Callers
// must have already checked IsMetaTool; a non-gateway- name reaching here
// is a caller bug, reported as gwerrors.Internal.
func (l *Layer) Dispatch(ctx context.Context, name string, args map[string]any, rc *adapter.RequestContext) (any, error) {
	switch name {
	case ToolIntent:
		description, _ := args["description"].(string)
		return l.Intent(description), nil
	case ToolListCategories:
		return l.ListCategories(), nil
	case ToolDescribe:
		category, _ := args["category"].(string)
		operation, _ := args["operation"].(string)
		return l.Describe(category, operation)
	case ToolExecute:
		category, _ := args["category"].(string)
		operation, _ := args["operation"].(string)
		vendor, _ := args["vendor"].(string)
		input, _ := args["input"].(map[string]any)
		return l.val.Execute(ctx, category, operation, input, vendor, rc)
	case ToolHealth:
		return l.Health(ctx), nil
	default:
		return nil, gwerrors.Internal(nil)
	}
}

// IntentMatch is one ranked candidate from gateway-intent.
type IntentMatch struct {
	Category  string  `json:"category"`
	Operation string  `json:"operation"`
	Score     float64 `json:"score"`
}

// Intent scores description against every registered category/operation
// description via simple lexical token overlap — spec.md explicitly allows
// "simple lexical scoring"; the contract is only "ranked list with scores".
func (l *Layer) Intent(description string) []IntentMatch {
	queryTokens := tokenize(description)

	matches := make([]IntentMatch, 0, len(l.intentCorpus))
	for _, cand := range l.intentCorpus {
		score := lexicalOverlap(queryTokens, tokenize(cand.Description))
		if score > 0 {
			matches = append(matches, IntentMatch{
				Category:  cand.Category,
				Operation: cand.Operation,
				Score:     score,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.Trim(word, ".,!?;:()[]{}\"'")
		if word != "" {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

// lexicalOverlap scores candidate tokens by fraction of queryTokens they
// contain — deterministic, cheap, and good enough per spec.md's explicit
// allowance for "simple lexical scoring".
func lexicalOverlap(query, candidate map[string]struct{}) float64 {
	if len(query) == 0 || len(candidate) == 0 {
		return 0
	}
	var hits int
	for tok := range query {
		if _, ok := candidate[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// CategorySummary is one gateway-list-categories entry.
type CategorySummary struct {
	Category      string   `json:"category"`
	Operations    []string `json:"operations"`
	DefaultVendor string   `json:"defaultVendor,omitempty"`
}

// ListCategories enumerates categories with their operations and default
// vendor, coalesced via singleflight since concurrent identical discovery
// calls are common from agent clients (SPEC_FULL.md section 11).
func (l *Layer) ListCategories() []CategorySummary {
	v, _, _ := l.group.Do("list-categories", func() (any, error) {
		cats := l.val.ListCategories()
		out := make([]CategorySummary, 0, len(cats))
		for _, c := range cats {
			ops := make([]string, 0, len(c.Operations))
			for op := range c.Operations {
				ops = append(ops, op)
			}
			sort.Strings(ops)

			var defaultVendor string
			if len(c.VendorOrder) > 0 {
				defaultVendor = c.VendorOrder[0]
			}
			out = append(out, CategorySummary{
				Category:      c.Name,
				Operations:    ops,
				DefaultVendor: defaultVendor,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
		return out, nil
	})
	return v.([]CategorySummary)
}

// DescribeResult is gateway-describe's response shape.
type DescribeResult struct {
	Schema  *adapter.Schema `json:"schema"`
	Vendors []string        `json:"vendors"`
}

// Describe is coalesced the same way ListCategories is — it is a pure read
// over immutable VAL state (SPEC_FULL.md section 11).
func (l *Layer) Describe(category, operation string) (*DescribeResult, error) {
	key := "describe:" + category + ":" + operation
	v, err, _ := l.group.Do(key, func() (any, error) {
		opSchema, vendors, err := l.val.Describe(category, operation)
		if err != nil {
			return nil, err
		}
		return &DescribeResult{Schema: opSchema.Schema, Vendors: vendors}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DescribeResult), nil
}

// Health aggregates every registered adapter's health, cached for healthTTL
// so concurrent health probes don't fan out N adapter health checks per
// request (SPEC_FULL.md section 11, grounded on the teacher's
// httpserver/health.go aggregate pattern).
func (l *Layer) Health(ctx context.Context) []AdapterHealth {
	l.mu.Lock()
	if l.healthTTL > 0 && !l.healthCachedAt.IsZero() && time.Since(l.healthCachedAt) < l.healthTTL {
		cached := l.healthCache
		l.mu.Unlock()
		return cached
	}
	l.mu.Unlock()

	v, _, _ := l.group.Do("health", func() (any, error) {
		infos := l.health.List()
		out := make([]AdapterHealth, 0, len(infos))
		for _, info := range infos {
			a, ok := l.health.Get(info.ID)
			if !ok {
				continue
			}
			status := a.HealthCheck(ctx)
			out = append(out, AdapterHealth{
				AdapterID: info.ID,
				Healthy:   status.Healthy,
				Detail:    status.Detail,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].AdapterID < out[j].AdapterID })

		l.mu.Lock()
		l.healthCache = out
		l.healthCachedAt = time.Now()
		l.mu.Unlock()

		return out, nil
	})
	return v.([]AdapterHealth)
}
