// Package val implements the Vendor Abstraction Layer: category→operation→
// vendor mapping, input validation, pure transforms, and vendor selection
// (spec.md 4.4).
package val

import (
	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
)

// Transform converts a vendor-neutral input into the vendor-specific
// payload a tool call expects. Transforms must be pure and deterministic —
// no I/O, no clock reads, no randomness (spec.md 4.4 invariant).
type Transform func(input map[string]any) (map[string]any, error)

// IdentityTransform passes input through unchanged (via a defensive copy).
// Shared by every vendor category whose tool already accepts the
// vendor-neutral field names as-is.
func IdentityTransform(in map[string]any) (map[string]any, error) {
	return CopyMap(in), nil
}

// CopyMap returns a shallow copy of in, so transforms never mutate the
// caller's original argument map.
func CopyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ZeroFloat returns a pointer to 0.0, for OperationSchema fields that need a
// JSON-Schema "minimum": 0 constraint.
func ZeroFloat() *float64 {
	v := 0.0
	return &v
}

// Mapping is one operation's binding to a vendor's concrete tool.
type Mapping struct {
	Tool      string
	Transform Transform
}

// Vendor is one category member: the adapter it runs on, and its
// operation→Mapping table.
type Vendor struct {
	ID       string
	Adapter  string
	Mappings map[string]Mapping
}

// OperationSchema is the input contract for one category operation (spec.md
// 4.4 "client[operation].schema").
type OperationSchema struct {
	Schema *adapter.Schema
}

// Category is a VAL-level abstraction over a family of vendors offering the
// same operations (e.g. "payment").
type Category struct {
	Name       string
	Operations map[string]OperationSchema

	// VendorOrder is insertion order; VendorOrder[0] is the default vendor
	// (spec.md 4.4 step 4: "insertion order is the policy").
	VendorOrder []string
	Vendors     map[string]Vendor
}

// Result is the VAL's success envelope (spec.md 4.4 step 8).
type Result struct {
	Success  bool     `json:"success"`
	Data     any      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Metadata describes how a Result was produced.
type Metadata struct {
	Category   string `json:"category"`
	Operation  string `json:"operation"`
	Vendor     string `json:"vendor"`
	Timestamp  string `json:"timestamp"`
	Abstracted bool   `json:"abstracted"`
}
