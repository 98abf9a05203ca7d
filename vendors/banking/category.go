package banking

import (
	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/val"
)

// BuildCategory assembles the "banking" VAL category over the single BAP
// vendor (spec.md 4.4). BAP is the only vendor, so it is always the default
// (spec.md 4.4 step 4: "first vendor in iteration order is the default").
func BuildCategory() val.Category {
	return val.Category{
		Name: "banking",
		Operations: map[string]val.OperationSchema{
			"initiateTransfer": {
				Schema: &adapter.Schema{
					Type:     "object",
					Required: []string{"accountNumber", "bankCode", "amount"},
					Properties: map[string]*adapter.Schema{
						"accountNumber": {Type: "string"},
						"bankCode":      {Type: "string"},
						"amount":        {Type: "number", Minimum: val.ZeroFloat()},
						"narration":     {Type: "string", Default: ""},
					},
				},
			},
			"queryTransfer": {
				Schema: &adapter.Schema{
					Type:     "object",
					Required: []string{"reference"},
					Properties: map[string]*adapter.Schema{
						"reference": {Type: "string"},
					},
				},
			},
			"validateAccountNumber": {
				Schema: &adapter.Schema{
					Type:     "object",
					Required: []string{"accountNumber", "bankCode"},
					Properties: map[string]*adapter.Schema{
						"accountNumber": {Type: "string"},
						"bankCode":      {Type: "string"},
					},
				},
			},
		},
		VendorOrder: []string{"bap"},
		Vendors: map[string]val.Vendor{
			"bap": {
				ID:      "bap",
				Adapter: "bap",
				Mappings: map[string]val.Mapping{
					"initiateTransfer":      {Tool: "initiate-transfer", Transform: val.IdentityTransform},
					"queryTransfer":         {Tool: "query-transfer", Transform: val.IdentityTransform},
					"validateAccountNumber": {Tool: "validate-account-number", Transform: val.IdentityTransform},
				},
			},
		},
	}
}
