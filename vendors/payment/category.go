package payment

import (
	"fmt"
	"math"
	"time"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/val"
)

// now is overridden in tests so reference defaulting is deterministic.
var now = time.Now

// BuildCategory assembles the "payment" VAL category: the vendor-neutral
// client schema for initializeTransaction/verifyTransaction plus the
// Paystack and Flutterwave transforms (spec.md 4.4's worked example,
// scenario 1 in spec.md section 8). callbackURL is stamped onto every
// initializeTransaction transform output, matching scenario 1's
// `callback_url: <env>` — read once at registration time, not per call, so
// the transform itself stays a pure closure over a fixed value.
//
// Paystack is first in VendorOrder and is therefore the default vendor
// (spec.md 4.4 step 4).
func BuildCategory(callbackURL string) val.Category {
	return val.Category{
		Name: "payment",
		Operations: map[string]val.OperationSchema{
			"initializeTransaction": {
				Schema: &adapter.Schema{
					Type:     "object",
					Required: []string{"amount", "email"},
					Properties: map[string]*adapter.Schema{
						"amount":    {Type: "number", Minimum: val.ZeroFloat()},
						"email":     {Type: "string"},
						"currency":  {Type: "string", Default: "NGN"},
						"reference": {Type: "string"},
					},
				},
			},
			"verifyTransaction": {
				Schema: &adapter.Schema{
					Type:     "object",
					Required: []string{"reference"},
					Properties: map[string]*adapter.Schema{
						"reference": {Type: "string"},
					},
				},
			},
		},
		VendorOrder: []string{"paystack", "flutterwave"},
		Vendors: map[string]val.Vendor{
			"paystack": {
				ID:      "paystack",
				Adapter: "paystack",
				Mappings: map[string]val.Mapping{
					"initializeTransaction": {Tool: "initialize-transaction", Transform: paystackInitializeTransform(callbackURL)},
					"verifyTransaction":     {Tool: "verify-transaction", Transform: val.IdentityTransform},
				},
			},
			"flutterwave": {
				ID:      "flutterwave",
				Adapter: "flutterwave",
				Mappings: map[string]val.Mapping{
					"initializeTransaction": {Tool: "initialize-payment", Transform: flutterwaveInitializeTransform},
					"verifyTransaction":     {Tool: "verify-by-reference", Transform: flutterwaveVerifyTransform},
				},
			},
		},
	}
}

// paystackInitializeTransform defaults reference, stamps callbackURL, then
// converts the vendor-neutral major-unit amount to Paystack's kobo subunit
// immediately before the vendor call (DESIGN.md's Open Questions decision:
// the VAL envelope stays major-unit everywhere, unit conversion is a
// Paystack-only transform detail).
func paystackInitializeTransform(callbackURL string) val.Transform {
	return func(in map[string]any) (map[string]any, error) {
		out := val.CopyMap(in)
		withDefaultReference(out)
		if callbackURL != "" {
			out["callback_url"] = callbackURL
		}

		amount, ok := numberField(out, "amount")
		if !ok {
			return nil, fmt.Errorf("payment: amount must be a number")
		}
		out["amount"] = int64(math.Round(amount * 100))
		return out, nil
	}
}

// flutterwaveInitializeTransform maps the vendor-neutral "reference" to
// Flutterwave's "tx_ref"; Flutterwave already takes major-unit amounts, so
// no conversion happens here (DESIGN.md Open Questions decision).
func flutterwaveInitializeTransform(in map[string]any) (map[string]any, error) {
	out := val.CopyMap(in)
	withDefaultReference(out)

	if ref, ok := out["reference"].(string); ok {
		out["tx_ref"] = ref
		delete(out, "reference")
	}
	return out, nil
}

// flutterwaveVerifyTransform maps vendor-neutral "reference" to
// Flutterwave's tx_ref for the verify_by_reference lookup.
func flutterwaveVerifyTransform(in map[string]any) (map[string]any, error) {
	out := val.CopyMap(in)
	if ref, ok := out["reference"].(string); ok {
		out["tx_ref"] = ref
		delete(out, "reference")
	}
	return out, nil
}

func withDefaultReference(m map[string]any) {
	if ref, ok := m["reference"].(string); ok && ref != "" {
		return
	}
	m["reference"] = fmt.Sprintf("ref_%d", now().UnixNano())
}

func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

