package val

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
)

type stubOverrideSource struct {
	vendor string
	ok     bool
	err    error
}

func (s *stubOverrideSource) PreferredVendor(ctx context.Context, category string) (string, bool, error) {
	return s.vendor, s.ok, s.err
}

func identityTransformStub(in map[string]any) (map[string]any, error) { return in, nil }

func twoVendorCategory() Category {
	return Category{
		Name: "payment",
		Operations: map[string]OperationSchema{
			"initializeTransaction": {Schema: &adapter.Schema{Type: "object"}},
		},
		VendorOrder: []string{"paystack", "flutterwave"},
		Vendors: map[string]Vendor{
			"paystack": {ID: "paystack", Adapter: "paystack", Mappings: map[string]Mapping{
				"initializeTransaction": {Tool: "initialize-transaction", Transform: identityTransformStub},
			}},
			"flutterwave": {ID: "flutterwave", Adapter: "flutterwave", Mappings: map[string]Mapping{
				"initializeTransaction": {Tool: "initialize-payment", Transform: identityTransformStub},
			}},
		},
	}
}

func TestRegistry_Execute_OverrideSource(t *testing.T) {
	t.Run("given a configured override and no caller preference, then the override vendor wins", func(t *testing.T) {
		invoker := &stubInvoker{result: map[string]any{"ok": true}}
		reg := NewRegistry(invoker)
		require.NoError(t, reg.RegisterCategory(twoVendorCategory()))
		reg.SetOverrideSource(&stubOverrideSource{vendor: "flutterwave", ok: true})

		result, err := reg.Execute(context.Background(), "payment", "initializeTransaction",
			map[string]any{}, "", nil)

		require.NoError(t, err)
		assert.Equal(t, "flutterwave", result.Metadata.Vendor)
	})

	t.Run("given both an override and an explicit caller preference, then the caller preference wins", func(t *testing.T) {
		invoker := &stubInvoker{result: map[string]any{"ok": true}}
		reg := NewRegistry(invoker)
		require.NoError(t, reg.RegisterCategory(twoVendorCategory()))
		reg.SetOverrideSource(&stubOverrideSource{vendor: "flutterwave", ok: true})

		result, err := reg.Execute(context.Background(), "payment", "initializeTransaction",
			map[string]any{}, "paystack", nil)

		require.NoError(t, err)
		assert.Equal(t, "paystack", result.Metadata.Vendor)
	})

	t.Run("given no override configured, then the category's default vendor order applies", func(t *testing.T) {
		invoker := &stubInvoker{result: map[string]any{"ok": true}}
		reg := NewRegistry(invoker)
		require.NoError(t, reg.RegisterCategory(twoVendorCategory()))
		reg.SetOverrideSource(&stubOverrideSource{ok: false})

		result, err := reg.Execute(context.Background(), "payment", "initializeTransaction",
			map[string]any{}, "", nil)

		require.NoError(t, err)
		assert.Equal(t, "paystack", result.Metadata.Vendor)
	})
}
