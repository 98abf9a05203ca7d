package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystack_InitializeTransaction_ReturnsData(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data":    map[string]any{"authorization_url": "https://checkout.paystack.com/abc"},
		})
	}))
	defer server.Close()

	p := NewPaystack(PaystackConfig{SecretKey: "sk_test_123", BaseURL: server.URL})
	require.NoError(t, p.Initialize(context.Background()))

	result, err := p.CallTool(context.Background(), "initialize-transaction",
		map[string]any{"amount": 50000, "email": "a@b.com"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	out, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, out["status"])
}

func TestPaystack_VerifyTransaction_VendorFailure_ReturnsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Transaction reference not found",
		})
	}))
	defer server.Close()

	p := NewPaystack(PaystackConfig{SecretKey: "sk_test_123", BaseURL: server.URL})
	require.NoError(t, p.Initialize(context.Background()))

	_, err := p.CallTool(context.Background(), "verify-transaction",
		map[string]any{"reference": "doesnotexist"}, nil)
	require.Error(t, err)
}

func TestPaystack_VerifyTransaction_EscapesReferenceInPath(t *testing.T) {
	var gotRequestURI string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestURI = r.RequestURI
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "message": "ok"})
	}))
	defer server.Close()

	p := NewPaystack(PaystackConfig{SecretKey: "sk_test_123", BaseURL: server.URL})
	require.NoError(t, p.Initialize(context.Background()))

	_, err := p.CallTool(context.Background(), "verify-transaction",
		map[string]any{"reference": "abc/../secret"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "/transaction/verify/abc%2F..%2Fsecret", gotRequestURI,
		"a reference containing path separators must be escaped on the wire, not change the request path")
}

func TestPaystack_UnknownTool_ReturnsToolNotFound(t *testing.T) {
	p := NewPaystack(PaystackConfig{SecretKey: "sk_test_123"})
	require.NoError(t, p.Initialize(context.Background()))

	_, err := p.CallTool(context.Background(), "charge-recurring", nil, nil)
	require.Error(t, err)
}
