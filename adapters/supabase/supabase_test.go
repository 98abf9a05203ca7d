package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
	"github.com/thefixer3x/onasis-gateway-sub003/httpclient"
)

const testDoc = `
## send-email
Sends a templated transactional email.
Input: { to: string, subject: string }
`

func staticSource(doc string) DescriptorSource {
	return func(ctx context.Context) (string, error) {
		return doc, nil
	}
}

func TestAdapter_Initialize(t *testing.T) {
	a := New(Config{ID: "supabase", BaseURL: "https://edge.example.com", Source: staticSource(testDoc)})
	require.NoError(t, a.Initialize(context.Background()))

	tools := a.ListTools()
	require.Len(t, tools, 1)
	assert.Equal(t, "send-email", tools[0].Name)
	assert.True(t, a.HealthCheck(context.Background()).Healthy)
}

func TestAdapter_CallTool(t *testing.T) {
	t.Run("given a known slug, then forwards to the edge function and decodes the JSON response", func(t *testing.T) {
		var gotAuth, gotAPIKey string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotAPIKey = r.Header.Get("apikey")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"sent"}`))
		}))
		defer upstream.Close()

		a := New(Config{ID: "supabase", BaseURL: upstream.URL, Source: staticSource(testDoc)})
		require.NoError(t, a.Initialize(context.Background()))

		rc := &adapter.RequestContext{Authorization: "token-123", APIKey: "anon-key"}
		result, err := a.CallTool(context.Background(), "send-email", map[string]any{"to": "a@b.com"}, rc)
		require.NoError(t, err)
		assert.Equal(t, "Bearer token-123", gotAuth)
		assert.Equal(t, "anon-key", gotAPIKey)

		m, ok := result.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "sent", m["status"])
	})

	t.Run("given an unknown slug, then returns FUNCTION_NOT_FOUND", func(t *testing.T) {
		a := New(Config{ID: "supabase", BaseURL: "https://edge.example.com", Source: staticSource(testDoc)})
		require.NoError(t, a.Initialize(context.Background()))

		_, err := a.CallTool(context.Background(), "does-not-exist", nil, &adapter.RequestContext{})
		ge, ok := gwerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, gwerrors.CodeFunctionNotFound, ge.Code)
		assert.Contains(t, ge.Message, "does-not-exist")
	})

	t.Run("given a non-2xx upstream response, then returns an Upstream error carrying the status", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer upstream.Close()

		a := New(Config{ID: "supabase", BaseURL: upstream.URL, Source: staticSource(testDoc)})
		require.NoError(t, a.Initialize(context.Background()))

		_, err := a.CallTool(context.Background(), "send-email", nil, &adapter.RequestContext{})
		require.Error(t, err)
		ge, ok := gwerrors.As(err)
		require.True(t, ok)
		assert.Contains(t, ge.Message, "502")
	})

	t.Run("given the inbound Authorization header forwarded directly, then it is used verbatim over RequestContext.Authorization", func(t *testing.T) {
		var gotAuth string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{}`))
		}))
		defer upstream.Close()

		a := New(Config{ID: "supabase", BaseURL: upstream.URL, Source: staticSource(testDoc)})
		require.NoError(t, a.Initialize(context.Background()))

		rc := &adapter.RequestContext{
			Authorization: "from-bearer-field",
			Headers:       map[string]string{"Authorization": "Bearer raw-header-value"},
		}
		_, err := a.CallTool(context.Background(), "send-email", nil, rc)
		require.NoError(t, err)
		assert.Equal(t, "Bearer raw-header-value", gotAuth)
	})
}

func TestAdapter_CacheRefresh(t *testing.T) {
	calls := 0
	source := func(ctx context.Context) (string, error) {
		calls++
		return testDoc, nil
	}

	a := New(Config{ID: "supabase", BaseURL: "https://edge.example.com", Source: source, CacheTTL: time.Millisecond})
	require.NoError(t, a.Initialize(context.Background()))
	assert.Equal(t, 1, calls)

	time.Sleep(5 * time.Millisecond)
	_, err := a.CallTool(context.Background(), "send-email", nil, &adapter.RequestContext{})
	require.Error(t, err) // no live server behind the placeholder BaseURL
	assert.GreaterOrEqual(t, calls, 2)
}

func TestAdapter_ProbeHealth(t *testing.T) {
	t.Run("given a healthy upstream, then reports healthy", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer upstream.Close()

		probe := httpclient.New(httpclient.WithBaseURL(upstream.URL))
		a := New(Config{ID: "supabase", BaseURL: upstream.URL, Source: staticSource(testDoc), HealthProbe: probe})
		require.NoError(t, a.Initialize(context.Background()))

		status := a.HealthCheck(context.Background())
		assert.True(t, status.Healthy)
	})

	t.Run("given a 5xx upstream, then reports unhealthy with the status in Detail", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer upstream.Close()

		probe := httpclient.New(httpclient.WithBaseURL(upstream.URL))
		a := New(Config{ID: "supabase", BaseURL: upstream.URL, Source: staticSource(testDoc), HealthProbe: probe})
		require.NoError(t, a.Initialize(context.Background()))

		status := a.HealthCheck(context.Background())
		assert.False(t, status.Healthy)
		assert.Contains(t, status.Detail, "503")
	})
}
