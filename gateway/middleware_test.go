package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotfileBlock(t *testing.T) {
	handler := DotfileBlock()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("given a dotfile path, then returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/.env", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("given a nested dotfile path, then returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/.git/config", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("given an ordinary path, then passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitBucketKey(t *testing.T) {
	t.Run("given a session id, then keys by session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.Header.Set("Mcp-Session-Id", "sess-1")
		key1 := RateLimitBucketKey(req)

		req2 := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req2.Header.Set("Mcp-Session-Id", "sess-2")
		key2 := RateLimitBucketKey(req2)

		assert.NotEqual(t, key1, key2)
		assert.Len(t, key1, 16)
	})

	t.Run("given the same bearer token, then produces the same key", func(t *testing.T) {
		req1 := httptest.NewRequest(http.MethodGet, "/api/services", nil)
		req1.Header.Set("Authorization", "Bearer tok-xyz")
		req2 := httptest.NewRequest(http.MethodGet, "/api/services", nil)
		req2.Header.Set("Authorization", "Bearer tok-xyz")

		require.Equal(t, RateLimitBucketKey(req1), RateLimitBucketKey(req2))
	})

	t.Run("given no identity headers, then falls back to remote addr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		assert.NotEmpty(t, RateLimitBucketKey(req))
	})
}
