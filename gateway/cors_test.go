package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPolicy() CORSPolicy {
	return CORSPolicy{
		ExactOrigins:   []string{"https://partner.example.com"},
		SuffixOrigins:  []string{".lanonasis.com"},
		AllowLocalhost: true,
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(newTestPolicy())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("given an exact-list origin, then allows it", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://partner.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "https://partner.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("given a suffix-matching origin, then allows it", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.lanonasis.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "https://app.lanonasis.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("given a localhost origin when allowed, then allows it", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("given an unrelated origin, then does not set the allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.org")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("given an OPTIONS preflight, then returns 204 with preflight headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://partner.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestIsLocalhostOrigin(t *testing.T) {
	assert.True(t, isLocalhostOrigin("http://localhost:3000"))
	assert.True(t, isLocalhostOrigin("http://127.0.0.1:8080"))
	assert.False(t, isLocalhostOrigin("https://example.com"))
}
