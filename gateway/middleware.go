package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/thefixer3x/onasis-gateway-sub003/httpserver"
)

// DotfileBlock rejects any request whose path contains a dotfile segment
// (e.g. /.env, /.git/config) before it reaches routing (spec.md 4.6 step 1).
func DotfileBlock() httpserver.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, segment := range strings.Split(r.URL.Path, "/") {
				if strings.HasPrefix(segment, ".") && segment != "" && segment != "." && segment != ".." {
					w.WriteHeader(http.StatusNotFound)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitBucketKey derives the per-client rate-limit bucket key from,
// in priority order, the MCP session id, the bearer token, the API key
// header, then the forwarded client IP — truncated SHA-256 so raw
// credentials never end up as an in-memory map key or Redis key fragment
// (spec.md 4.6 step 4).
func RateLimitBucketKey(r *http.Request) string {
	var identity string
	switch {
	case r.Header.Get("Mcp-Session-Id") != "":
		identity = "session:" + r.Header.Get("Mcp-Session-Id")
	case strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "):
		identity = "bearer:" + strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	case r.Header.Get("apikey") != "":
		identity = "apikey:" + r.Header.Get("apikey")
	case r.Header.Get("X-Forwarded-For") != "":
		identity = "ip:" + r.Header.Get("X-Forwarded-For")
	default:
		identity = "ip:" + r.RemoteAddr
	}

	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])[:16]
}
