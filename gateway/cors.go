package gateway

import (
	"net/http"
	"strings"

	"github.com/thefixer3x/onasis-gateway-sub003/httpserver"
)

// CORSPolicy is the gateway's three-way origin matcher: an exact allow-list,
// a suffix allow-list (e.g. lanonasis.com matches app.lanonasis.com), and an
// optional localhost allowance for local development clients. The teacher's
// httpserver.CORS only supports an exact/"*" list, so the gateway builds its
// own matcher and reuses httpserver.CORS's header-writing shape.
type CORSPolicy struct {
	ExactOrigins     []string
	SuffixOrigins    []string
	AllowLocalhost   bool
	AllowCredentials bool
	ExposedHeaders   []string
}

func (p CORSPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	for _, o := range p.ExactOrigins {
		if o == origin {
			return true
		}
	}
	for _, suffix := range p.SuffixOrigins {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	if p.AllowLocalhost && isLocalhostOrigin(origin) {
		return true
	}
	return false
}

func isLocalhostOrigin(origin string) bool {
	lower := strings.ToLower(origin)
	lower = strings.TrimPrefix(lower, "http://")
	lower = strings.TrimPrefix(lower, "https://")
	host := lower
	if strings.HasPrefix(host, "[") {
		if idx := strings.IndexByte(host, ']'); idx >= 0 {
			host = host[:idx+1]
		}
	} else if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return host == "localhost" || host == "127.0.0.1" || host == "[::1]"
}

// CORS returns gateway middleware implementing the exact/suffix/localhost
// origin policy (spec.md 4.6 step 3). It mirrors httpserver.CORS's header
// semantics for preflight handling.
func CORS(policy CORSPolicy) httpserver.Middleware {
	exposeHeaders := strings.Join(policy.ExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && policy.allows(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			if policy.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if exposeHeaders != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID, apikey")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
