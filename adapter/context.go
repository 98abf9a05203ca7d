package adapter

import (
	"net/http"
	"strings"
)

// RequestContext is the per-request record constructed by the Gateway Core
// and threaded ambient data through to adapters (spec.md section 3, "Request
// Context"). It never outlives a single request/response cycle.
type RequestContext struct {
	RequestID     string
	SessionID     string
	Authorization string // bearer token, without the "Bearer " prefix
	APIKey        string
	ClientID      string
	ProjectScope  string

	// Headers carries the subset of inbound headers selectively forwarded
	// to upstreams; keys are canonical (http.CanonicalHeaderKey).
	Headers map[string]string
}

// Header returns a forwarded header value, or "" if absent.
func (c *RequestContext) Header(name string) string {
	if c == nil || c.Headers == nil {
		return ""
	}
	return c.Headers[name]
}

// forwardedHeaders are the inbound headers the Gateway Core selectively
// forwards to upstreams (spec.md section 6, "Headers honored on inbound
// requests").
var forwardedHeaders = []string{
	"Authorization", "X-Api-Key", "Client-Id", "X-Project-Scope",
	"X-Session-Id", "X-Request-Id", "Apikey",
}

// NewRequestContext builds a RequestContext from an inbound HTTP header set.
func NewRequestContext(requestID string, h http.Header) *RequestContext {
	headers := make(map[string]string, len(forwardedHeaders))
	for _, name := range forwardedHeaders {
		if v := h.Get(name); v != "" {
			headers[http.CanonicalHeaderKey(name)] = v
		}
	}

	rc := &RequestContext{
		RequestID:    requestID,
		SessionID:    h.Get("X-Session-Id"),
		APIKey:       firstNonEmpty(h.Get("X-Api-Key"), h.Get("Apikey")),
		ClientID:     h.Get("Client-Id"),
		ProjectScope: h.Get("X-Project-Scope"),
		Headers:      headers,
	}
	if bearer := h.Get("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
		rc.Authorization = strings.TrimPrefix(bearer, "Bearer ")
	}
	return rc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
