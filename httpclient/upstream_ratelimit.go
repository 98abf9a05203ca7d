package httpclient

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// upstreamBucket tracks the vendor-reported rate-limit window for one
// adapter client, read from response headers rather than a local token
// bucket (spec.md 4.1 "Rate limiting": "the bucket is updated from the
// response's rate-limit headers"). This is distinct from rateLimitTransport,
// which enforces a locally configured x/time/rate limit; this bucket only
// ever reflects what the upstream told us.
type upstreamBucket struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time
	hasData   bool
}

// upstreamRateLimitTransport checks the bucket before dispatch and updates
// it from the response afterward.
type upstreamRateLimitTransport struct {
	next      http.RoundTripper
	bucket    *upstreamBucket
	adapterID string
	now       func() time.Time
}

// NewUpstreamRateLimitTransport wraps next with header-driven upstream
// rate-limit accounting for the given adapter.
func NewUpstreamRateLimitTransport(next http.RoundTripper, adapterID string) http.RoundTripper {
	return &upstreamRateLimitTransport{
		next:      next,
		bucket:    &upstreamBucket{},
		adapterID: adapterID,
		now:       time.Now,
	}
}

func (t *upstreamRateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.bucket.mu.Lock()
	now := t.now()
	if t.bucket.hasData && t.bucket.remaining <= 0 && t.bucket.resetAt.After(now) {
		wait := t.bucket.resetAt.Sub(now)
		t.bucket.mu.Unlock()
		return nil, gwerrors.RateLimitExceeded(int(wait.Seconds()))
	}
	t.bucket.mu.Unlock()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	t.updateFromResponse(resp)
	return resp, nil
}

// updateFromResponse parses x-ratelimit-remaining/x-ratelimit-reset. A
// response carrying neither header leaves the bucket untouched. When the
// reset header is absent but the bucket holds a remaining count and no reset
// time yet, a 1-hour window from now is assumed (spec.md 4.1).
func (t *upstreamRateLimitTransport) updateFromResponse(resp *http.Response) {
	remainingHeader := resp.Header.Get("x-ratelimit-remaining")
	resetHeader := resp.Header.Get("x-ratelimit-reset")

	if remainingHeader == "" && resetHeader == "" {
		return
	}

	t.bucket.mu.Lock()
	defer t.bucket.mu.Unlock()

	if remainingHeader != "" {
		if n, err := strconv.Atoi(remainingHeader); err == nil {
			t.bucket.remaining = n
			t.bucket.hasData = true
		}
	}

	if resetHeader != "" {
		if secs, err := strconv.ParseInt(resetHeader, 10, 64); err == nil {
			t.bucket.resetAt = time.Unix(secs, 0)
			t.bucket.hasData = true
		}
	} else if t.bucket.hasData && t.bucket.resetAt.IsZero() {
		t.bucket.resetAt = time.Now().Add(time.Hour)
	}
}

// Snapshot returns the bucket's current remaining/resetAt for health/debug
// reporting.
func (t *upstreamRateLimitTransport) Snapshot() (remaining int, resetAt time.Time, ok bool) {
	t.bucket.mu.Lock()
	defer t.bucket.mu.Unlock()
	return t.bucket.remaining, t.bucket.resetAt, t.bucket.hasData
}
