package httpclient

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // matches the vendor-mandated signing algorithm under test
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRoundTripper struct {
	lastReq *http.Request
}

func (r *recordingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r.lastReq = req
	return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header)}, nil
}

func TestAuthTransport_RoundTrip(t *testing.T) {
	t.Run("given bearer scheme, then sets Authorization header", func(t *testing.T) {
		rec := &recordingRoundTripper{}
		transport := NewAuthTransport(rec, AuthConfig{
			Scheme: AuthSchemeBearer,
			Token:  func() string { return "tok123" },
		})

		req := httptest.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok123", rec.lastReq.Header.Get("Authorization"))
	})

	t.Run("given oauth2 scheme with no token, then leaves Authorization unset", func(t *testing.T) {
		rec := &recordingRoundTripper{}
		transport := NewAuthTransport(rec, AuthConfig{
			Scheme: AuthSchemeOAuth2,
			Token:  func() string { return "" },
		})

		req := httptest.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)
		assert.Empty(t, rec.lastReq.Header.Get("Authorization"))
	})

	t.Run("given apikey scheme with header configured, then sets header not query", func(t *testing.T) {
		rec := &recordingRoundTripper{}
		transport := NewAuthTransport(rec, AuthConfig{
			Scheme:       AuthSchemeAPIKey,
			APIKeyHeader: "X-API-Key",
			APIKeyValue:  "secret-key",
		})

		req := httptest.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "secret-key", rec.lastReq.Header.Get("X-API-Key"))
		assert.Empty(t, rec.lastReq.URL.Query().Get("apikey"))
	})

	t.Run("given apikey scheme with query param configured, then sets query param", func(t *testing.T) {
		rec := &recordingRoundTripper{}
		transport := NewAuthTransport(rec, AuthConfig{
			Scheme:      AuthSchemeAPIKey,
			APIKeyParam: "apikey",
			APIKeyValue: "secret-key",
		})

		req := httptest.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "secret-key", rec.lastReq.URL.Query().Get("apikey"))
	})

	t.Run("given basic scheme, then sets base64 user:password", func(t *testing.T) {
		rec := &recordingRoundTripper{}
		transport := NewAuthTransport(rec, AuthConfig{
			Scheme:   AuthSchemeBasic,
			Username: "alice",
			Password: "s3cret",
		})

		req := httptest.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)

		user, pass, ok := (&http.Request{Header: rec.lastReq.Header}).BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "s3cret", pass)
	})

	t.Run("given hmac scheme, then signs method+path+timestamp+bodyhash and sets Date header", func(t *testing.T) {
		rec := &recordingRoundTripper{}
		transport := NewAuthTransport(rec, AuthConfig{
			Scheme:     AuthSchemeHMAC,
			HMACUser:   "svc-user",
			HMACSecret: "top-secret",
		})

		body := strings.NewReader(`{"amount":100}`)
		req := httptest.NewRequest(http.MethodPost, "https://api.example.com/v1/charge", body)
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)

		authHeader := rec.lastReq.Header.Get("Authorization")
		require.True(t, strings.HasPrefix(authHeader, "HMAC-SHA1 svc-user:"))
		assert.NotEmpty(t, rec.lastReq.Header.Get("Date"))
	})

	t.Run("given unchanged base transport, then downstream round tripper observes the cloned request untouched for unknown scheme", func(t *testing.T) {
		rec := &recordingRoundTripper{}
		transport := NewAuthTransport(rec, AuthConfig{Scheme: ""})

		req := httptest.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
		req.Header.Set("X-Existing", "kept")
		_, err := transport.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "kept", rec.lastReq.Header.Get("X-Existing"))
	})
}

func TestSignHMACRequest_MatchesReferenceComputation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://api.example.com/v1/charge", nil)
	body := []byte(`{"amount":100}`)

	cfg := AuthConfig{HMACUser: "svc-user", HMACSecret: "top-secret"}
	signHMACRequest(req, cfg, body)

	authHeader := req.Header.Get("Authorization")
	parts := strings.SplitN(strings.TrimPrefix(authHeader, "HMAC-SHA1 "), ":", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "svc-user", parts[0])

	bodyHash := sha256.Sum256(body)
	bodyHashB64 := base64.StdEncoding.EncodeToString(bodyHash[:])

	dateHeader := req.Header.Get("Date")
	parsedTime, err := time.Parse(time.RFC1123, dateHeader)
	require.NoError(t, err)
	unixSeconds := strconv.FormatInt(parsedTime.Unix(), 10)

	message := req.Method + req.URL.Path + unixSeconds + bodyHashB64
	mac := hmac.New(sha1.New, []byte(cfg.HMACSecret))
	mac.Write([]byte(message))
	wantSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, wantSig, parts[1])
}
