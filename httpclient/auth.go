package httpclient

import (
	"bytes"
	"io"
	"net/http"
)

// AuthScheme identifies which credential-injection strategy an
// authTransport applies before dispatch (spec.md 4.1 "Authentication
// injection").
type AuthScheme string

const (
	AuthSchemeBearer AuthScheme = "bearer"
	AuthSchemeAPIKey AuthScheme = "apikey"
	AuthSchemeBasic  AuthScheme = "basic"
	AuthSchemeHMAC   AuthScheme = "hmac"
	AuthSchemeOAuth2 AuthScheme = "oauth2"
)

// AuthConfig configures one of the five authentication injection schemes.
// Only the fields relevant to Scheme need be set.
type AuthConfig struct {
	Scheme AuthScheme

	// bearer / oauth2
	Token func() string // called per-request so a refreshed token is picked up

	// apikey
	APIKeyHeader string // header name, e.g. "X-API-Key"; empty means use APIKeyParam
	APIKeyParam  string // query parameter name, e.g. "apikey"
	APIKeyValue  string

	// basic
	Username string
	Password string

	// hmac
	HMACUser   string
	HMACSecret string
	HMACPrefix string // e.g. "HMAC-SHA1", placed before "<user>:<sig>"
}

// NewAuthTransport wraps base with a RoundTripper that injects credentials
// per cfg.Scheme before every request. Adapters splice it beneath the full
// resilience chain via NewWithBase.
func NewAuthTransport(base http.RoundTripper, cfg AuthConfig) http.RoundTripper {
	return &authTransport{base: base, cfg: cfg}
}

type authTransport struct {
	base http.RoundTripper
	cfg  AuthConfig
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	var bodyBytes []byte
	if t.cfg.Scheme == AuthSchemeHMAC && req.Body != nil && req.Body != http.NoBody {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		clone.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	switch t.cfg.Scheme {
	case AuthSchemeBearer, AuthSchemeOAuth2:
		if t.cfg.Token != nil {
			if tok := t.cfg.Token(); tok != "" {
				clone.Header.Set("Authorization", "Bearer "+tok)
			}
		}
	case AuthSchemeAPIKey:
		if t.cfg.APIKeyHeader != "" {
			clone.Header.Set(t.cfg.APIKeyHeader, t.cfg.APIKeyValue)
		} else if t.cfg.APIKeyParam != "" {
			q := clone.URL.Query()
			q.Set(t.cfg.APIKeyParam, t.cfg.APIKeyValue)
			clone.URL.RawQuery = q.Encode()
		}
	case AuthSchemeBasic:
		clone.SetBasicAuth(t.cfg.Username, t.cfg.Password)
	case AuthSchemeHMAC:
		signHMACRequest(clone, t.cfg, bodyBytes)
	}

	return t.base.RoundTrip(clone)
}
