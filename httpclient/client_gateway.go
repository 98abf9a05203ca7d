package httpclient

import "net/http"

// NewWithBase builds a Client the same way New() does — retry, then circuit
// breaker, then OpenTelemetry instrumentation — but starting from a caller
// supplied base transport instead of cfg.buildTransport(). Adapters use this
// to splice an auth-injecting RoundTripper (see auth.go) beneath the full
// resilience chain, since New() always builds its own base transport and
// NewWithTransport only adds the OTel layer.
func NewWithBase(base http.RoundTripper, opts ...Option) *Client {
	cfg := newConfig(opts...)

	withRetry := newRetryTransport(base, cfg)
	withBreaker := newCircuitBreakerTransport(withRetry, cfg)
	instrumented := newOtelTransport(withBreaker, cfg)

	httpClient := &http.Client{
		Transport: instrumented,
		Timeout:   cfg.httpConfig.Timeout,
	}

	return &Client{
		httpClient:     httpClient,
		config:         cfg,
		baseURL:        cfg.BaseURL,
		defaultHeaders: cfg.DefaultHeaders,
		debug:          cfg.Debug,
		generateCurl:   cfg.GenerateCurl,
		enableTrace:    cfg.EnableTrace,
	}
}
