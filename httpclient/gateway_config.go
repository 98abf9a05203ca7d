package httpclient

import "time"

// GatewayBreakerConfig returns the circuit breaker configuration every
// per-adapter client uses: five consecutive failures trip the circuit, a
// 60s cooldown moves it to half-open, and a single probe success in
// half-open closes it again (spec.md "Circuit Breaker State").
func GatewayBreakerConfig() BreakerConfig {
	cfg := DefaultBreakerConfig()
	cfg.MaxRequests = 1
	cfg.Timeout = 60 * time.Second
	cfg.ConsecutiveFailures = 5
	cfg.Classifier = DefaultBreakerClassifier
	return cfg
}

// GatewayRetryConfig returns the retry configuration spec.md's "Retry
// policy" names: up to 3 attempts (the first plus 2 retries), exponential
// backoff baseDelay·2^(attempt-1) starting at 500ms.
func GatewayRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		MaxElapsedTime:  DefaultMaxElapsedTime,
		Multiplier:      DefaultMultiplier,
		JitterFactor:    DefaultJitterFactor,
	}
}

// GatewayClassifier retries every 5xx status, unlike the teacher's
// DefaultClassifier (which excludes bare 500 as likely-permanent). spec.md's
// "Retry policy" classifies failures strictly by status class — 4xx
// non-retryable, 429 retryable, 5xx and network retryable — with no carve-out
// for 500, so the gateway uses the broader StatusCodeClassifier instead of
// the teacher's narrower default.
var GatewayClassifier = StatusCodeClassifier(
	500, 502, 503, 504, 429,
)
