// Package gwerrors defines the gateway's error taxonomy: stable codes, HTTP
// status mapping, and JSON-RPC error code mapping. Every domain boundary
// (VAL, registry, auth bridge, base adapter) wraps its failures into a *Error
// exactly once, at the boundary, per the propagation policy.
package gwerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the taxonomy buckets from spec.md
// section 7. Kinds drive HTTP status and JSON-RPC code mapping; they are
// never surfaced to callers directly.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindUnknownTarget Kind = "unknown_target"
	KindUnsupported   Kind = "unsupported"
	KindNotReady      Kind = "not_ready"
	KindAuth          Kind = "auth"
	KindRateLimit     Kind = "rate_limit"
	KindCircuitOpen   Kind = "circuit_open"
	KindUpstream      Kind = "upstream"
	KindInternal      Kind = "internal"
)

// Stable codes referenced by spec.md sections 4.3, 4.4, 4.7, 4.8 and 7.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnknownCategory      = "UNKNOWN_CATEGORY"
	CodeUnknownOperation     = "UNKNOWN_OPERATION"
	CodeToolNotFound         = "TOOL_NOT_FOUND"
	CodeFunctionNotFound     = "FUNCTION_NOT_FOUND"
	CodeOperationUnsupported = "OPERATION_NOT_SUPPORTED"
	CodeAdapterNotExecutable = "ADAPTER_NOT_EXECUTABLE"
	CodeClientMissing        = "CLIENT_MISSING"
	CodeRegistryNotReady     = "ADAPTER_REGISTRY_NOT_READY"
	CodeNoVendors            = "NO_VENDORS"
	CodeAuthGatewayDown      = "AUTH_GATEWAY_UNAVAILABLE"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	CodeCircuitOpen          = "CIRCUIT_OPEN"
	CodeUpstreamError        = "UPSTREAM_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

// Error is the gateway's wire-level error shape. It implements error and
// carries enough detail to render both the REST envelope
// ({error:{code,message,requestId}}) and a JSON-RPC error object.
type Error struct {
	Kind    Kind
	Code    string
	Status  int // HTTP status to use for the REST envelope
	Message string
	Meta    map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithMeta attaches additional metadata and returns the same error for chaining.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New builds an Error of the given kind/code/status.
func New(kind Kind, code string, status int, message string) *Error {
	return &Error{Kind: kind, Code: code, Status: status, Message: message}
}

// Wrap builds an Error that wraps an underlying cause, preserving it for
// errors.Is/As while attaching a stable code at the domain boundary.
func Wrap(kind Kind, code string, status int, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Status: status, Message: message, cause: cause}
}

// As is a typed convenience over errors.As for *Error.
func As(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// Convenience constructors for the most frequently raised errors.

func ValidationError(message string) *Error {
	return New(KindValidation, CodeValidation, http.StatusBadRequest, message)
}

func UnknownCategory(category string) *Error {
	return New(KindUnknownTarget, CodeUnknownCategory, http.StatusNotFound,
		fmt.Sprintf("unknown category %q", category)).WithMeta("category", category)
}

func UnknownOperation(category, operation string) *Error {
	return New(KindUnknownTarget, CodeUnknownOperation, http.StatusNotFound,
		fmt.Sprintf("unknown operation %q for category %q", operation, category)).
		WithMeta("category", category).WithMeta("operation", operation)
}

func ToolNotFound(toolID string) *Error {
	return New(KindUnknownTarget, CodeToolNotFound, http.StatusNotFound,
		fmt.Sprintf("tool %q not found", toolID)).WithMeta("tool", toolID)
}

func FunctionNotFound(name string) *Error {
	return New(KindUnknownTarget, CodeFunctionNotFound, http.StatusNotFound,
		fmt.Sprintf("function %q not found", name)).WithMeta("function", name)
}

// LazyModeToolBlocked is returned when a non-meta tool name is called while
// the gateway is running in lazy mode (spec.md 4.5: "any other name returns
// -32601 with a message instructing the caller to use gateway-intent +
// gateway-execute").
func LazyModeToolBlocked(name string) *Error {
	return New(KindUnknownTarget, CodeToolNotFound, http.StatusNotFound,
		fmt.Sprintf("tool %q is not available in lazy mode; use gateway-intent to find the right category/operation, then gateway-execute to invoke it", name)).
		WithMeta("tool", name)
}

func OperationNotSupported(vendor, operation string) *Error {
	return New(KindUnsupported, CodeOperationUnsupported, http.StatusNotImplemented,
		fmt.Sprintf("vendor %q does not support operation %q", vendor, operation)).
		WithMeta("vendor", vendor).WithMeta("operation", operation)
}

func AdapterNotExecutable(adapterID string) *Error {
	return New(KindUnsupported, CodeAdapterNotExecutable, http.StatusNotImplemented,
		fmt.Sprintf("adapter %q is a mock and cannot execute tools", adapterID)).
		WithMeta("adapter", adapterID)
}

func ClientMissing(adapterID string) *Error {
	return New(KindInternal, CodeClientMissing, http.StatusInternalServerError,
		fmt.Sprintf("adapter %q has no HTTP client configured", adapterID)).
		WithMeta("adapter", adapterID)
}

func RegistryNotReady() *Error {
	return New(KindNotReady, CodeRegistryNotReady, http.StatusServiceUnavailable,
		"adapter registry is not ready")
}

func NoVendors(category string) *Error {
	return New(KindNotReady, CodeNoVendors, http.StatusServiceUnavailable,
		fmt.Sprintf("category %q has no registered vendors", category)).
		WithMeta("category", category)
}

func AuthGatewayUnavailable(cause error) *Error {
	return Wrap(KindAuth, CodeAuthGatewayDown, http.StatusBadGateway,
		"auth service did not respond in time", cause)
}

func Unauthorized(message string) *Error {
	return New(KindAuth, CodeUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindAuth, CodeForbidden, http.StatusForbidden, message)
}

func RateLimitExceeded(retryAfterSeconds int) *Error {
	return New(KindRateLimit, CodeRateLimitExceeded, http.StatusTooManyRequests,
		"rate limit exceeded").WithMeta("retry_after_seconds", retryAfterSeconds)
}

func CircuitOpen(adapterID string) *Error {
	return New(KindCircuitOpen, CodeCircuitOpen, http.StatusServiceUnavailable,
		fmt.Sprintf("circuit open for adapter %q", adapterID)).WithMeta("adapter", adapterID)
}

func Upstream(status int, message string, cause error) *Error {
	return Wrap(KindUpstream, CodeUpstreamError, status, message, cause)
}

func Internal(cause error) *Error {
	return Wrap(KindInternal, CodeInternal, http.StatusInternalServerError,
		"internal error", cause)
}

// JSONRPCCode maps a gateway error Kind to a JSON-RPC 2.0 error code per
// spec.md section 7: -32601 method/target not found, -32602 invalid params,
// -32000 generic server error.
func (e *Error) JSONRPCCode() int {
	switch e.Kind {
	case KindUnknownTarget:
		return -32601
	case KindValidation:
		return -32602
	default:
		return -32000
	}
}
