package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
	"github.com/thefixer3x/onasis-gateway-sub003/httpclient"
)

// FlutterwaveConfig configures the Flutterwave adapter.
type FlutterwaveConfig struct {
	SecretKey string
	BaseURL   string // default "https://api.flutterwave.com/v3"
}

// Flutterwave is the Flutterwave adapter. Unlike Paystack, Flutterwave's API
// takes amounts in major units already, so no unit conversion happens at
// this boundary (see Open Questions in DESIGN.md).
type Flutterwave struct {
	*adapter.BaseAdapter
	client *httpclient.Client
}

// NewFlutterwave builds a Flutterwave adapter with the same resilient
// pipeline shape as Paystack: bearer auth, header-driven upstream rate
// limiting, retry, and circuit breaker (spec.md 4.1).
func NewFlutterwave(cfg FlutterwaveConfig) *Flutterwave {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com/v3"
	}

	authed := httpclient.NewAuthTransport(http.DefaultTransport, httpclient.AuthConfig{
		Scheme: httpclient.AuthSchemeBearer,
		Token:  func() string { return cfg.SecretKey },
	})
	limited := httpclient.NewUpstreamRateLimitTransport(authed, "flutterwave")

	client := httpclient.NewWithBase(limited,
		httpclient.WithBaseURL(baseURL),
		httpclient.WithServiceName("flutterwave"),
		httpclient.WithRetryConfig(httpclient.GatewayRetryConfig()),
		httpclient.WithRetryClassifier(httpclient.GatewayClassifier),
		httpclient.WithBreakerConfig(httpclient.GatewayBreakerConfig()),
	)

	base := adapter.NewBaseAdapter("flutterwave", "Flutterwave", "v3", "payment")
	f := &Flutterwave{BaseAdapter: base, client: client}

	base.RegisterTool(adapter.Tool{
		Name:        "initialize-payment",
		Description: "Initializes a Flutterwave payment and returns a checkout link.",
		InputSchema: &adapter.Schema{
			Type:     "object",
			Required: []string{"amount", "email", "tx_ref"},
			Properties: map[string]*adapter.Schema{
				"amount":   {Type: "integer"},
				"email":    {Type: "string"},
				"currency": {Type: "string"},
				"tx_ref":   {Type: "string"},
			},
		},
	}, f.initializePayment)

	// Canonical tool name per DESIGN.md's Open Questions decision: the
	// verification transform pins tx_ref over transaction_id.
	base.RegisterTool(adapter.Tool{
		Name:        "verify-by-reference",
		Description: "Verifies a Flutterwave transaction by its tx_ref.",
		InputSchema: &adapter.Schema{
			Type:     "object",
			Required: []string{"tx_ref"},
			Properties: map[string]*adapter.Schema{
				"tx_ref": {Type: "string"},
			},
		},
	}, f.verifyByReference)

	return f
}

func (f *Flutterwave) Initialize(ctx context.Context) error {
	f.BaseAdapter.MarkReady()
	return nil
}

type flutterwaveEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *Flutterwave) initializePayment(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
	resp, err := f.client.Request("initialize-payment").
		BodyJSON(args).
		Post(ctx, "/payments")
	if err != nil {
		return nil, gwerrors.Upstream(0, "flutterwave unreachable", err)
	}
	return decodeFlutterwaveResponse(resp, "initialize-payment")
}

func (f *Flutterwave) verifyByReference(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
	txRef, _ := args["tx_ref"].(string)
	resp, err := f.client.Request("verify-by-reference").
		Get(ctx, fmt.Sprintf("/transactions/verify_by_reference?tx_ref=%s", url.QueryEscape(txRef)))
	if err != nil {
		return nil, gwerrors.Upstream(0, "flutterwave unreachable", err)
	}
	return decodeFlutterwaveResponse(resp, "verify-by-reference")
}

func decodeFlutterwaveResponse(resp *httpclient.Response, tool string) (any, error) {
	if resp.IsError() {
		return nil, gwerrors.Upstream(resp.StatusCode, fmt.Sprintf("flutterwave %s returned %d", tool, resp.StatusCode), nil)
	}

	body, err := resp.Body()
	if err != nil {
		return nil, gwerrors.Internal(err)
	}

	var envelope flutterwaveEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, gwerrors.Internal(err)
	}
	if envelope.Status != "success" {
		return nil, gwerrors.Upstream(resp.StatusCode, "flutterwave: "+envelope.Message, nil)
	}

	var data map[string]any
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, gwerrors.Internal(err)
		}
	}
	return map[string]any{"status": "success", "data": data}, nil
}
