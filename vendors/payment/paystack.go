// Package payment implements the "payment" category's vendor adapters:
// Paystack and Flutterwave (spec.md 4.4's worked example, SPEC_FULL.md
// section 10).
package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
	"github.com/thefixer3x/onasis-gateway-sub003/httpclient"
)

// PaystackConfig configures the Paystack adapter.
type PaystackConfig struct {
	SecretKey string
	BaseURL   string // default "https://api.paystack.co"
}

// Paystack is the Paystack adapter. Amounts cross its tool boundary in
// kobo (Paystack's native subunit); the VAL transform converts from the
// category's major-unit client schema (see Open Questions in DESIGN.md).
type Paystack struct {
	*adapter.BaseAdapter
	client *httpclient.Client
}

// NewPaystack builds a Paystack adapter with the full resilient pipeline:
// bearer auth, header-driven upstream rate limiting, retry, and circuit
// breaker, matching every other real adapter's client construction
// (spec.md 4.1).
func NewPaystack(cfg PaystackConfig) *Paystack {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	authed := httpclient.NewAuthTransport(http.DefaultTransport, httpclient.AuthConfig{
		Scheme: httpclient.AuthSchemeBearer,
		Token:  func() string { return cfg.SecretKey },
	})
	limited := httpclient.NewUpstreamRateLimitTransport(authed, "paystack")

	client := httpclient.NewWithBase(limited,
		httpclient.WithBaseURL(baseURL),
		httpclient.WithServiceName("paystack"),
		httpclient.WithRetryConfig(httpclient.GatewayRetryConfig()),
		httpclient.WithRetryClassifier(httpclient.GatewayClassifier),
		httpclient.WithBreakerConfig(httpclient.GatewayBreakerConfig()),
	)

	base := adapter.NewBaseAdapter("paystack", "Paystack", "v1", "payment")
	p := &Paystack{BaseAdapter: base, client: client}

	base.RegisterTool(adapter.Tool{
		Name:        "initialize-transaction",
		Description: "Initializes a Paystack transaction and returns an authorization URL.",
		InputSchema: &adapter.Schema{
			Type:     "object",
			Required: []string{"amount", "email"},
			Properties: map[string]*adapter.Schema{
				"amount":    {Type: "integer"},
				"email":     {Type: "string"},
				"reference": {Type: "string"},
			},
		},
	}, p.initializeTransaction)

	base.RegisterTool(adapter.Tool{
		Name:        "verify-transaction",
		Description: "Verifies a Paystack transaction by its reference.",
		InputSchema: &adapter.Schema{
			Type:     "object",
			Required: []string{"reference"},
			Properties: map[string]*adapter.Schema{
				"reference": {Type: "string"},
			},
		},
	}, p.verifyTransaction)

	return p
}

func (p *Paystack) Initialize(ctx context.Context) error {
	p.BaseAdapter.MarkReady()
	return nil
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (p *Paystack) initializeTransaction(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
	resp, err := p.client.Request("initialize-transaction").
		BodyJSON(args).
		Post(ctx, "/transaction/initialize")
	if err != nil {
		return nil, gwerrors.Upstream(0, "paystack unreachable", err)
	}
	return decodePaystackResponse(resp, "initialize-transaction")
}

func (p *Paystack) verifyTransaction(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
	reference, _ := args["reference"].(string)
	resp, err := p.client.Request("verify-transaction").
		Get(ctx, fmt.Sprintf("/transaction/verify/%s", url.PathEscape(reference)))
	if err != nil {
		return nil, gwerrors.Upstream(0, "paystack unreachable", err)
	}
	return decodePaystackResponse(resp, "verify-transaction")
}

func decodePaystackResponse(resp *httpclient.Response, tool string) (any, error) {
	if resp.IsError() {
		return nil, gwerrors.Upstream(resp.StatusCode, fmt.Sprintf("paystack %s returned %d", tool, resp.StatusCode), nil)
	}

	body, err := resp.Body()
	if err != nil {
		return nil, gwerrors.Internal(err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, gwerrors.Internal(err)
	}
	if !envelope.Status {
		return nil, gwerrors.Upstream(resp.StatusCode, "paystack: "+envelope.Message, nil)
	}

	var data map[string]any
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, gwerrors.Internal(err)
		}
	}
	return map[string]any{"status": true, "data": data}, nil
}

const paystackProbeTimeout = 5 * time.Second
