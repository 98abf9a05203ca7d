// Package banking implements the "banking" category's vendor adapter: BAP
// (spec.md 4.4, DESIGN.md's Open Questions decision on BAP tool naming).
package banking

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
	"github.com/thefixer3x/onasis-gateway-sub003/httpclient"
	"github.com/thefixer3x/onasis-gateway-sub003/val"
)

// BAPConfig configures the BAP adapter.
type BAPConfig struct {
	HMACUser   string
	HMACSecret string
	BaseURL    string // default "https://api.bap.example/v1"
}

// BAP is the Bank Account Provider adapter. Its upstream names operations
// in PascalCase (InitiateTransfer, QueryTransfer, ValidateAccountNumber);
// the gateway registers kebab-case tool names matching every other
// adapter's convention and maps the case at the handler boundary, per
// DESIGN.md's Open Questions decision ("BAP tool-name canonicalization").
//
// Source material inconsistently calls the account-lookup operation both
// "validate-account-number" and "account-name-verify"; this adapter
// registers only "validate-account-number" as the canonical tool name.
type BAP struct {
	*adapter.BaseAdapter
	client *httpclient.Client
}

// NewBAP builds a BAP adapter authenticated via HMAC-SHA1 request signing
// (spec.md 4.1's hmac scheme), with the same retry/breaker pipeline every
// other real adapter's client uses.
func NewBAP(cfg BAPConfig) *BAP {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.bap.example/v1"
	}

	authed := httpclient.NewAuthTransport(http.DefaultTransport, httpclient.AuthConfig{
		Scheme:     httpclient.AuthSchemeHMAC,
		HMACUser:   cfg.HMACUser,
		HMACSecret: cfg.HMACSecret,
		HMACPrefix: "HMAC-SHA1",
	})
	limited := httpclient.NewUpstreamRateLimitTransport(authed, "bap")

	client := httpclient.NewWithBase(limited,
		httpclient.WithBaseURL(baseURL),
		httpclient.WithServiceName("bap"),
		httpclient.WithRetryConfig(httpclient.GatewayRetryConfig()),
		httpclient.WithRetryClassifier(httpclient.GatewayClassifier),
		httpclient.WithBreakerConfig(httpclient.GatewayBreakerConfig()),
	)

	base := adapter.NewBaseAdapter("bap", "BAP", "v1", "banking")
	b := &BAP{BaseAdapter: base, client: client}

	base.RegisterTool(adapter.Tool{
		Name:        "initiate-transfer",
		Description: "Initiates a bank transfer via BAP.",
		InputSchema: &adapter.Schema{
			Type:     "object",
			Required: []string{"accountNumber", "bankCode", "amount"},
			Properties: map[string]*adapter.Schema{
				"accountNumber": {Type: "string"},
				"bankCode":      {Type: "string"},
				"amount":        {Type: "number", Minimum: val.ZeroFloat()},
				"narration":     {Type: "string"},
			},
		},
	}, b.initiateTransfer)

	base.RegisterTool(adapter.Tool{
		Name:        "query-transfer",
		Description: "Queries a previously initiated BAP transfer by reference.",
		InputSchema: &adapter.Schema{
			Type:     "object",
			Required: []string{"reference"},
			Properties: map[string]*adapter.Schema{
				"reference": {Type: "string"},
			},
		},
	}, b.queryTransfer)

	base.RegisterTool(adapter.Tool{
		Name:        "validate-account-number",
		Description: "Resolves an account number and bank code to an account name.",
		InputSchema: &adapter.Schema{
			Type:     "object",
			Required: []string{"accountNumber", "bankCode"},
			Properties: map[string]*adapter.Schema{
				"accountNumber": {Type: "string"},
				"bankCode":      {Type: "string"},
			},
		},
	}, b.validateAccountNumber)

	return b
}

func (b *BAP) Initialize(ctx context.Context) error {
	b.BaseAdapter.MarkReady()
	return nil
}

type bapEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (b *BAP) initiateTransfer(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
	resp, err := b.client.Request("initiate-transfer").
		BodyJSON(toPascalCasePayload(args)).
		Post(ctx, "/InitiateTransfer")
	if err != nil {
		return nil, gwerrors.Upstream(0, "bap unreachable", err)
	}
	return decodeBAPResponse(resp, "initiate-transfer")
}

func (b *BAP) queryTransfer(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
	resp, err := b.client.Request("query-transfer").
		BodyJSON(toPascalCasePayload(args)).
		Post(ctx, "/QueryTransfer")
	if err != nil {
		return nil, gwerrors.Upstream(0, "bap unreachable", err)
	}
	return decodeBAPResponse(resp, "query-transfer")
}

func (b *BAP) validateAccountNumber(ctx context.Context, args map[string]any, rc *adapter.RequestContext) (any, error) {
	resp, err := b.client.Request("validate-account-number").
		BodyJSON(toPascalCasePayload(args)).
		Post(ctx, "/ValidateAccountNumber")
	if err != nil {
		return nil, gwerrors.Upstream(0, "bap unreachable", err)
	}
	return decodeBAPResponse(resp, "validate-account-number")
}

// toPascalCasePayload maps the gateway's camelCase field names to BAP's own
// PascalCase wire format — the case mapping happens here, at the handler
// boundary, not in the VAL transform (DESIGN.md's canonicalization decision).
func toPascalCasePayload(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[pascalCase(k)] = v
	}
	return out
}

func pascalCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func decodeBAPResponse(resp *httpclient.Response, tool string) (any, error) {
	if resp.IsError() {
		return nil, gwerrors.Upstream(resp.StatusCode, fmt.Sprintf("bap %s returned %d", tool, resp.StatusCode), nil)
	}

	body, err := resp.Body()
	if err != nil {
		return nil, gwerrors.Internal(err)
	}

	var envelope bapEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, gwerrors.Internal(err)
	}
	if !envelope.Success {
		return nil, gwerrors.Upstream(resp.StatusCode, "bap: "+envelope.Message, nil)
	}

	var result map[string]any
	if len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, &result); err != nil {
			return nil, gwerrors.Internal(err)
		}
	}
	return map[string]any{"success": true, "result": result}, nil
}
