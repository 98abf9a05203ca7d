package gateway

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/discovery"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
	"github.com/thefixer3x/onasis-gateway-sub003/httpserver"
)

// JSON-RPC 2.0 methods recognized on POST /mcp (spec.md 4.6, 6.).
const (
	methodInitialize               = "initialize"
	methodNotificationsInitialized = "notifications/initialized"
	methodPing                     = "ping"
	methodToolsList                = "tools/list"
	methodToolsCall                = "tools/call"
)

const protocolVersion = "2024-11-05"

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// VersionInfo is the gateway's build-time version stamp, surfaced in
// initialize's serverInfo and the service manifest (SPEC_FULL.md section 11).
type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// RPCHandler implements JSON-RPC 2.0 dispatch over the adapter registry and
// discovery layer, in either lazy (meta-tool) or full-catalog mode.
type RPCHandler struct {
	Registry    *adapter.Registry
	Discovery   *discovery.Layer
	LazyMode    bool
	VersionInfo VersionInfo
}

func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPC(w, nil, nil, &rpcError{Code: -32700, Message: "parse error"})
		return
	}

	result, rpcErr := h.dispatch(r.Context(), req, newRequestContext(r))
	writeRPC(w, req.ID, result, rpcErr)
}

func (h *RPCHandler) dispatch(ctx context.Context, req rpcRequest, rc *adapter.RequestContext) (any, *rpcError) {
	switch req.Method {
	case methodInitialize:
		return map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      h.VersionInfo,
		}, nil

	case methodNotificationsInitialized, methodPing:
		return map[string]any{}, nil

	case methodToolsList:
		return map[string]any{"tools": h.listTools()}, nil

	case methodToolsCall:
		var params toolsCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &rpcError{Code: -32602, Message: "invalid params"}
		}
		result, err := h.callTool(ctx, params.Name, params.Arguments, rc)
		if err != nil {
			return nil, errToRPC(err)
		}
		return result, nil

	default:
		return nil, &rpcError{Code: -32601, Message: "method not found: " + req.Method}
	}
}

func (h *RPCHandler) listTools() []adapter.Tool {
	if h.LazyMode {
		return discovery.Tools()
	}
	return h.Registry.AllTools()
}

func (h *RPCHandler) callTool(ctx context.Context, name string, args map[string]any, rc *adapter.RequestContext) (any, error) {
	if h.LazyMode {
		if discovery.IsMetaTool(name) {
			return h.Discovery.Dispatch(ctx, name, args, rc)
		}
		return nil, gwerrors.LazyModeToolBlocked(name)
	}
	return h.Registry.CallTool(ctx, name, args, rc)
}

func errToRPC(err error) *rpcError {
	if ge, ok := gwerrors.As(err); ok {
		return &rpcError{Code: ge.JSONRPCCode(), Message: ge.Message}
	}
	log.Error().Err(err).Msg("unmapped error reaching jsonrpc boundary")
	return &rpcError{Code: -32000, Message: "internal error"}
}

func writeRPC(w http.ResponseWriter, id json.RawMessage, result any, rpcErr *rpcError) {
	resp := rpcResponse{JSONRPC: "2.0", ID: id, Result: result, Error: rpcErr}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newRequestContext(r *http.Request) *adapter.RequestContext {
	return adapter.NewRequestContext(httpserver.RequestIDFromContext(r.Context()), r.Header)
}
