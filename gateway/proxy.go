package gateway

import (
	"io"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
)

var functionNamePattern = regexp.MustCompile(`^[A-Za-z_0-9-]+$`)

// EdgeFunctionProxy forwards requests under /(api/v1/)?functions/v1/{name}
// to a remote edge-function fleet (spec.md 4.6 "Central proxy routes").
// The function name is validated before any outbound call is attempted.
type EdgeFunctionProxy struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (p *EdgeFunctionProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !functionNamePattern.MatchString(name) {
		http.Error(w, "invalid function name", http.StatusBadRequest)
		return
	}

	targetURL := p.BaseURL + "/functions/v1/" + name
	if r.URL.RawQuery != "" {
		targetURL += "?" + r.URL.RawQuery
	}

	var body io.Reader = r.Body
	if r.Body == nil || r.Body == http.NoBody {
		body = nil
	}

	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, body)
	if err != nil {
		http.Error(w, "bad upstream request", http.StatusInternalServerError)
		return
	}
	outReq.Header.Set("Content-Type", "application/json")
	if auth := r.Header.Get("Authorization"); auth != "" {
		outReq.Header.Set("Authorization", auth)
	}
	if apikey := r.Header.Get("apikey"); apikey != "" {
		outReq.Header.Set("apikey", apikey)
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(outReq)
	if err != nil {
		http.Error(w, "upstream unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("X-Gateway-Route", "central-supabase-proxy")
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
