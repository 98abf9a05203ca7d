package gateway

import (
	"bytes"
	"io"
	"net/http"
)

// AIChatRouter implements POST /api/v1/ai-chat: try the primary AI router,
// fall back to a secondary (Supabase) endpoint on failure, and stamp which
// one served the response (spec.md section 6).
type AIChatRouter struct {
	PrimaryURL  string
	FallbackURL string
	HTTPClient  *http.Client
}

func (a *AIChatRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	if resp, route, ok := a.tryRoute(r, client, a.PrimaryURL, body, "ai-router"); ok {
		a.forward(w, resp, route)
		return
	}
	if resp, route, ok := a.tryRoute(r, client, a.FallbackURL, body, "supabase"); ok {
		a.forward(w, resp, route)
		return
	}

	http.Error(w, "both AI routes unavailable", http.StatusBadGateway)
}

func (a *AIChatRouter) tryRoute(r *http.Request, client *http.Client, url string, body []byte, route string) (*http.Response, string, bool) {
	if url == "" {
		return nil, "", false
	}
	outReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", false
	}
	outReq.Header.Set("Content-Type", "application/json")
	if auth := r.Header.Get("Authorization"); auth != "" {
		outReq.Header.Set("Authorization", auth)
	}

	resp, err := client.Do(outReq)
	if err != nil || resp.StatusCode >= 500 {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, "", false
	}
	return resp, route, true
}

func (a *AIChatRouter) forward(w http.ResponseWriter, resp *http.Response, route string) {
	defer resp.Body.Close()
	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.Header().Set("X-AI-Route", route)
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
