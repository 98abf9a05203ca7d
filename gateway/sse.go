package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const sseKeepaliveInterval = 30 * time.Second

// SSEHandler serves GET /mcp: an open event carrying a fresh session id,
// followed by a periodic keepalive comment until the client disconnects
// (spec.md 4.6 "SSE on GET /mcp").
func SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := uuid.New().String()
	fmt.Fprintf(w, "event: open\ndata: {\"sessionId\":%q}\n\n", sessionID)
	flusher.Flush()

	ticker := time.NewTicker(sseKeepaliveInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
