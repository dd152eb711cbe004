package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DecisionSSE handles Server-Sent Events streaming of decision records.
// GET /api/decisions/stream?match_id=...
//
// The stream stays open until the client disconnects; every decision the
// engine makes for the match is pushed as a "decision" event.
func (h *Handlers) DecisionSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	// The server's write timeout would sever the stream mid-subscription;
	// clear the deadline for this response only.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	matchID := r.URL.Query().Get("match_id")
	records, cancel := h.engine.Subscribe(matchID)
	defer cancel()

	writeSSEEvent(w, "ready", nil)
	flusher.Flush()

	for {
		select {
		case rec, open := <-records:
			if !open {
				writeSSEEvent(w, "done", nil)
				flusher.Flush()
				return
			}
			writeSSEEvent(w, "decision", rec)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
