package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/dicegame-go/internal/model"
)

const (
	// Time between SSE keepalive comments
	keepalivePeriod = 30 * time.Second
)

// ServeSSE streams frames to an HTTP client as server-sent events. When room
// is non-empty the client is subscribed to it; every SSE client receives
// lobby-wide events.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, room model.RoomID, label string) {
	h.serveSSE(w, r, room, label, keepalivePeriod)
}

func (h *Hub) serveSSE(w http.ResponseWriter, r *http.Request, room model.RoomID, label string, keepalive time.Duration) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient("sse", label)
	h.Register(client)
	defer h.Unregister(client)

	connected, _ := encode(Envelope{Event: EventConnected, GameID: string(room)})
	if _, err := w.Write(formatSSEMessage(connected)); err != nil {
		return
	}
	flusher.Flush()

	if room != "" {
		h.Subscribe(client, room)
	}

	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(formatSSEMessage(frame)); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// formatSSEMessage formats a frame as an SSE message. Multi-line data gets a
// "data: " prefix on each line.
func formatSSEMessage(frame Frame) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(frame.Event)
	b.WriteString("\n")
	for _, line := range splitLines(string(frame.Payload)) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
