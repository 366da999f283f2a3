package sse

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/voicenotes/logger"
)

// KeepAliveInterval is the period of keep-alive comments.
var KeepAliveInterval = 30 * time.Second

// ConnectedEvent is sent when a client successfully connects.
type ConnectedEvent struct {
	ClientID string            `json:"client_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ServeSSE streams hub events to one client until the request context ends
// or the hub stops.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, opts ...ClientOption) {
	log := hub.log.WithFields(logger.Fields(logger.FieldClientID, clientID))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Long-lived stream; the server WriteTimeout must not apply.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("could not clear write deadline", logger.Fields(logger.FieldError, err.Error()))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(clientID, append([]ClientOption{WithMetadata("remote_addr", r.RemoteAddr)}, opts...)...)
	if !hub.Register(client) {
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	connected, _ := Frame(EventTypeConnected, ConnectedEvent{ClientID: clientID, Metadata: client.Metadata()})
	_, _ = w.Write(connected)
	for _, frame := range client.initial {
		_, _ = w.Write(frame)
	}
	flusher.Flush()
	log.Debug("client connected")

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected", logger.Fields("reason", ctx.Err().Error()))
			return

		case frame, ok := <-client.Events():
			if !ok {
				return
			}
			_, _ = w.Write(frame)
			flusher.Flush()

		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": %s %d\n\n", EventTypeKeepAlive, time.Now().Unix())
			flusher.Flush()
		}
	}
}
