package remote

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// wsWriteTimeout bounds a single frame write.
	wsWriteTimeout = 10 * time.Second

	// wsEventBuffer is the per-connection event queue. A slow consumer
	// that falls this far behind is disconnected rather than blocking
	// stack mutations.
	wsEventBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The bridge is same-process tooling; callers put their own origin
	// policy in front when exposing it beyond localhost.
	CheckOrigin: func(*http.Request) bool { return true },
}

// changeEvent is one message on the WebSocket stream.
type changeEvent struct {
	Type   string      `json:"type"`
	Depth  int         `json:"depth"`
	Routes []wireRoute `json:"routes"`
}

// serveWS upgrades the connection and streams a snapshot event followed by
// one event per stack change until the client disconnects.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("remote: websocket upgrade failed", "error", err)
		return
	}

	events := make(chan changeEvent, wsEventBuffer)
	closed := make(chan struct{})

	snapshot := func(typ string) changeEvent {
		entries := h.stack.Entries()
		return changeEvent{Type: typ, Depth: len(entries), Routes: wireRoutes(entries)}
	}

	cancel := h.stack.Subscribe(func() {
		select {
		case events <- snapshot("change"):
		case <-closed:
		default:
			// Queue full; the writer will notice on its next write
			// failure or the reader on disconnect.
		}
	})
	defer cancel()

	// Reader: we accept no client messages, but the read loop surfaces
	// disconnects.
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(ev changeEvent) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Debug("remote: websocket write failed", "error", err)
			return false
		}
		return true
	}

	if !write(snapshot("snapshot")) {
		conn.Close()
		return
	}

	for {
		select {
		case ev := <-events:
			if !write(ev) {
				conn.Close()
				return
			}
		case <-closed:
			conn.Close()
			return
		}
	}
}
