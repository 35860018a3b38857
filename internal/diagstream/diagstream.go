// Package diagstream is an optional, off-by-default development channel
// that streams structured compile/redshift events over a WebSocket, for
// a playground-style live view of the pipeline. Nothing about the
// residual AST this core produces depends on whether a listener is
// attached; this is pure observability, grounded on the teacher's
// network module's broadcast-to-all-clients pattern (spec §6.4's
// ambient diagnostics surface).
package diagstream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// EventKind names one of the fixed events doppler/vm can emit.
type EventKind string

const (
	EventModuleLoaded   EventKind = "module_loaded"
	EventResolving      EventKind = "func_resolving"
	EventRedshifted     EventKind = "func_redshifted"
	EventResidualEmit   EventKind = "residual_emit"
	EventError          EventKind = "error"
)

// Event is one progress notification, serialized as JSON to every
// connected client.
type Event struct {
	Kind    EventKind   `json:"kind"`
	Subject string      `json:"subject"` // FQN or module path this event concerns
	Detail  string      `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans out Events to every attached client. A Hub with no clients
// attached costs one mutex check per Emit and nothing else — compilation
// never blocks waiting on a listener.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates an empty event hub.
func NewHub() *Hub {
	return &Hub{clients: map[string]*client{}}
}

// ServeHTTP upgrades the request to a WebSocket and registers the
// resulting connection as a listener until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := r.RemoteAddr
	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		conn.Close()
	}()

	// Listeners are read-only: drain and discard anything a client sends
	// so the connection's read deadline never trips, until it closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Emit broadcasts one event to every attached client. A write failure is
// ignored here; a client is removed only when its own ServeHTTP
// goroutine's read loop returns an error, mirroring the teacher's
// broadcast-then-let-the-reader-side-notice-disconnects shape.
func (h *Hub) Emit(e Event) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	for _, c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteMessage(websocket.TextMessage, payload)
		c.mu.Unlock()
	}
}
