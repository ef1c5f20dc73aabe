// Package websocket pushes catalog lifecycle events to connected dashboard
// clients, so an open dashboard can refetch its charts after a reload
// instead of polling the catalog endpoint.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"sinepulse/pkg/contracts/domain"
)

// Event is the envelope pushed to every connected client.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Event types.
const (
	EventCatalogReloaded = "catalog_reloaded"
	EventConnected       = "connected"
)

// Hub maintains the set of active clients and fans broadcast events out to
// them. All client set mutation happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket_hub")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same-origin dashboards only; CORS policy is enforced upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run processes register, unregister and broadcast events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.logger.InfoContext(ctx, "websocket hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.InfoContext(ctx, "websocket client connected",
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.InfoContext(ctx, "websocket client disconnected",
					slog.String("remote_addr", client.remoteAddr),
					slog.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// BroadcastCatalogReloaded notifies all clients that the catalog identity
// changed and carries the new catalog info.
func (h *Hub) BroadcastCatalogReloaded(info domain.CatalogInfo) {
	h.publish(Event{
		Type:      EventCatalogReloaded,
		Timestamp: time.Now(),
		Data:      info,
	})
}

func (h *Hub) publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal websocket event",
			slog.String("type", event.Type),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("websocket broadcast buffer full, dropping event",
			slog.String("type", event.Type))
	}
}

// ServeWS upgrades the HTTP request and attaches the client to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	client := h.newClient(conn, r.RemoteAddr)
	if !h.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// newClient builds a client with the welcome event already queued. The send
// channel must not be written again once the client is registered: the hub
// owns it from then on and closes it on unregister.
func (h *Hub) newClient(conn *websocket.Conn, remoteAddr string) *Client {
	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, 32),
		remoteAddr: remoteAddr,
	}

	welcome, _ := json.Marshal(Event{Type: EventConnected, Timestamp: time.Now()})
	client.send <- welcome

	return client
}

// add registers the client. Returns false when the hub has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// drop unregisters the client, or returns immediately when the hub has
// stopped and is no longer draining the unregister channel.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
