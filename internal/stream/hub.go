package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Hub fans StatsState updates out to connected display clients. Slow clients
// drop frames instead of blocking the ingest path.
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

// Client is one websocket subscriber
type Client struct {
	Send chan []byte
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: map[*Client]struct{}{}}
}

// Register adds a subscriber with a buffered send channel
func (h *Hub) Register() *Client {
	client := &Client{Send: make(chan []byte, 64)}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return client
}

// Unregister removes a subscriber and closes its channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Broadcast sends a payload to every subscriber, dropping frames for clients
// whose buffers are full
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// BroadcastJSON marshals v and broadcasts it
func (h *Hub) BroadcastJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Hub] failed to marshal broadcast payload: %v", err)
		return
	}
	h.Broadcast(payload)
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mobile clients connect from app-local origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades the connection and streams broadcast payloads until the
// client disconnects
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[Hub] websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		client := hub.Register()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		// Unregister closes the send channel, which releases the writer; it
		// must happen before waiting on done or a disconnect would block the
		// handler until the next broadcast
		hub.Unregister(client)
		<-done
	}
}
