// Package hub provides a thread-safe websocket broadcast hub for the
// live gaze stream, using the channel-based fan-out pattern.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gazekit/go-gaze/internal/log"
)

// Hub maintains the set of active clients and broadcasts messages to
// them. Slow clients are dropped rather than allowed to stall the stream.
type Hub struct {
	log *slog.Logger

	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed by Stop to end Run
	stop     chan struct{}
	stopOnce sync.Once

	// Guards clients; ClientCount reads it from outside the loop
	mu sync.RWMutex
}

// New creates a new Hub.
func New(name string) *Hub {
	return &Hub{
		log:        log.With("hub", name),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. Call in a goroutine; returns after
// Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("stream client connected", "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("stream client disconnected", "clients", count)

		case message := <-h.broadcast:
			// A client whose buffer is full is too slow. Collect it
			// here; dropping mutates the map and needs the write lock.
			var slow []*Client
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			if len(slow) > 0 {
				h.mu.Lock()
				for _, client := range slow {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
				}
				h.mu.Unlock()
				h.log.Warn("dropped slow stream clients", "count", len(slow))
			}
		}
	}
}

// Stop ends the Run loop. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Broadcast sends raw bytes to all connected clients, dropping the
// message if the broadcast queue is full.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		h.log.Debug("broadcast queue full, dropping message")
	}
}

// BroadcastJSON encodes v and broadcasts it.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
