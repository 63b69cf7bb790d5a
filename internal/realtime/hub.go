// Package realtime streams poll events to websocket clients such as live
// dashboards.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sgdc3/reactord/internal/events"
)

// Message is the websocket message envelope.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks connected clients and broadcasts every published event to them.
// It implements events.Publisher so it can sit in an events.Fanout.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[string]*Client), logger: logger}
}

// Register adds a client. It returns false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.ID] = c
	h.logger.Debug("stream client joined", zap.String("client_id", c.ID), zap.String("guild_id", c.GuildID))
	return true
}

// Unregister removes a client and closes its send channel. Calling it twice is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.send)
	h.logger.Debug("stream client left", zap.String("client_id", c.ID))
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts e to every client watching its guild. Clients whose
// buffer is full miss the event rather than slow the bot down.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := Message{Event: string(e.Type), Data: data}

	// Sending under the read lock keeps Unregister from closing a channel mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.GuildID != "" && c.GuildID != e.GuildID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Debug("stream client too slow, event dropped", zap.String("client_id", c.ID), zap.String("event_id", e.ID))
		}
	}
	return nil
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}
