package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a live-sync notification. Action messages announce a single
// document change; snapshot messages carry the full materialized state of
// one collection and replace whatever the client held before.
type Message struct {
	Type    string         `json:"type"`
	Entity  string         `json:"entity"`
	Action  string         `json:"action"`
	EventID string         `json:"eventId,omitempty"`
	ID      string         `json:"id,omitempty"`
	Items   any            `json:"items,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// NewMessage creates an action Message with the Type field derived from
// entity and action.
func NewMessage(entity, action, eventID, id string) Message {
	return Message{
		Type:    fmt.Sprintf("%s_%s", entity, action),
		Entity:  entity,
		Action:  action,
		EventID: eventID,
		ID:      id,
	}
}

// NewSnapshot creates a full-collection snapshot Message.
func NewSnapshot(entity, eventID string, items any) Message {
	return Message{
		Type:    fmt.Sprintf("%s_snapshot", entity),
		Entity:  entity,
		Action:  "snapshot",
		EventID: eventID,
		Items:   items,
	}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
// Each client carries an optional event scope; scoped messages reach only
// the clients watching that event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast delivers a message to every matching client. Messages with an
// EventID go to clients subscribed to that event; messages without one go
// to everyone.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if msg.EventID != "" && c.eventID != msg.EventID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
