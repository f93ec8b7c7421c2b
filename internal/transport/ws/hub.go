package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"shadowsignal/internal/domain"
)

// Hub tracks connected clients and which rooms they listen to. It delivers
// room events for the controller.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
		logger:  logger,
	}
}

// Register adds a connected client
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID()] = c
}

// Unregister removes a client and all of its room subscriptions
func (h *Hub) Unregister(participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, participantID)
	for code, members := range h.rooms {
		delete(members, participantID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
}

// Subscribe starts delivering a room's events to a participant
func (h *Hub) Subscribe(roomCode, participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomCode] = members
	}
	members[participantID] = struct{}{}
}

// Unsubscribe stops delivering a room's events to a participant
func (h *Hub) Unsubscribe(roomCode, participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(members, participantID)
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}

// Publish sends an event to its room, or only to its participant when the
// event is addressed to one.
func (h *Hub) Publish(event *domain.GameEvent) {
	data, err := json.Marshal(newEventMessage(event))
	if err != nil {
		h.logger.Error("failed to encode event", "type", event.Type, "roomCode", event.RoomCode, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.rooms[event.RoomCode]
	if event.ParticipantID != "" {
		if _, ok := members[event.ParticipantID]; !ok {
			return
		}
		if c, ok := h.clients[event.ParticipantID]; ok {
			c.enqueue(data)
		}
		return
	}

	for id := range members {
		if c, ok := h.clients[id]; ok {
			c.enqueue(data)
		}
	}
}

// ConnectionCount returns the number of connected clients
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
