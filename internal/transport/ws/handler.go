package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Limits bounds how fast a single connection may send messages
type Limits struct {
	MessagesPerSecond float64
	Burst             int
}

// Handler handles WebSocket connections
type Handler struct {
	hub        *Hub
	controller GameController
	limits     Limits
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, controller GameController, limits Limits, logger *slog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		controller: controller,
		limits:     limits,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients may be served from another origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and runs the client until it disconnects.
// Every connection is a new participant.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	participantID := uuid.NewString()
	limiter := rate.NewLimiter(rate.Limit(h.limits.MessagesPerSecond), h.limits.Burst)
	client := NewClient(conn, h.hub, h.controller, participantID, limiter, h.logger)
	h.hub.Register(client)

	h.logger.Info("websocket connected", "participantID", participantID, "remoteAddr", r.RemoteAddr)

	client.Send(NewServerMessage(MsgConnected, &ConnectedPayload{ParticipantID: participantID}))
	client.Run()

	h.logger.Info("websocket disconnected", "participantID", participantID)
}
