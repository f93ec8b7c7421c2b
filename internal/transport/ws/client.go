package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"shadowsignal/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// GameController is the set of room operations a client can trigger
type GameController interface {
	CreateRoom(actorID, username string) (string, error)
	JoinRoom(code, actorID, username string) error
	StartGame(code, actorID string, mode domain.Mode) error
	SubmitVote(code, voterID, targetID string)
	Leave(code, actorID string)
	Disconnect(actorID string)
}

// Client represents a WebSocket client connection
type Client struct {
	conn       *websocket.Conn
	hub        *Hub
	controller GameController
	id         string
	limiter    *rate.Limiter
	send       chan []byte
	done       chan struct{}
	logger     *slog.Logger
	mu         sync.Mutex
	closed     bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *Hub, controller GameController, id string, limiter *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		conn:       conn,
		hub:        hub,
		controller: controller,
		id:         id,
		limiter:    limiter,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// ID returns the participant ID for this client
func (c *Client) ID() string {
	return c.id
}

// Send encodes and queues a message for the client
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	c.enqueue(data)
	return nil
}

// enqueue queues an encoded message without blocking
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "participantID", c.id)
	}
}

// Close closes the connection and stops the write pump
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.controller.Disconnect(c.id)
		c.hub.Unregister(c.id)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	if !c.limiter.Allow() {
		c.sendError(ErrCodeRateLimited, "Too many messages")
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgStartGame:
		c.handleStartGame(msg.Payload)
	case MsgSubmitVote:
		c.handleSubmitVote(msg.Payload)
	case MsgLeaveRoom:
		c.handleLeaveRoom(msg.Payload)
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

func (c *Client) handleCreateRoom(raw json.RawMessage) {
	var payload CreateRoomPayload
	if err := bindPayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, err.Error())
		return
	}

	code, err := c.controller.CreateRoom(c.id, payload.Username)
	if err != nil {
		c.sendControllerError(err)
		return
	}
	c.sendRoomJoined(code)
}

func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var payload JoinRoomPayload
	if err := bindPayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, err.Error())
		return
	}

	if err := c.controller.JoinRoom(payload.RoomCode, c.id, payload.Username); err != nil {
		c.sendControllerError(err)
		return
	}
	c.sendRoomJoined(payload.RoomCode)
}

func (c *Client) handleStartGame(raw json.RawMessage) {
	var payload StartGamePayload
	if err := bindPayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, err.Error())
		return
	}

	if err := c.controller.StartGame(payload.RoomCode, c.id, domain.Mode(payload.Mode)); err != nil {
		c.sendControllerError(err)
	}
}

func (c *Client) handleSubmitVote(raw json.RawMessage) {
	var payload SubmitVotePayload
	if err := bindPayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, err.Error())
		return
	}

	c.controller.SubmitVote(payload.RoomCode, c.id, payload.TargetID)
}

func (c *Client) handleLeaveRoom(raw json.RawMessage) {
	var payload LeaveRoomPayload
	if err := bindPayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, err.Error())
		return
	}

	c.controller.Leave(payload.RoomCode, c.id)
}

func (c *Client) sendRoomJoined(code string) {
	c.Send(NewServerMessage(MsgRoomJoined, &RoomJoinedPayload{
		RoomCode:      code,
		ParticipantID: c.id,
	}))
}

func (c *Client) sendControllerError(err error) {
	code, message := errorFor(err)
	if code == ErrCodeInternalError {
		c.logger.Error("request failed", "participantID", c.id, "error", err)
	}
	c.sendError(code, message)
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
