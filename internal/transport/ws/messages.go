package ws

import (
	"encoding/json"
	"time"

	"shadowsignal/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom MessageType = "create_room"
	MsgJoinRoom   MessageType = "join_room"
	MsgStartGame  MessageType = "start_game"
	MsgSubmitVote MessageType = "submit_vote"
	MsgLeaveRoom  MessageType = "leave_room"
	MsgPing       MessageType = "ping"
)

// Server → Client message types. Room events reuse their domain event names.
const (
	MsgConnected  MessageType = "connected"
	MsgRoomJoined MessageType = "room_joined"
	MsgError      MessageType = "error"
	MsgPong       MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// newEventMessage wraps a room event for the wire
func newEventMessage(event *domain.GameEvent) *ServerMessage {
	return &ServerMessage{
		Type:      MessageType(event.Type),
		Payload:   event.Payload,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateRoomPayload is the payload for create_room message
type CreateRoomPayload struct {
	Username string `json:"username" validate:"username"`
}

// JoinRoomPayload is the payload for join_room message
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode" validate:"required,numeric,max=16"`
	Username string `json:"username" validate:"username"`
}

// StartGamePayload is the payload for start_game message
type StartGamePayload struct {
	RoomCode string `json:"roomCode" validate:"required,numeric,max=16"`
	Mode     string `json:"mode" validate:"omitempty,oneof=INFILTRATOR SPY"`
}

// SubmitVotePayload is the payload for submit_vote message
type SubmitVotePayload struct {
	RoomCode string `json:"roomCode" validate:"required,numeric,max=16"`
	TargetID string `json:"targetId" validate:"required,max=64"`
}

// LeaveRoomPayload is the payload for leave_room message
type LeaveRoomPayload struct {
	RoomCode string `json:"roomCode" validate:"required,numeric,max=16"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ParticipantID string `json:"participantId"`
}

// RoomJoinedPayload confirms a create_room or join_room request
type RoomJoinedPayload struct {
	RoomCode      string `json:"roomCode"`
	ParticipantID string `json:"participantId"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage   = "INVALID_MESSAGE"
	ErrCodeInvalidUsername  = "INVALID_USERNAME"
	ErrCodeRoomNotFound     = "ROOM_NOT_FOUND"
	ErrCodeGameInProgress   = "GAME_IN_PROGRESS"
	ErrCodeRoomFull         = "ROOM_FULL"
	ErrCodeAlreadyInRoom    = "ALREADY_IN_ROOM"
	ErrCodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)
