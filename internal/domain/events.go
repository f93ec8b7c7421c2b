package domain

import "time"

// EventType represents the type of game event. Values are the wire names.
type EventType string

const (
	EventLobbyUpdate      EventType = "lobby_update"
	EventGameStarted      EventType = "game_started"
	EventTurnUpdate       EventType = "turn_update"
	EventTimerUpdate      EventType = "timer_update"
	EventPhaseChange      EventType = "phase_change"
	EventVoteUpdate       EventType = "vote_update"
	EventVoteResults      EventType = "vote_results"
	EventPlayerEliminated EventType = "player_eliminated"
	EventVoteTie          EventType = "vote_tie"
	EventNewRound         EventType = "new_round"
	EventGameOver         EventType = "game_over"
	EventPlayerLeft       EventType = "player_left"
)

// GameEvent represents an event that occurred in a room
type GameEvent struct {
	Type          EventType   `json:"type"`
	RoomCode      string      `json:"roomCode"`
	ParticipantID string      `json:"participantId,omitempty"` // If event is participant-specific
	Payload       interface{} `json:"payload,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// NewEvent creates a new room-wide game event
func NewEvent(eventType EventType, roomCode string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewParticipantEvent creates a new participant-specific game event
func NewParticipantEvent(eventType EventType, roomCode, participantID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:          eventType,
		RoomCode:      roomCode,
		ParticipantID: participantID,
		Payload:       payload,
		Timestamp:     time.Now(),
	}
}

// Payload types for different events

// LobbyUpdatePayload is sent when room membership or the host changes
type LobbyUpdatePayload struct {
	Participants []ParticipantInfo `json:"participants"`
	HostID       string            `json:"hostId"`
}

// GameStartedPayload is sent to each participant with their role
type GameStartedPayload struct {
	Role Role   `json:"role"`
	Word string `json:"word,omitempty"` // Absent for the infiltrator
	Mode Mode   `json:"mode"`
}

// TurnUpdatePayload announces the current speaker
type TurnUpdatePayload struct {
	Participant ParticipantInfo `json:"participant"`
	Round       int             `json:"round"`
}

// TimerUpdatePayload is sent every tick of the speaking countdown
type TimerUpdatePayload struct {
	TimeLeft int `json:"timeLeft"`
}

// PhaseChangePayload is sent when the room changes phase
type PhaseChangePayload struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
}

// VoteUpdatePayload is sent when a vote is cast (without revealing the target)
type VoteUpdatePayload struct {
	VoterID string `json:"voterId"`
}

// VoteResultsPayload carries the full tally
type VoteResultsPayload struct {
	Results []VoteCount `json:"results"`
}

// PlayerEliminatedPayload reveals the eliminated participant's role
type PlayerEliminatedPayload struct {
	ParticipantID string `json:"participantId"`
	Role          Role   `json:"role"`
}

// VoteTiePayload is sent when nobody is eliminated
type VoteTiePayload struct {
	Message string `json:"message"`
}

// NewRoundPayload is sent when speaking resumes
type NewRoundPayload struct {
	Round int `json:"round"`
}

// GameOverPayload announces the winner
type GameOverPayload struct {
	Winner  Role   `json:"winner"`
	Message string `json:"message"`
}

// PlayerLeftPayload is sent when a participant leaves or disconnects
type PlayerLeftPayload struct {
	ParticipantID string `json:"participantId"`
}
