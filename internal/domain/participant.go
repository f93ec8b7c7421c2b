package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUsernameLength is the longest display name accepted
const MaxUsernameLength = 20

// Participant represents a connected player in a room
type Participant struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	IsHost        bool      `json:"isHost"`
	Role          Role      `json:"role,omitempty"`
	Word          string    `json:"-"` // Private, only ever sent to the owner
	IsAlive       bool      `json:"isAlive"`
	HasVoted      bool      `json:"hasVoted"`
	VotesReceived int       `json:"votesReceived"`
	JoinedAt      time.Time `json:"joinedAt"`

	votedFor string
}

// NewParticipant creates a new participant with the given ID and username
func NewParticipant(id, username string) *Participant {
	return &Participant{
		ID:       id,
		Username: username,
		IsAlive:  true,
		JoinedAt: time.Now(),
	}
}

// NormalizeUsername trims the name and checks its length
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// resetVote clears the participant's voting state for a new voting phase
func (p *Participant) resetVote() {
	p.HasVoted = false
	p.VotesReceived = 0
	p.votedFor = ""
}

// ParticipantInfo is a safe view of participant data (hides role and word)
type ParticipantInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsHost   bool   `json:"isHost"`
	IsAlive  bool   `json:"isAlive"`
	HasVoted bool   `json:"hasVoted"`
}

// ToInfo converts a Participant to ParticipantInfo (without role)
func (p *Participant) ToInfo() ParticipantInfo {
	return ParticipantInfo{
		ID:       p.ID,
		Username: p.Username,
		IsHost:   p.IsHost,
		IsAlive:  p.IsAlive,
		HasVoted: p.HasVoted,
	}
}
