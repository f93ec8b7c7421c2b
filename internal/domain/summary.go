package domain

import "time"

// GameSummary is the archived outcome of a finished game
type GameSummary struct {
	RoomCode     string               `json:"roomCode"`
	Mode         Mode                 `json:"mode"`
	Category     string               `json:"category"`
	Word         string               `json:"word"`
	Winner       Role                 `json:"winner"`
	Rounds       int                  `json:"rounds"`
	StartedAt    time.Time            `json:"startedAt"`
	EndedAt      time.Time            `json:"endedAt"`
	Participants []SummaryParticipant `json:"participants"`
}

// SummaryParticipant is one participant's final state
type SummaryParticipant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	IsAlive  bool   `json:"isAlive"`
}

// Summary returns the archived view of the room. Participants who left
// mid-game are no longer in the room and are not included.
func (r *Room) Summary() GameSummary {
	participants := make([]SummaryParticipant, 0, len(r.participants))
	for _, p := range r.participants {
		participants = append(participants, SummaryParticipant{
			ID:       p.ID,
			Username: p.Username,
			Role:     p.Role,
			IsAlive:  p.IsAlive,
		})
	}

	return GameSummary{
		RoomCode:     r.Code,
		Mode:         r.Mode,
		Category:     r.Category,
		Word:         r.Word,
		Winner:       r.Winner,
		Rounds:       r.RoundNumber,
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		Participants: participants,
	}
}
