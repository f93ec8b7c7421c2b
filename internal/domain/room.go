package domain

import (
	"fmt"
	"slices"
	"time"
)

// Room is the authoritative state of one game instance.
// It is not safe for concurrent use; the owner serializes access.
type Room struct {
	Code        string    `json:"code"`
	Mode        Mode      `json:"mode,omitempty"`
	Phase       Phase     `json:"phase"`
	TurnCursor  int       `json:"turnCursor"`
	RoundNumber int       `json:"roundNumber"`
	Winner      Role      `json:"winner,omitempty"`
	Category    string    `json:"-"`
	Word        string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	StartedAt   time.Time `json:"startedAt,omitempty"`
	EndedAt     time.Time `json:"endedAt,omitempty"`

	participants []*Participant // join order
	sequence     []string       // speaking order, fixed when the game starts
	votingOpen   bool
}

// NewRoom creates a room in the lobby with the given host
func NewRoom(code string, host *Participant) *Room {
	host.IsHost = true
	return &Room{
		Code:         code,
		Phase:        PhaseLobby,
		TurnCursor:   -1,
		RoundNumber:  1,
		CreatedAt:    time.Now(),
		participants: []*Participant{host},
	}
}

// Participants returns the participants in join order
func (r *Room) Participants() []*Participant {
	return slices.Clone(r.participants)
}

// Participant returns a participant by ID
func (r *Room) Participant(id string) (*Participant, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.participants[i], true
	}
	return nil, false
}

// Len returns the number of participants
func (r *Room) Len() int {
	return len(r.participants)
}

// HostID returns the ID of the current host, empty for an empty room
func (r *Room) HostID() string {
	for _, p := range r.participants {
		if p.IsHost {
			return p.ID
		}
	}
	return ""
}

// IsHost checks if the given participant is the host
func (r *Room) IsHost(id string) bool {
	p, ok := r.Participant(id)
	return ok && p.IsHost
}

// AddParticipant appends a participant in join order. Returns false if the ID is taken.
func (r *Room) AddParticipant(p *Participant) bool {
	if r.indexOf(p.ID) >= 0 {
		return false
	}
	p.IsHost = len(r.participants) == 0
	r.participants = append(r.participants, p)
	return true
}

// RemoveParticipant removes a participant, hands the host flag to the
// earliest-joined remaining participant and withdraws any open votes.
func (r *Room) RemoveParticipant(id string) (*Participant, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, false
	}

	p := r.participants[i]
	r.participants = slices.Delete(r.participants, i, i+1)

	if r.votingOpen {
		r.withdrawVotes(p)
	}

	if p.IsHost {
		p.IsHost = false
		if len(r.participants) > 0 {
			r.participants[0].IsHost = true
		}
	}

	return p, true
}

// Alive returns the alive participants in join order
func (r *Room) Alive() []*Participant {
	alive := make([]*Participant, 0, len(r.participants))
	for _, p := range r.participants {
		if p.IsAlive {
			alive = append(alive, p)
		}
	}
	return alive
}

// AliveCount returns the number of alive participants
func (r *Room) AliveCount() int {
	count := 0
	for _, p := range r.participants {
		if p.IsAlive {
			count++
		}
	}
	return count
}

// Start records the assignment and freezes the speaking sequence in join order
func (r *Room) Start(a Assignment) error {
	if r.Phase != PhaseLobby {
		return ErrGameInProgress
	}

	r.Mode = a.Mode
	r.Category = a.Pick.Category
	r.Word = a.Pick.Word
	r.RoundNumber = 1
	r.TurnCursor = -1
	r.StartedAt = time.Now()

	r.sequence = make([]string, 0, len(r.participants))
	for _, p := range r.participants {
		r.sequence = append(r.sequence, p.ID)
	}
	return nil
}

// Sequence returns the fixed speaking order
func (r *Room) Sequence() []string {
	return slices.Clone(r.sequence)
}

// BeginSpeaking enters the speaking phase with the cursor before the first slot
func (r *Room) BeginSpeaking() error {
	if err := r.transition(PhaseSpeaking); err != nil {
		return err
	}
	r.TurnCursor = -1
	r.votingOpen = false
	return nil
}

// NextSpeaker scans forward from the cursor for the next alive participant.
// Dead or departed slots are skipped; the scan never wraps around.
func (r *Room) NextSpeaker() (int, *Participant, bool) {
	for i := r.TurnCursor + 1; i < len(r.sequence); i++ {
		if p, ok := r.Participant(r.sequence[i]); ok && p.IsAlive {
			return i, p, true
		}
	}
	return len(r.sequence), nil, false
}

// CurrentSpeaker returns the participant whose turn it is
func (r *Room) CurrentSpeaker() (*Participant, bool) {
	if r.Phase != PhaseSpeaking || r.TurnCursor < 0 || r.TurnCursor >= len(r.sequence) {
		return nil, false
	}
	return r.Participant(r.sequence[r.TurnCursor])
}

// BeginVoting enters the voting phase and clears every participant's votes
func (r *Room) BeginVoting() error {
	if err := r.transition(PhaseVoting); err != nil {
		return err
	}
	for _, p := range r.participants {
		p.resetVote()
	}
	r.votingOpen = true
	return nil
}

// VotingOpen reports whether votes are currently accepted
func (r *Room) VotingOpen() bool {
	return r.Phase == PhaseVoting && r.votingOpen
}

// CastVote records a vote. Returns false, changing nothing, when any precondition fails.
func (r *Room) CastVote(voterID, targetID string) bool {
	if !r.VotingOpen() || voterID == targetID {
		return false
	}

	voter, ok := r.Participant(voterID)
	if !ok || !voter.IsAlive || voter.HasVoted {
		return false
	}

	target, ok := r.Participant(targetID)
	if !ok || !target.IsAlive {
		return false
	}

	voter.HasVoted = true
	voter.votedFor = targetID
	target.VotesReceived++
	return true
}

// AllVoted returns true once every alive participant has voted
func (r *Room) AllVoted() bool {
	alive := 0
	for _, p := range r.participants {
		if !p.IsAlive {
			continue
		}
		alive++
		if !p.HasVoted {
			return false
		}
	}
	return alive > 0
}

// CloseVoting stops accepting votes and returns the tally
func (r *Room) CloseVoting() TallyResult {
	r.votingOpen = false
	return r.Tally()
}

// Eliminate marks a participant as dead
func (r *Room) Eliminate(id string) (*Participant, bool) {
	p, ok := r.Participant(id)
	if !ok || !p.IsAlive {
		return nil, false
	}
	p.IsAlive = false
	return p, true
}

// EvaluateWinner applies the win rules to the current alive set
func (r *Room) EvaluateWinner() (Role, bool) {
	alive := 0
	deviantAlive := false
	for _, p := range r.participants {
		if !p.IsAlive {
			continue
		}
		alive++
		if p.Role.IsDeviant() {
			deviantAlive = true
		}
	}

	if !deviantAlive {
		return r.Mode.MajorityRole(), true
	}
	if alive <= 2 {
		return r.Mode.DeviantRole(), true
	}
	return "", false
}

// Finish ends the game with the given winner
func (r *Room) Finish(winner Role) error {
	if err := r.transition(PhaseGameOver); err != nil {
		return err
	}
	r.Winner = winner
	r.EndedAt = time.Now()
	r.votingOpen = false
	return nil
}

// LobbyState returns the current lobby state for broadcasting
func (r *Room) LobbyState() *LobbyUpdatePayload {
	participants := make([]ParticipantInfo, 0, len(r.participants))
	for _, p := range r.participants {
		participants = append(participants, p.ToInfo())
	}

	return &LobbyUpdatePayload{
		Participants: participants,
		HostID:       r.HostID(),
	}
}

// Clone returns a deep copy safe to read without the owner's lock
func (r *Room) Clone() *Room {
	clone := *r
	clone.participants = make([]*Participant, len(r.participants))
	for i, p := range r.participants {
		copied := *p
		clone.participants[i] = &copied
	}
	clone.sequence = slices.Clone(r.sequence)
	return &clone
}

func (r *Room) transition(target Phase) error {
	if !r.Phase.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Phase, target)
	}
	r.Phase = target
	return nil
}

func (r *Room) indexOf(id string) int {
	return slices.IndexFunc(r.participants, func(p *Participant) bool {
		return p.ID == id
	})
}

// withdrawVotes undoes votes cast by a departing participant and lets
// anyone who voted for them vote again.
func (r *Room) withdrawVotes(departed *Participant) {
	if departed.HasVoted {
		if target, ok := r.Participant(departed.votedFor); ok {
			target.VotesReceived--
		}
	}
	for _, p := range r.participants {
		if p.votedFor == departed.ID {
			p.HasVoted = false
			p.votedFor = ""
		}
	}
}
