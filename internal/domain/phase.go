package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"     // Waiting for players to join
	PhaseSpeaking Phase = "SPEAKING"  // Alive players take timed turns describing their word
	PhaseVoting   Phase = "VOTING"    // Alive players vote to eliminate a suspect
	PhaseGameOver Phase = "GAME_OVER" // Winner decided, nothing else happens
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// IsInGame returns true while a game is being played
func (p Phase) IsInGame() bool {
	return p == PhaseSpeaking || p == PhaseVoting
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:    {PhaseSpeaking},
		PhaseSpeaking: {PhaseVoting, PhaseGameOver},
		PhaseVoting:   {PhaseSpeaking, PhaseGameOver},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
