package domain

// VoteCount is one line of the published tally
type VoteCount struct {
	ParticipantID string `json:"participantId"`
	Username      string `json:"username"`
	Votes         int    `json:"votes"`
}

// TallyResult is the outcome of counting one voting phase
type TallyResult struct {
	Results  []VoteCount
	MaxVotes int
	Leaders  []string // IDs of everyone holding MaxVotes
}

// IsTie returns true when more than one participant holds the most votes
func (t TallyResult) IsTie() bool {
	return len(t.Leaders) > 1
}

// Eliminated returns the unique most-voted participant, if there is one
func (t TallyResult) Eliminated() (string, bool) {
	if len(t.Leaders) != 1 || t.MaxVotes == 0 {
		return "", false
	}
	return t.Leaders[0], true
}

// Tally counts votes received by alive participants in join order.
// Tallying a room with nobody alive is a caller bug.
func (r *Room) Tally() TallyResult {
	alive := r.Alive()
	if len(alive) == 0 {
		panic("domain: tally with no alive participants in room " + r.Code)
	}

	result := TallyResult{
		Results: make([]VoteCount, 0, len(alive)),
	}

	for _, p := range alive {
		result.Results = append(result.Results, VoteCount{
			ParticipantID: p.ID,
			Username:      p.Username,
			Votes:         p.VotesReceived,
		})

		switch {
		case p.VotesReceived > result.MaxVotes:
			result.MaxVotes = p.VotesReceived
			result.Leaders = []string{p.ID}
		case p.VotesReceived == result.MaxVotes:
			result.Leaders = append(result.Leaders, p.ID)
		}
	}

	return result
}
