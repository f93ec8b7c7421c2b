package app

import (
	"shadowsignal/internal/domain"
)

const (
	votingMessage = "Discussion over! Cast your votes."
	tieMessage    = "Tie vote! No one eliminated."
)

// startVotingPhase opens the ballot. Caller must hold c.mu.
func (c *Controller) startVotingPhase(room *domain.Room) {
	c.cancelTimer(room.Code)
	invariant(room.BeginVoting())

	c.notifier.Publish(domain.NewEvent(domain.EventPhaseChange, room.Code, &domain.PhaseChangePayload{
		Phase:   domain.PhaseVoting,
		Message: votingMessage,
	}))
	c.logger.Debug("voting started", "roomCode", room.Code, "round", room.RoundNumber)
}

// SubmitVote records voterID's vote for targetID. Votes that are out of
// phase, repeated, self-directed or aimed at a dead participant are ignored.
func (c *Controller) SubmitVote(code, voterID, targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(code)
	if !ok || !room.CastVote(voterID, targetID) {
		return
	}

	c.notifier.Publish(domain.NewEvent(domain.EventVoteUpdate, code, &domain.VoteUpdatePayload{VoterID: voterID}))

	if room.AllVoted() {
		c.resolveVotes(room)
	}
}

// resolveVotes tallies the ballot, applies the elimination and either ends
// the game or schedules the next round. Caller must hold c.mu.
func (c *Controller) resolveVotes(room *domain.Room) {
	tally := room.CloseVoting()
	c.notifier.Publish(domain.NewEvent(domain.EventVoteResults, room.Code, &domain.VoteResultsPayload{Results: tally.Results}))

	if id, ok := tally.Eliminated(); ok {
		eliminated, _ := room.Eliminate(id)
		c.notifier.Publish(domain.NewEvent(domain.EventPlayerEliminated, room.Code, &domain.PlayerEliminatedPayload{
			ParticipantID: id,
			Role:          eliminated.Role,
		}))
		c.logger.Info("participant eliminated", "roomCode", room.Code, "participantID", id, "votes", tally.MaxVotes)
	} else {
		c.notifier.Publish(domain.NewEvent(domain.EventVoteTie, room.Code, &domain.VoteTiePayload{Message: tieMessage}))
		c.logger.Info("vote tied", "roomCode", room.Code, "leaders", len(tally.Leaders))
	}

	if c.checkWin(room) {
		return
	}

	c.schedule(room.Code, c.settings.ResultDelay, func(room *domain.Room) {
		if room.Phase != domain.PhaseVoting {
			return
		}
		room.RoundNumber++
		c.notifier.Publish(domain.NewEvent(domain.EventNewRound, room.Code, &domain.NewRoundPayload{Round: room.RoundNumber}))
		c.beginSpeakingPhase(room)
	})
}
