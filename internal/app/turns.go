package app

import (
	"shadowsignal/internal/domain"
)

const speakingMessage = "Describe your word without saying it."

// beginSpeakingPhase resets the turn cursor and hands the floor to the first
// alive participant. Caller must hold c.mu.
func (c *Controller) beginSpeakingPhase(room *domain.Room) {
	invariant(room.BeginSpeaking())

	c.notifier.Publish(domain.NewEvent(domain.EventPhaseChange, room.Code, &domain.PhaseChangePayload{
		Phase:   domain.PhaseSpeaking,
		Message: speakingMessage,
	}))
	c.advance(room)
}

// advance moves to the next alive speaker, or to voting once the round is
// exhausted. Caller must hold c.mu.
func (c *Controller) advance(room *domain.Room) {
	idx, speaker, ok := room.NextSpeaker()
	if !ok {
		c.startVotingPhase(room)
		return
	}

	room.TurnCursor = idx
	c.notifier.Publish(domain.NewEvent(domain.EventTurnUpdate, room.Code, &domain.TurnUpdatePayload{
		Participant: speaker.ToInfo(),
		Round:       room.RoundNumber,
	}))
	c.logger.Debug("turn started", "roomCode", room.Code, "participantID", speaker.ID, "round", room.RoundNumber)

	c.startCountdown(room.Code, c.settings.TurnTicks)
}

// startCountdown publishes one timer_update per tick and advances the turn
// when it reaches zero.
func (c *Controller) startCountdown(code string, remaining int) {
	c.schedule(code, c.settings.TickInterval, func(room *domain.Room) {
		if room.Phase != domain.PhaseSpeaking {
			return
		}

		remaining--
		c.notifier.Publish(domain.NewEvent(domain.EventTimerUpdate, code, &domain.TimerUpdatePayload{TimeLeft: remaining}))

		if remaining <= 0 {
			c.advance(room)
			return
		}
		c.startCountdown(code, remaining)
	})
}
