package app

import (
	"time"

	"shadowsignal/internal/domain"
)

// roomTimer is the single outstanding callback owned by a room
type roomTimer struct {
	gen   uint64
	timer Timer
}

// schedule replaces the room's active timer with one that runs fn after d.
// Caller must hold c.mu.
func (c *Controller) schedule(code string, d time.Duration, fn func(room *domain.Room)) {
	c.cancelTimer(code)

	c.timerGen++
	gen := c.timerGen
	timer := c.clock.AfterFunc(d, func() {
		c.fire(code, gen, fn)
	})
	c.timers[code] = &roomTimer{gen: gen, timer: timer}
}

// fire runs a timer callback if it still owns the room's timer slot
func (c *Controller) fire(code string, gen uint64, fn func(room *domain.Room)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	active, ok := c.timers[code]
	if !ok || active.gen != gen || c.closed {
		return
	}
	delete(c.timers, code)

	room, ok := c.registry.Get(code)
	if !ok || room.Phase == domain.PhaseGameOver {
		return
	}
	fn(room)
}

// cancelTimer stops the room's active timer. Caller must hold c.mu.
func (c *Controller) cancelTimer(code string) {
	if active, ok := c.timers[code]; ok {
		active.timer.Stop()
		delete(c.timers, code)
	}
}

// hasTimer reports whether the room has an outstanding timer. Caller must hold c.mu.
func (c *Controller) hasTimer(code string) bool {
	_, ok := c.timers[code]
	return ok
}
