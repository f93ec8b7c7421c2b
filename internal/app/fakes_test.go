package app

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"testing"
	"time"

	"shadowsignal/internal/domain"
)

// manualClock queues callbacks until a test fires them
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTimer{delay: d, f: f}
	c.pending = append(c.pending, t)
	return t
}

// next pops the oldest timer that has not been stopped
func (c *manualClock) next() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.pending) > 0 {
		t := c.pending[0]
		c.pending = c.pending[1:]
		if !t.stopped {
			return t
		}
	}
	return nil
}

// fireNext runs the oldest live timer and reports whether there was one
func (c *manualClock) fireNext() bool {
	t := c.next()
	if t == nil {
		return false
	}
	t.stopped = true
	t.f()
	return true
}

// drain fires timers until none are left
func (c *manualClock) drain() int {
	fired := 0
	for fired < 10000 && c.fireNext() {
		fired++
	}
	return fired
}

// active counts scheduled timers that have neither fired nor been stopped
func (c *manualClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// peek returns the oldest live timer without firing it
func (c *manualClock) peek() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.pending {
		if !t.stopped {
			return t
		}
	}
	return nil
}

// recordingNotifier keeps every published event and the subscription table
type recordingNotifier struct {
	mu     sync.Mutex
	events []*domain.GameEvent
	subs   map[string]map[string]bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{subs: make(map[string]map[string]bool)}
}

func (n *recordingNotifier) Subscribe(roomCode, participantID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[roomCode] == nil {
		n.subs[roomCode] = make(map[string]bool)
	}
	n.subs[roomCode][participantID] = true
}

func (n *recordingNotifier) Unsubscribe(roomCode, participantID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.subs[roomCode], participantID)
	if len(n.subs[roomCode]) == 0 {
		delete(n.subs, roomCode)
	}
}

func (n *recordingNotifier) Publish(event *domain.GameEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, event)
}

func (n *recordingNotifier) subscribed(roomCode, participantID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.subs[roomCode][participantID]
}

func (n *recordingNotifier) mark() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.events)
}

// since returns events published after mark, optionally filtered by type
func (n *recordingNotifier) since(mark int, types ...domain.EventType) []*domain.GameEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []*domain.GameEvent
	for _, ev := range n.events[mark:] {
		if len(types) == 0 {
			out = append(out, ev)
			continue
		}
		for _, typ := range types {
			if ev.Type == typ {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

func (n *recordingNotifier) ofType(typ domain.EventType) []*domain.GameEvent {
	return n.since(0, typ)
}

func (n *recordingNotifier) last(typ domain.EventType) *domain.GameEvent {
	events := n.ofType(typ)
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

type staticContent []domain.Category

func (s staticContent) Categories() []domain.Category { return s }

var testContent = staticContent{
	{Name: "Fruit", Words: []string{"apple", "banana", "cherry", "grape"}},
}

type fakeRecorder struct {
	games chan domain.GameSummary
	err   error
}

func (r *fakeRecorder) RecordGame(_ context.Context, summary domain.GameSummary) error {
	r.games <- summary
	return r.err
}

func testSettings() Settings {
	s := DefaultSettings()
	s.TurnTicks = 3
	return s
}

func sequentialCodes() func() string {
	next := 100000
	return func() string {
		code := strconv.Itoa(next)
		next++
		return code
	}
}

type harness struct {
	ctrl     *Controller
	clock    *manualClock
	notifier *recordingNotifier
}

func newHarness(t *testing.T, settings Settings, opts ...Option) *harness {
	t.Helper()

	clock := &manualClock{}
	notifier := newRecordingNotifier()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	base := []Option{
		WithClock(clock),
		WithCodeGenerator(sequentialCodes()),
		WithAssignor(domain.NewAssignor(rand.New(rand.NewPCG(7, 11)))),
	}
	ctrl := NewController(settings, testContent, notifier, logger, append(base, opts...)...)
	t.Cleanup(ctrl.Close)

	return &harness{ctrl: ctrl, clock: clock, notifier: notifier}
}
