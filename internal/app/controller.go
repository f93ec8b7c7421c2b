package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"shadowsignal/internal/domain"
)

// recordTimeout bounds how long a finished game may take to archive
const recordTimeout = 5 * time.Second

// Notifier delivers room events to connected participants
type Notifier interface {
	Subscribe(roomCode, participantID string)
	Unsubscribe(roomCode, participantID string)
	Publish(event *domain.GameEvent)
}

// ContentSource supplies the word categories used when a game starts
type ContentSource interface {
	Categories() []domain.Category
}

// Recorder archives finished games
type Recorder interface {
	RecordGame(ctx context.Context, summary domain.GameSummary) error
}

// Settings holds game rules and timings
type Settings struct {
	MinPlayers     int
	MaxPlayers     int
	TurnTicks      int
	TickInterval   time.Duration
	ResultDelay    time.Duration
	DefaultMode    domain.Mode
	RoomCodeLength int
}

// DefaultSettings returns the standard rules: 3 to 12 players, 30 second
// turns and a 3 second pause after each vote.
func DefaultSettings() Settings {
	return Settings{
		MinPlayers:     3,
		MaxPlayers:     12,
		TurnTicks:      30,
		TickInterval:   time.Second,
		ResultDelay:    3 * time.Second,
		DefaultMode:    domain.ModeInfiltrator,
		RoomCodeLength: DefaultRoomCodeLength,
	}
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces the wall clock used for turn and result timers
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRecorder archives every finished game
func WithRecorder(recorder Recorder) Option {
	return func(c *Controller) { c.recorder = recorder }
}

// WithAssignor replaces the role and word assignor
func WithAssignor(assignor *domain.Assignor) Option {
	return func(c *Controller) { c.assignor = assignor }
}

// WithCodeGenerator replaces the room code generator
func WithCodeGenerator(generate func() string) Option {
	return func(c *Controller) { c.newCode = generate }
}

// Controller is the entry point for every room operation. A single mutex
// serializes client requests and timer callbacks, so each room is only ever
// mutated by one goroutine at a time.
type Controller struct {
	mu       sync.Mutex
	registry *Registry
	timers   map[string]*roomTimer
	timerGen uint64
	closed   bool

	settings Settings
	content  ContentSource
	notifier Notifier
	recorder Recorder
	assignor *domain.Assignor
	clock    Clock
	newCode  func() string
	logger   *slog.Logger
}

// NewController creates a controller with an empty registry
func NewController(settings Settings, content ContentSource, notifier Notifier, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		registry: NewRegistry(),
		timers:   make(map[string]*roomTimer),
		settings: settings,
		content:  content,
		notifier: notifier,
		assignor: domain.NewAssignor(nil),
		clock:    systemClock{},
		logger:   logger,
	}
	if c.settings.RoomCodeLength <= 0 {
		c.settings.RoomCodeLength = DefaultRoomCodeLength
	}
	c.newCode = func() string { return GenerateRoomCode(c.settings.RoomCodeLength) }

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateRoom creates a room hosted by actorID and returns its code
func (c *Controller) CreateRoom(actorID, username string) (string, error) {
	username, err := domain.NormalizeUsername(username)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inRoom := c.registry.FindByParticipantID(actorID); inRoom {
		return "", domain.ErrAlreadyInRoom
	}

	code, err := c.registry.UniqueCode(c.newCode)
	if err != nil {
		return "", err
	}

	room := c.registry.Create(code, domain.NewParticipant(actorID, username))
	c.notifier.Subscribe(code, actorID)
	c.publishLobby(room)

	c.logger.Info("room created", "roomCode", code, "hostID", actorID)
	return code, nil
}

// JoinRoom adds actorID to a room that is still in the lobby
func (c *Controller) JoinRoom(code, actorID, username string) error {
	username, err := domain.NormalizeUsername(username)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.Phase != domain.PhaseLobby {
		return domain.ErrGameInProgress
	}
	if room.Len() >= c.settings.MaxPlayers {
		return domain.ErrRoomFull
	}
	if _, inRoom := c.registry.FindByParticipantID(actorID); inRoom {
		return domain.ErrAlreadyInRoom
	}

	c.registry.AddParticipant(code, domain.NewParticipant(actorID, username))
	c.notifier.Subscribe(code, actorID)
	c.publishLobby(room)

	c.logger.Info("participant joined", "roomCode", code, "participantID", actorID, "participants", room.Len())
	return nil
}

// StartGame assigns roles and words and begins the first speaking round.
// Requests from anyone but the host, or outside the lobby, are ignored.
func (c *Controller) StartGame(code, actorID string, mode domain.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(code)
	if !ok || room.Phase != domain.PhaseLobby || !room.IsHost(actorID) {
		return nil
	}
	if room.Len() < c.settings.MinPlayers {
		return fmt.Errorf("%w: need at least %d players to start", domain.ErrNotEnoughPlayers, c.settings.MinPlayers)
	}
	if !mode.IsValid() {
		mode = c.settings.DefaultMode
	}

	assignment := c.assignor.Assign(room.Participants(), mode, c.content.Categories())
	invariant(room.Start(assignment))

	for _, p := range room.Participants() {
		c.notifier.Publish(domain.NewParticipantEvent(domain.EventGameStarted, code, p.ID, &domain.GameStartedPayload{
			Role: p.Role,
			Word: p.Word,
			Mode: mode,
		}))
	}

	c.logger.Info("game started",
		"roomCode", code,
		"mode", mode,
		"category", room.Category,
		"participants", room.Len(),
	)

	c.beginSpeakingPhase(room)
	return nil
}

// Leave removes actorID from the room identified by code
func (c *Controller) Leave(code, actorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(code)
	if !ok {
		return
	}
	if _, ok := room.Participant(actorID); !ok {
		return
	}
	c.removeParticipant(room, actorID)
}

// Disconnect removes actorID from whichever room it is in
func (c *Controller) Disconnect(actorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.FindByParticipantID(actorID)
	if !ok {
		return
	}
	c.removeParticipant(room, actorID)
}

// Snapshot returns a copy of the room for read-only callers
func (c *Controller) Snapshot(code string) (*domain.Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.registry.Get(code)
	if !ok {
		return nil, false
	}
	return room.Clone(), true
}

// Stats returns the number of active rooms and participants
func (c *Controller) Stats() (rooms, participants int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.registry.Count(), c.registry.ParticipantCount()
}

// Close cancels every outstanding timer. Rooms stay registered but no
// further timer callbacks run.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for code := range c.timers {
		c.cancelTimer(code)
	}
}

// removeParticipant handles leaves and disconnects in any phase. Caller must hold c.mu.
func (c *Controller) removeParticipant(room *domain.Room, id string) {
	code := room.Code

	speaker, hasSpeaker := room.CurrentSpeaker()
	wasSpeaking := hasSpeaker && speaker.ID == id

	if room.Len() == 1 {
		c.cancelTimer(code)
	}
	c.notifier.Unsubscribe(code, id)

	if _, ok := c.registry.RemoveParticipant(code, id); !ok {
		c.logger.Info("room closed", "roomCode", code)
		return
	}

	c.notifier.Publish(domain.NewEvent(domain.EventPlayerLeft, code, &domain.PlayerLeftPayload{ParticipantID: id}))
	c.publishLobby(room)
	c.logger.Info("participant left", "roomCode", code, "participantID", id, "phase", room.Phase)

	if !room.Phase.IsInGame() {
		return
	}
	if c.checkWin(room) {
		return
	}

	switch room.Phase {
	case domain.PhaseSpeaking:
		if wasSpeaking {
			c.advance(room)
		}
	case domain.PhaseVoting:
		if room.VotingOpen() && room.AllVoted() {
			c.resolveVotes(room)
		}
	}
}

func (c *Controller) publishLobby(room *domain.Room) {
	c.notifier.Publish(domain.NewEvent(domain.EventLobbyUpdate, room.Code, room.LobbyState()))
}

// checkWin ends the game if a side has won. Caller must hold c.mu.
func (c *Controller) checkWin(room *domain.Room) bool {
	winner, over := room.EvaluateWinner()
	if !over {
		return false
	}

	c.cancelTimer(room.Code)
	invariant(room.Finish(winner))

	c.notifier.Publish(domain.NewEvent(domain.EventGameOver, room.Code, &domain.GameOverPayload{
		Winner:  winner,
		Message: gameOverMessage(room.Mode, winner),
	}))
	c.logger.Info("game over", "roomCode", room.Code, "winner", winner, "rounds", room.RoundNumber)

	c.record(room.Summary())
	return true
}

func (c *Controller) record(summary domain.GameSummary) {
	if c.recorder == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := c.recorder.RecordGame(ctx, summary); err != nil {
			c.logger.Error("failed to record game", "roomCode", summary.RoomCode, "error", err)
		}
	}()
}

func gameOverMessage(mode domain.Mode, winner domain.Role) string {
	deviant := displayName(string(mode.DeviantRole()))
	if winner == mode.DeviantRole() {
		return fmt.Sprintf("The %s survived until the end!", deviant)
	}
	return fmt.Sprintf("The %s has been eliminated!", deviant)
}

func displayName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// invariant panics on errors that indicate a broken state machine
func invariant(err error) {
	if err != nil {
		panic("app: " + err.Error())
	}
}
