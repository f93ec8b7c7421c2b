package app

import (
	"crypto/rand"
	"math/big"

	"shadowsignal/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// maxCodeAttempts bounds how often a colliding code is regenerated
	maxCodeAttempts = 10
)

// RoomCodeChars are characters used for room codes
const RoomCodeChars = "0123456789"

// Registry maps room codes to rooms. A room is registered only while it has
// participants. Registry is not safe for concurrent use; the Controller
// serializes all access.
type Registry struct {
	rooms map[string]*domain.Room
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*domain.Room),
	}
}

// Create registers a new room with host as its only participant
func (r *Registry) Create(code string, host *domain.Participant) *domain.Room {
	if _, exists := r.rooms[code]; exists {
		panic("app: room code already registered: " + code)
	}
	room := domain.NewRoom(code, host)
	r.rooms[code] = room
	return room
}

// Get returns a room by code
func (r *Registry) Get(code string) (*domain.Room, bool) {
	room, ok := r.rooms[code]
	return room, ok
}

// AddParticipant adds a participant to an existing room
func (r *Registry) AddParticipant(code string, p *domain.Participant) (*domain.Room, bool) {
	room, ok := r.rooms[code]
	if !ok {
		return nil, false
	}
	room.AddParticipant(p)
	return room, true
}

// RemoveParticipant removes a participant and deletes the room once it is
// empty, in which case the room is reported absent.
func (r *Registry) RemoveParticipant(code, id string) (*domain.Room, bool) {
	room, ok := r.rooms[code]
	if !ok {
		return nil, false
	}

	room.RemoveParticipant(id)
	if room.Len() == 0 {
		delete(r.rooms, code)
		return nil, false
	}
	return room, true
}

// FindByParticipantID returns the room a participant is in
func (r *Registry) FindByParticipantID(id string) (*domain.Room, bool) {
	for _, room := range r.rooms {
		if _, ok := room.Participant(id); ok {
			return room, true
		}
	}
	return nil, false
}

// Count returns the number of registered rooms
func (r *Registry) Count() int {
	return len(r.rooms)
}

// ParticipantCount returns the number of participants across all rooms
func (r *Registry) ParticipantCount() int {
	total := 0
	for _, room := range r.rooms {
		total += room.Len()
	}
	return total
}

// UniqueCode draws codes from generate until one is not in use
func (r *Registry) UniqueCode(generate func() string) (string, error) {
	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		code := generate()
		if _, exists := r.rooms[code]; !exists {
			return code, nil
		}
	}
	return "", domain.ErrRoomCodeUnavailable
}

// GenerateRoomCode generates a random numeric room code
func GenerateRoomCode(length int) string {
	code := make([]byte, length)
	limit := big.NewInt(int64(len(RoomCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("app: crypto/rand unavailable: " + err.Error())
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}
