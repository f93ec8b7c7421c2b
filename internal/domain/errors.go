package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNotEnoughPlayers    = errors.New("not enough players to start")
	ErrInvalidUsername     = errors.New("username must be 1-20 characters")
	ErrAlreadyInRoom       = errors.New("already in a room")
	ErrInvalidTransition   = errors.New("invalid phase transition")
	ErrRoomCodeUnavailable = errors.New("failed to generate unique room code")
)
