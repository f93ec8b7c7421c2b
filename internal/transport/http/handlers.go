package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"shadowsignal/internal/domain"
)

const (
	qrSize             = 256
	defaultRecentGames = 20
	maxRecentGames     = 100
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode         string `json:"roomCode"`
	ParticipantCount int    `json:"participantCount"`
	Phase            string `json:"phase"`
	CanJoin          bool   `json:"canJoin"`
	InviteLink       string `json:"inviteLink"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	Participants int `json:"participants"`
}

// GameResponse is one archived game
type GameResponse struct {
	RoomCode    string    `json:"roomCode"`
	Mode        string    `json:"mode"`
	Category    string    `json:"category"`
	Winner      string    `json:"winner"`
	Rounds      int       `json:"rounds"`
	PlayerCount int       `json:"playerCount"`
	EndedAt     time.Time `json:"endedAt"`
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:         room.Code,
		ParticipantCount: room.Len(),
		Phase:            room.Phase.String(),
		CanJoin:          room.Phase == domain.PhaseLobby && room.Len() < s.config.Game.MaxPlayers,
		InviteLink:       s.inviteLink(room.Code),
	})
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	_, exists := s.rooms.Snapshot(strings.TrimSpace(r.PathValue("roomCode")))

	s.sendSuccess(w, &RoomExistsResponse{
		Exists: exists,
	})
}

// handleRoomQR handles GET /api/rooms/{roomCode}/qr with a PNG of the invite link
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	room, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(s.inviteLink(room.Code), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "roomCode", room.Code, "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleRecentGames handles GET /api/games
func (s *Server) handleRecentGames(w http.ResponseWriter, r *http.Request) {
	if s.games == nil {
		s.sendError(w, http.StatusNotFound, "HISTORY_DISABLED", "Game history is not enabled")
		return
	}

	limit := defaultRecentGames
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			s.sendError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = min(value, maxRecentGames)
	}

	records, err := s.games.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list games", "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	games := make([]GameResponse, 0, len(records))
	for _, rec := range records {
		games = append(games, GameResponse{
			RoomCode:    rec.RoomCode,
			Mode:        rec.Mode,
			Category:    rec.Category,
			Winner:      rec.Winner,
			Rounds:      rec.Rounds,
			PlayerCount: rec.PlayerCount,
			EndedAt:     rec.EndedAt,
		})
	}
	s.sendSuccess(w, games)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	rooms, participants := s.rooms.Stats()
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms:  rooms,
		Participants: participants,
	})
}

func (s *Server) lookupRoom(w http.ResponseWriter, r *http.Request) (*domain.Room, bool) {
	roomCode := strings.TrimSpace(r.PathValue("roomCode"))
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return nil, false
	}

	room, ok := s.rooms.Snapshot(roomCode)
	if !ok {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return nil, false
	}
	return room, true
}

func (s *Server) inviteLink(code string) string {
	return strings.TrimRight(s.config.Server.PublicURL, "/") + "/join/" + code
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
