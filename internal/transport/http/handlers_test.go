package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shadowsignal/internal/config"
	"shadowsignal/internal/domain"
	"shadowsignal/internal/history"
)

type fakeRooms map[string]*domain.Room

func (f fakeRooms) Snapshot(code string) (*domain.Room, bool) {
	room, ok := f[code]
	return room, ok
}

func (f fakeRooms) Stats() (int, int) {
	participants := 0
	for _, room := range f {
		participants += room.Len()
	}
	return len(f), participants
}

type fakeHistory struct {
	records []history.GameRecord
	err     error
	limit   int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]history.GameRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func newTestServer(t *testing.T, rooms fakeRooms, games GameHistory) http.Handler {
	t.Helper()

	cfg := config.Load()
	cfg.Server.PublicURL = "https://play.example.com/"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ws := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	return NewServer(cfg, rooms, games, ws, logger).Handler()
}

func lobbyRoom(code string, n int) *domain.Room {
	room := domain.NewRoom(code, domain.NewParticipant("p0", "Host"))
	for i := 1; i < n; i++ {
		room.AddParticipant(domain.NewParticipant(string(rune('a'+i)), "Guest"))
	}
	return room
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, fakeRooms{}, nil)

	rec, resp := get(t, h, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"status": "ok"}, resp.Data)
}

func TestStats(t *testing.T) {
	h := newTestServer(t, fakeRooms{"111111": lobbyRoom("111111", 3), "222222": lobbyRoom("222222", 1)}, nil)

	_, resp := get(t, h, "/api/stats")
	assert.Equal(t, map[string]interface{}{"activeRooms": float64(2), "participants": float64(4)}, resp.Data)
}

func TestGetRoom(t *testing.T) {
	h := newTestServer(t, fakeRooms{"111111": lobbyRoom("111111", 3)}, nil)

	rec, resp := get(t, h, "/api/rooms/111111")
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "111111", data["roomCode"])
	assert.Equal(t, float64(3), data["participantCount"])
	assert.Equal(t, "LOBBY", data["phase"])
	assert.Equal(t, true, data["canJoin"])
	assert.Equal(t, "https://play.example.com/join/111111", data["inviteLink"])

	rec, resp = get(t, h, "/api/rooms/999999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ROOM_NOT_FOUND", resp.Error.Code)
}

func TestGetRoom_InProgressCannotBeJoined(t *testing.T) {
	room := lobbyRoom("111111", 3)
	room.Phase = domain.PhaseSpeaking
	h := newTestServer(t, fakeRooms{"111111": room}, nil)

	_, resp := get(t, h, "/api/rooms/111111")
	assert.Equal(t, false, resp.Data.(map[string]interface{})["canJoin"])
}

func TestRoomExists(t *testing.T) {
	h := newTestServer(t, fakeRooms{"111111": lobbyRoom("111111", 1)}, nil)

	_, resp := get(t, h, "/api/rooms/111111/exists")
	assert.Equal(t, map[string]interface{}{"exists": true}, resp.Data)

	_, resp = get(t, h, "/api/rooms/222222/exists")
	assert.Equal(t, map[string]interface{}{"exists": false}, resp.Data)
}

func TestRoomQR(t *testing.T) {
	h := newTestServer(t, fakeRooms{"111111": lobbyRoom("111111", 1)}, nil)

	rec, _ := get(t, h, "/api/rooms/111111/qr")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rec.Body.String()[:4])

	rec, _ = get(t, h, "/api/rooms/999999/qr")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecentGames(t *testing.T) {
	ended := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	games := &fakeHistory{records: []history.GameRecord{
		{RoomCode: "111111", Mode: "SPY", Category: "Fruit", Winner: "AGENT", Rounds: 2, PlayerCount: 5, EndedAt: ended},
	}}
	h := newTestServer(t, fakeRooms{}, games)

	rec, resp := get(t, h, "/api/games")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultRecentGames, games.limit)

	list := resp.Data.([]interface{})
	require.Len(t, list, 1)
	game := list[0].(map[string]interface{})
	assert.Equal(t, "111111", game["roomCode"])
	assert.Equal(t, "AGENT", game["winner"])

	get(t, h, "/api/games?limit=1000")
	assert.Equal(t, maxRecentGames, games.limit)

	rec, _ = get(t, h, "/api/games?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentGames_Errors(t *testing.T) {
	rec, resp := get(t, newTestServer(t, fakeRooms{}, nil), "/api/games")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HISTORY_DISABLED", resp.Error.Code)

	rec, _ = get(t, newTestServer(t, fakeRooms{}, &fakeHistory{err: errors.New("db down")}), "/api/games")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_PreflightAndWebSocketRoute(t *testing.T) {
	h := newTestServer(t, fakeRooms{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

type panickingRooms struct{ fakeRooms }

func (panickingRooms) Stats() (int, int) { panic("stats unavailable") }

func TestMiddleware_RecoversPanics(t *testing.T) {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewServer(cfg, panickingRooms{}, nil, http.NotFoundHandler(), logger).Handler()

	rec, resp := get(t, h, "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}
