package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/economy"
	"github.com/avragame/aura-engine/internal/engine"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/leaderboard"
	"github.com/avragame/aura-engine/internal/lootbox"
	"github.com/avragame/aura-engine/internal/player"
	"github.com/avragame/aura-engine/internal/push"
	"github.com/avragame/aura-engine/internal/scheduler"
	"github.com/avragame/aura-engine/internal/session"
	"github.com/avragame/aura-engine/internal/storage"
)

// brokenStore fails its ping to exercise the readiness path.
type brokenStore struct {
	*storage.MemoryStore
}

func (b *brokenStore) Ping(_ context.Context) error {
	return errors.New("connection refused")
}

func newTestServer(t *testing.T, store storage.Store, apiKey string) *Server {
	t.Helper()

	bus := event.NewMemoryBus()
	sched := scheduler.New()
	t.Cleanup(sched.Stop)

	players := player.NewService(player.NewRepository(store), bus, engine.Combos(), nil)
	econ := economy.NewService(players, sched, bus, nil)
	boxes := lootbox.NewManager(players, sched, bus, lootbox.NewGenerator(nil))
	board := leaderboard.NewService(leaderboard.NewMemoryProvider(), players)
	board.Register(bus)
	hub := push.NewHub(slog.Default())
	sessions := session.NewManager(players, econ, boxes, board, bus, sched)

	return NewServer(0, apiKey, store, sessions, players, board, boxes, hub)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore(), "")

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestReadyzFailsWhenStoreIsDown(t *testing.T) {
	srv := newTestServer(t, &brokenStore{storage.NewMemoryStore()}, "")

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "unavailable", resp.Status)
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore(), "topsecret")

	t.Run("missing key is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
		req.Header.Set(HeaderAPIKey, "guess")
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct key passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
		req.Header.Set(HeaderAPIKey, "topsecret")
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health endpoints stay public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSessionAndCommandFlow(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore(), "")

	openBody, _ := json.Marshal(OpenSessionRequest{Name: "Mira"})
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader(openBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	var opened OpenSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opened))
	require.NotNil(t, opened.Player)
	assert.Equal(t, "Mira", opened.Player.Name)
	assert.Equal(t, int64(domain.StartingAura), opened.Player.Aura)

	cmdBody, _ := json.Marshal(CommandRequest{PlayerID: opened.Player.ID, Input: "/profile"})
	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/command/execute", bytes.NewReader(cmdBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out domain.Outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, domain.OutcomeProfile, out.Type)
	assert.Contains(t, out.Message, "Mira")
}

func TestCommandValidation(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore(), "")

	cmdBody, _ := json.Marshal(CommandRequest{Input: "/help"})
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/command/execute", bytes.NewReader(cmdBody)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "playerid is required")
}

func TestCommandWithoutSession(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore(), "")

	cmdBody, _ := json.Marshal(CommandRequest{PlayerID: "p_nobody", Input: "/help"})
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/command/execute", bytes.NewReader(cmdBody)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPlayerNotFound(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore(), "")

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/player/p_missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationsDrain(t *testing.T) {
	store := storage.NewMemoryStore()
	srv := newTestServer(t, store, "")

	now := time.Now()
	p, err := srv.players.GetOrRegister(context.Background(), "", "Mira", now)
	require.NoError(t, err)
	p.PushNotification(domain.Notification{Type: "gift", Message: "hello", CreatedAt: now})
	require.NoError(t, srv.players.Save(context.Background(), p))

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/player/"+p.ID+"/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NotificationsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "hello", resp.Notifications[0].Message)

	// A second poll finds the queue drained.
	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/player/"+p.ID+"/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Notifications)
}
