// Package session binds one connected player to a command engine and
// serializes their command execution against deferred effects.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/economy"
	"github.com/avragame/aura-engine/internal/engine"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/logger"
	"github.com/avragame/aura-engine/internal/lootbox"
	"github.com/avragame/aura-engine/internal/player"
	"github.com/avragame/aura-engine/internal/scheduler"
)

// Session is one player's live engine instance. Combo buffers,
// history, and the rate-limit window die with the session; account
// state does not.
type Session struct {
	PlayerID  string
	CreatedAt time.Time

	engine *engine.Engine
	sched  *scheduler.Scheduler

	mu       sync.Mutex
	lastSeen time.Time
}

// Execute runs one input line under the shared execution lock, so a
// command never interleaves with a firing deferred effect or another
// session's command.
func (s *Session) Execute(ctx context.Context, input string, now time.Time) (out *domain.Outcome) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()

	s.sched.Do(func() {
		out = s.engine.Process(ctx, input, now)
	})
	return out
}

// History exposes the session's accepted-command history.
func (s *Session) History() []engine.HistoryEntry {
	return s.engine.History()
}

// LastSeen reports when the session last executed a command.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager tracks live sessions by player id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	players  player.Service
	economy  economy.Service
	boxes    *lootbox.Manager
	board    engine.Leaderboard
	eventBus event.Bus
	sched    *scheduler.Scheduler
}

// NewManager creates a session manager over the shared services.
func NewManager(players player.Service, econ economy.Service, boxes *lootbox.Manager, board engine.Leaderboard, eventBus event.Bus, sched *scheduler.Scheduler) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		players:  players,
		economy:  econ,
		boxes:    boxes,
		board:    board,
		eventBus: eventBus,
		sched:    sched,
	}
}

// Acquire returns the live session for a player, creating the account
// and session as needed. name is only used when registering a new
// account.
func (m *Manager) Acquire(ctx context.Context, playerID, name string, now time.Time) (*Session, error) {
	p, err := m.players.GetOrRegister(ctx, playerID, name, now)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[p.ID]; ok {
		return s, nil
	}

	s := &Session{
		PlayerID:  p.ID,
		CreatedAt: now,
		engine:    engine.New(p.ID, m.players, m.economy, m.boxes, m.board, m.eventBus),
		sched:     m.sched,
		lastSeen:  now,
	}
	m.sessions[p.ID] = s
	logger.FromContext(ctx).Info("Session opened", "playerID", p.ID)
	return s, nil
}

// Get returns the live session for a player, if any.
func (m *Manager) Get(playerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[playerID]
	return s, ok
}

// Close drops a player's session and cancels every deferred effect
// pending against that account, so no timer fires into a torn-down
// record. The persisted account itself survives.
func (m *Manager) Close(ctx context.Context, playerID string) {
	m.mu.Lock()
	_, ok := m.sessions[playerID]
	delete(m.sessions, playerID)
	m.mu.Unlock()
	if !ok {
		return
	}
	cancelled := m.sched.CancelAccount(playerID)
	logger.FromContext(ctx).Info("Session closed", "playerID", playerID, "cancelledTasks", cancelled)
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
