package lootbox

import (
	"context"
	"sync"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/logger"
	"github.com/avragame/aura-engine/internal/scheduler"
)

// KindDetectorAlert warns lootbox detector holders shortly before a
// spawn lands.
const KindDetectorAlert scheduler.Kind = "lootbox_detector_alert"

// Accounts is the narrow account port the manager needs for detector
// notifications.
type Accounts interface {
	All(ctx context.Context) ([]*domain.Player, error)
	Save(ctx context.Context, p *domain.Player) error
}

// Manager owns the single world lootbox slot: at most one box is
// active at a time, grabbing is first-come-first-served, and an
// unclaimed box despawns. Spawn timing runs on the shared scheduler so
// callbacks never interleave with command execution.
type Manager struct {
	mu        sync.Mutex
	active    *domain.Lootbox
	despawn   scheduler.Handle
	nextSpawn scheduler.Handle

	accounts Accounts
	sched    *scheduler.Scheduler
	eventBus event.Bus
	gen      *Generator
	started  bool
}

// NewManager creates a lootbox manager and registers its scheduled
// handlers.
func NewManager(accounts Accounts, sched *scheduler.Scheduler, eventBus event.Bus, gen *Generator) *Manager {
	m := &Manager{
		accounts: accounts,
		sched:    sched,
		eventBus: eventBus,
		gen:      gen,
	}
	sched.Register(scheduler.KindLootboxSpawn, m.handleSpawn)
	sched.Register(scheduler.KindLootboxDespawn, m.handleDespawn)
	sched.Register(KindDetectorAlert, m.handleDetectorAlert)
	return m
}

// Start queues the first spawn cycle. Safe to call once.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.scheduleNextLocked()
}

// scheduleNextLocked queues the next spawn plus the detector alert
// ahead of it. Caller holds mu.
func (m *Manager) scheduleNextLocked() {
	delay := m.gen.SpawnDelay()
	if delay > DetectorLead {
		m.sched.Schedule(delay-DetectorLead, scheduler.Task{Kind: KindDetectorAlert})
	}
	m.nextSpawn = m.sched.Schedule(delay, scheduler.Task{Kind: scheduler.KindLootboxSpawn})
}

func (m *Manager) handleSpawn(ctx context.Context, _ scheduler.Task) {
	now := time.Now()
	box := m.gen.Roll(now)

	m.mu.Lock()
	m.active = box
	m.despawn = m.sched.Schedule(DespawnAfter, scheduler.Task{Kind: scheduler.KindLootboxDespawn})
	m.mu.Unlock()

	m.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.LootboxSpawn,
		Payload: box,
	})
	logger.FromContext(ctx).Info("Lootbox spawned", "rarity", box.Rarity, "rewards", len(box.Rewards))
}

func (m *Manager) handleDespawn(ctx context.Context, _ scheduler.Task) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return
	}
	box := m.active
	m.active = nil
	m.scheduleNextLocked()
	m.mu.Unlock()

	m.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.LootboxDespawn,
		Payload: box,
	})
	logger.FromContext(ctx).Info("Lootbox despawned unclaimed", "rarity", box.Rarity)
}

// handleDetectorAlert queues a heads-up notification for every player
// holding an active lootbox detector.
func (m *Manager) handleDetectorAlert(ctx context.Context, _ scheduler.Task) {
	log := logger.FromContext(ctx)
	players, err := m.accounts.All(ctx)
	if err != nil {
		log.Warn("Detector alert skipped", "error", err)
		return
	}
	now := time.Now()
	for _, p := range players {
		if !p.HasActiveItem(item.LootboxDetector, now) {
			continue
		}
		n := domain.Notification{
			Type:      "lootbox_detector",
			Message:   "Your Lootbox Detector is beeping: a lootbox will appear in 30 seconds!",
			CreatedAt: now,
		}
		p.PushNotification(n)
		m.publish(ctx, event.NewNotificationEvent(p.ID, n.Type, n.Message))
		if err := m.accounts.Save(ctx, p); err != nil {
			log.Warn("Failed to persist detector alert", "playerID", p.ID, "error", err)
		}
	}
}

// Active returns the currently grabbable lootbox, or nil.
func (m *Manager) Active() *domain.Lootbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Take atomically claims the active lootbox for the caller. The
// second return is false when no box is up or it was already taken;
// exactly one concurrent caller can win a box.
func (m *Manager) Take(ctx context.Context) (*domain.Lootbox, bool) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return nil, false
	}
	box := m.active
	m.active = nil
	m.sched.Cancel(m.despawn)
	if m.started {
		m.scheduleNextLocked()
	}
	m.mu.Unlock()

	m.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.LootboxOpen,
		Payload: box,
	})
	return box, true
}

// SpawnNow forces an immediate spawn (admin and test hook).
func (m *Manager) SpawnNow(ctx context.Context) {
	m.handleSpawn(ctx, scheduler.Task{Kind: scheduler.KindLootboxSpawn})
}

// Stop cancels the pending spawn chain.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.sched.Cancel(m.nextSpawn)
	m.sched.Cancel(m.despawn)
	m.active = nil
}

func (m *Manager) publish(ctx context.Context, e event.Event) {
	if m.eventBus == nil {
		return
	}
	if err := m.eventBus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Event publish failed", "type", e.Type, "error", err)
	}
}
