package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avragame/aura-engine/internal/logger"
)

// Kind identifies a deferred effect.
type Kind string

const (
	KindRestoreAura    Kind = "restore_aura"
	KindLootboxSpawn   Kind = "lootbox_spawn"
	KindLootboxDespawn Kind = "lootbox_despawn"
)

// Task is an explicit scheduled-effect record. Handlers re-fetch
// current account state from AccountID rather than closing over live
// objects, so a reload between scheduling and firing is not a lost
// update.
type Task struct {
	ID        uuid.UUID
	DueAt     time.Time
	AccountID string
	Kind      Kind
	Payload   map[string]string
}

// Handle identifies a pending task for cancellation.
type Handle = uuid.UUID

// HandlerFunc executes a fired task.
type HandlerFunc func(ctx context.Context, task Task)

// Scheduler runs deferred effects on timers. Handler execution is
// serialized: no two callbacks run concurrently, and no callback runs
// concurrently with a synchronous operation that holds the same
// execution lock via Do.
type Scheduler struct {
	mu        sync.Mutex
	execMu    sync.Mutex
	handlers  map[Kind]HandlerFunc
	timers    map[uuid.UUID]*time.Timer
	owners    map[uuid.UUID]string
	byAccount map[string]map[uuid.UUID]struct{}
	closed    bool
	wg        sync.WaitGroup
}

// New creates a scheduler with no registered handlers.
func New() *Scheduler {
	return &Scheduler{
		handlers:  make(map[Kind]HandlerFunc),
		timers:    make(map[uuid.UUID]*time.Timer),
		owners:    make(map[uuid.UUID]string),
		byAccount: make(map[string]map[uuid.UUID]struct{}),
	}
}

// Register binds a handler to a task kind. Must be called before any
// task of that kind fires; later registrations replace earlier ones.
func (s *Scheduler) Register(kind Kind, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[kind] = fn
}

// Schedule queues a task to fire after delay and returns its handle.
// Returns uuid.Nil if the scheduler is stopped.
func (s *Scheduler) Schedule(delay time.Duration, task Task) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return uuid.Nil
	}

	task.ID = uuid.New()
	task.DueAt = time.Now().Add(delay)

	s.wg.Add(1)
	s.timers[task.ID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.fire(task)
	})
	if task.AccountID != "" {
		s.owners[task.ID] = task.AccountID
		if s.byAccount[task.AccountID] == nil {
			s.byAccount[task.AccountID] = make(map[uuid.UUID]struct{})
		}
		s.byAccount[task.AccountID][task.ID] = struct{}{}
	}
	return task.ID
}

// dropFromIndex is called with mu held.
func (s *Scheduler) dropFromIndex(id uuid.UUID) {
	accountID, ok := s.owners[id]
	if !ok {
		return
	}
	delete(s.owners, id)
	if set, ok := s.byAccount[accountID]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(s.byAccount, accountID)
		}
	}
}

func (s *Scheduler) fire(task Task) {
	s.mu.Lock()
	if _, pending := s.timers[task.ID]; !pending || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, task.ID)
	s.dropFromIndex(task.ID)
	fn := s.handlers[task.Kind]
	s.mu.Unlock()

	if fn == nil {
		logger.FromContext(context.Background()).Warn("No handler for scheduled task", "kind", task.Kind)
		return
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()
	fn(context.Background(), task)
}

// Do runs fn under the execution lock so synchronous check-then-act
// sequences cannot be interleaved with a firing deferred effect.
func (s *Scheduler) Do(fn func()) {
	s.execMu.Lock()
	defer s.execMu.Unlock()
	fn()
}

// Cancel removes a pending task. Returns false if it already fired or
// was never scheduled.
func (s *Scheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[h]
	if !ok {
		return false
	}
	delete(s.timers, h)
	s.dropFromIndex(h)
	if t.Stop() {
		s.wg.Done()
	}
	return true
}

// CancelAll removes every listed pending task (session disposal).
func (s *Scheduler) CancelAll(handles []Handle) {
	for _, h := range handles {
		s.Cancel(h)
	}
}

// CancelAccount removes every pending task bound to an account, so a
// closed session leaves no timers that would mutate a torn-down
// record. Returns the number of tasks cancelled.
func (s *Scheduler) CancelAccount(accountID string) int {
	s.mu.Lock()
	handles := make([]Handle, 0, len(s.byAccount[accountID]))
	for id := range s.byAccount[accountID] {
		handles = append(handles, id)
	}
	s.mu.Unlock()

	cancelled := 0
	for _, h := range handles {
		if s.Cancel(h) {
			cancelled++
		}
	}
	return cancelled
}

// Pending reports how many tasks are queued.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels all pending tasks and waits for in-flight handlers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.timers {
		delete(s.timers, id)
		s.dropFromIndex(id)
		if t.Stop() {
			s.wg.Done()
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}
