package lootbox

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/scheduler"
)

type stubAccounts struct {
	mu      sync.Mutex
	players []*domain.Player
}

func (s *stubAccounts) All(_ context.Context) ([]*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players, nil
}

func (s *stubAccounts) Save(_ context.Context, _ *domain.Player) error {
	return nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	return NewManager(&stubAccounts{}, sched, event.NewMemoryBus(), NewGenerator(seqRand(0.0, 0.5, 0.9)))
}

func TestTakeWithoutActiveBox(t *testing.T) {
	m := newTestManager(t)

	box, ok := m.Take(context.Background())
	assert.False(t, ok)
	assert.Nil(t, box)
}

func TestSpawnNowThenTake(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	m.SpawnNow(ctx)
	require.NotNil(t, m.Active())

	box, ok := m.Take(ctx)
	require.True(t, ok)
	require.NotNil(t, box)
	assert.NotEmpty(t, box.Rewards)

	assert.Nil(t, m.Active(), "a taken box leaves the slot empty")
	_, ok = m.Take(ctx)
	assert.False(t, ok, "the same box cannot be taken twice")
}

func TestTakeIsExclusive(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	m.SpawnNow(ctx)

	const grabbers = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < grabbers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := m.Take(ctx); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one grabber should win the box")
}

func TestDetectorAlertNotifiesHolders(t *testing.T) {
	now := time.Now()
	holder := domain.NewPlayer("p_holder", "Holder", now)
	holder.ActiveItems = append(holder.ActiveItems, domain.ActiveItem{
		CatalogID: item.LootboxDetector,
		ExpiresAt: now.Add(time.Hour),
	})
	bystander := domain.NewPlayer("p_bystander", "Bystander", now)

	accounts := &stubAccounts{players: []*domain.Player{holder, bystander}}
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	m := NewManager(accounts, sched, event.NewMemoryBus(), NewGenerator(seqRand(0.0)))

	m.handleDetectorAlert(context.Background(), scheduler.Task{Kind: KindDetectorAlert})

	require.Len(t, holder.Notifications, 1)
	assert.Equal(t, "Your Lootbox Detector is beeping: a lootbox will appear in 30 seconds!", holder.Notifications[0].Message)
	assert.Empty(t, bystander.Notifications)
}

func TestStopClearsActiveBox(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	m.Start()
	m.SpawnNow(ctx)
	m.Stop()

	assert.Nil(t, m.Active())
	_, ok := m.Take(ctx)
	assert.False(t, ok)
}
