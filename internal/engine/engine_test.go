package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/economy"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/leaderboard"
	"github.com/avragame/aura-engine/internal/lootbox"
	"github.com/avragame/aura-engine/internal/player"
	"github.com/avragame/aura-engine/internal/scheduler"
	"github.com/avragame/aura-engine/internal/storage"
)

type testRig struct {
	engine  *Engine
	players player.Service
	economy economy.Service
	boxes   *lootbox.Manager
	board   *leaderboard.Service
	sched   *scheduler.Scheduler
	bus     *event.MemoryBus
	player  *domain.Player
}

// newTestRig wires a full engine over in-memory backends with a
// pinned random source and one registered player.
func newTestRig(t *testing.T, now time.Time, rnd func() float64) *testRig {
	t.Helper()

	bus := event.NewMemoryBus()
	sched := scheduler.New()
	t.Cleanup(sched.Stop)

	players := player.NewService(player.NewRepository(storage.NewMemoryStore()), bus, Combos(), rnd)
	econ := economy.NewService(players, sched, bus, rnd)
	boxes := lootbox.NewManager(players, sched, bus, lootbox.NewGenerator(rnd))
	board := leaderboard.NewService(leaderboard.NewMemoryProvider(), players)
	board.Register(bus)

	p, err := players.GetOrRegister(context.Background(), "", "Mira", now)
	require.NoError(t, err)

	return &testRig{
		engine:  New(p.ID, players, econ, boxes, board, bus),
		players: players,
		economy: econ,
		boxes:   boxes,
		board:   board,
		sched:   sched,
		bus:     bus,
		player:  p,
	}
}

func TestProcessEmptyInput(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })

	assert.Nil(t, rig.engine.Process(context.Background(), "   ", now))
	assert.Empty(t, rig.engine.History())
}

func TestProcessRateLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	out := rig.engine.Process(ctx, "/help", now)
	require.NotNil(t, out)
	assert.True(t, out.Success)

	out = rig.engine.Process(ctx, "/help", now.Add(50*time.Millisecond))
	require.NotNil(t, out)
	assert.Equal(t, domain.OutcomeRateLimited, out.Type)
	assert.Equal(t, "Please slow down!", out.Message)

	// A rejected command must not push the window forward: the next
	// attempt is measured against the last accepted one.
	out = rig.engine.Process(ctx, "/help", now.Add(250*time.Millisecond))
	require.NotNil(t, out)
	assert.True(t, out.Success)
}

func TestProcessUnknownCommand(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })

	out := rig.engine.Process(context.Background(), "/teleport", now)
	require.NotNil(t, out)
	assert.False(t, out.Success)
	assert.Equal(t, "Unknown command: teleport. Type /help for available commands.", out.Message)
}

func TestProcessChat(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })

	out := rig.engine.Process(context.Background(), "Hello there", now)
	require.NotNil(t, out)
	assert.Equal(t, domain.OutcomeChat, out.Type)
	assert.Equal(t, "Mira says: hello there", out.Message)
}

func TestProcessComboSequence(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	out := rig.engine.Process(ctx, "/focus", now)
	require.NotNil(t, out)
	assert.Equal(t, domain.OutcomeCommand, out.Type)
	assert.Equal(t, "Command: focus", out.Message)

	out = rig.engine.Process(ctx, "/channel", now.Add(time.Second))
	require.NotNil(t, out)
	assert.Equal(t, domain.OutcomeCommand, out.Type)

	out = rig.engine.Process(ctx, "/release", now.Add(2*time.Second))
	require.NotNil(t, out)
	assert.Equal(t, domain.OutcomeCombo, out.Type)
	assert.Equal(t, "Energy Surge", out.ComboName)
	assert.Equal(t, "energy_burst", out.Effect)
	assert.Equal(t, int64(250), out.AuraGain)
	assert.Equal(t, "You performed an Energy Surge combo! +250 Aura", out.Message)

	stored, err := rig.players.Get(ctx, rig.player.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.StartingAura+250), stored.Aura)
}

func TestProcessPublishesEffectEvents(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	var effects []string
	rig.bus.Subscribe(event.EffectTriggered, func(_ context.Context, evt event.Event) error {
		p, ok := evt.Payload.(event.EffectPayloadV1)
		require.True(t, ok)
		assert.Equal(t, rig.player.ID, p.PlayerID)
		effects = append(effects, p.Effect)
		return nil
	})

	out := rig.engine.Process(ctx, "/daily", now)
	require.NotNil(t, out)
	require.True(t, out.Success)
	assert.Equal(t, []string{"daily_bonus"}, effects)

	// Outcomes without an effect tag stay silent on the bus.
	rig.engine.Process(ctx, "/help", now.Add(time.Second))
	assert.Equal(t, []string{"daily_bonus"}, effects)
}

func TestProcessComboWithActiveBoost(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	rig.player.ActiveItems = append(rig.player.ActiveItems, domain.ActiveItem{
		CatalogID: item.AuraCatalyst,
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, rig.players.Save(ctx, rig.player))

	rig.engine.Process(ctx, "/focus", now)
	rig.engine.Process(ctx, "/channel", now.Add(time.Second))
	out := rig.engine.Process(ctx, "/release", now.Add(2*time.Second))

	require.NotNil(t, out)
	require.Equal(t, domain.OutcomeCombo, out.Type)
	assert.Equal(t, int64(312), out.AuraGain, "floor(250 * 1.25)")

	stored, err := rig.players.Get(ctx, rig.player.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.StartingAura+312), stored.Aura)
}

func TestProcessComboTimeout(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	rig.engine.Process(ctx, "/focus", now)
	rig.engine.Process(ctx, "/channel", now.Add(time.Second))

	out := rig.engine.Process(ctx, "/release", now.Add(15*time.Second))
	require.NotNil(t, out)
	assert.Equal(t, domain.OutcomeCommand, out.Type, "a stale buffer should not pay out")
}

func TestProcessHistoryCap(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	for i := 0; i < HistoryLimit+5; i++ {
		rig.engine.Process(ctx, fmt.Sprintf("/help extra%d", i), now.Add(time.Duration(i)*time.Second))
	}

	history := rig.engine.History()
	require.Len(t, history, HistoryLimit)
	assert.Equal(t, "/help extra5", history[0].Command)
	assert.Equal(t, fmt.Sprintf("/help extra%d", HistoryLimit+4), history[len(history)-1].Command)
}

func TestProcessDaily(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	out := rig.engine.Process(ctx, "/daily", now)
	require.NotNil(t, out)
	assert.True(t, out.Success)
	assert.Equal(t, domain.OutcomeReward, out.Type)
	assert.Equal(t, int64(100), out.AuraGain)

	out = rig.engine.Process(ctx, "/daily", now.Add(time.Second))
	require.NotNil(t, out)
	assert.False(t, out.Success)
}

func TestProcessGrabWithoutLootbox(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })

	out := rig.engine.Process(context.Background(), "/grab", now)
	require.NotNil(t, out)
	assert.False(t, out.Success)
	assert.Equal(t, "There are no lootboxes available right now.", out.Message)
}

func TestGrabKeepsBoxWhenPlayerLoadFails(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	rig.boxes.SpawnNow(ctx)
	require.NotNil(t, rig.boxes.Active())

	ghost := New("p_ghost", rig.players, rig.economy, rig.boxes, rig.board, rig.bus)
	out := ghost.Process(ctx, "/grab", now)
	require.NotNil(t, out)
	assert.False(t, out.Success)

	assert.NotNil(t, rig.boxes.Active(), "a failed player load must not consume the box")

	out = rig.engine.Process(ctx, "/grab", now)
	require.NotNil(t, out)
	assert.True(t, out.Success, "the box is still grabbable by a real player")
}

func TestProcessUsageMessages(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })
	ctx := context.Background()

	tests := []struct {
		input string
		want  string
	}{
		{"/duel", "Please specify a player to duel. Example: /duel AuraKnight"},
		{"/steal", "Please specify a player to steal from. Example: /steal AuraKnight"},
		{"/gift", "Please specify a player and amount. Example: /gift AuraKnight 100"},
		{"/use", "Please specify an item to use. Example: /use aura_shield"},
	}

	for i, tt := range tests {
		out := rig.engine.Process(ctx, tt.input, now.Add(time.Duration(i)*time.Second))
		require.NotNil(t, out, tt.input)
		assert.False(t, out.Success, tt.input)
		assert.Equal(t, tt.want, out.Message, tt.input)
	}
}

func TestProcessProfile(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rig := newTestRig(t, now, func() float64 { return 0 })

	out := rig.engine.Process(context.Background(), "/profile", now)
	require.NotNil(t, out)
	assert.True(t, out.Success)
	assert.Equal(t, domain.OutcomeProfile, out.Type)
	assert.Contains(t, out.Message, "Mira")
	assert.Contains(t, out.Message, "Novice Seeker")
}
