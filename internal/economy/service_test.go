package economy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/scheduler"
)

// fakeAccounts is a map-backed Accounts port for resolver tests.
type fakeAccounts struct {
	players map[string]*domain.Player
}

func newFakeAccounts(players ...*domain.Player) *fakeAccounts {
	f := &fakeAccounts{players: make(map[string]*domain.Player)}
	for _, p := range players {
		f.players[p.ID] = p
	}
	return f
}

func (f *fakeAccounts) Get(_ context.Context, id string) (*domain.Player, error) {
	return f.players[id], nil
}

func (f *fakeAccounts) FindByName(_ context.Context, name string) (*domain.Player, error) {
	for _, p := range f.players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) Save(_ context.Context, p *domain.Player) error {
	f.players[p.ID] = p
	return nil
}

func (f *fakeAccounts) GrantAura(_ context.Context, p *domain.Player, amount int64, _ string) {
	p.AddAura(amount)
}

func (f *fakeAccounts) DeductAura(_ context.Context, p *domain.Player, amount int64, _ string) int64 {
	return p.SpendAura(amount)
}

// fakeDeferrer records scheduled tasks without running them.
type fakeDeferrer struct {
	tasks []scheduler.Task
}

func (f *fakeDeferrer) Schedule(_ time.Duration, task scheduler.Task) scheduler.Handle {
	f.tasks = append(f.tasks, task)
	return scheduler.Handle{}
}

// seqRand replays a fixed sequence of draws, then repeats the last one.
func seqRand(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

func TestAttemptTheft(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("target not found", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		svc := NewService(newFakeAccounts(thief), nil, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Nobody", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, `Player "Nobody" not found.`, out.Message)
	})

	t.Run("cannot steal from yourself", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		svc := NewService(newFakeAccounts(thief), nil, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Thief", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "You cannot steal from yourself.", out.Message)
	})

	t.Run("cooldown rejects the attempt", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		target := playerWithAura("Target", 1000)
		thief.SetCooldown(domain.CooldownTheft, now, 30*time.Minute)
		svc := NewService(newFakeAccounts(thief, target), nil, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "You must wait 30 more minutes before attempting another theft.", out.Message)
	})

	t.Run("success transfers ten percent and starts the cooldown", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		target := playerWithAura("Target", 3000)
		svc := NewService(newFakeAccounts(thief, target), nil, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		assert.True(t, out.Success)
		assert.Equal(t, "theft_success", out.Effect)
		assert.Equal(t, int64(300), out.AuraGain)
		assert.Equal(t, int64(1300), thief.Aura)
		assert.Equal(t, int64(2700), target.Aura)
		assert.Equal(t, 1, thief.TheftsSuccessful)

		onCD, _ := thief.OnCooldown(domain.CooldownTheft, now)
		assert.True(t, onCD)

		require.Len(t, target.Notifications, 1)
		assert.Equal(t, "Thief stole 300 Aura from you!", target.Notifications[0].Message)
	})

	t.Run("failure costs the five percent penalty", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		target := playerWithAura("Target", 3000)
		svc := NewService(newFakeAccounts(thief, target), nil, nil, seqRand(0.99))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "theft_failed", out.Effect)
		assert.Equal(t, int64(50), out.AuraLoss)
		assert.Equal(t, int64(950), thief.Aura)
		assert.Equal(t, int64(3000), target.Aura)
		assert.Equal(t, 1, thief.TheftsFailed)

		onCD, _ := thief.OnCooldown(domain.CooldownTheft, now)
		assert.True(t, onCD)
	})

	t.Run("stealth cloak makes the target untargetable without a cooldown", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		target := playerWithAura("Target", 3000)
		activate(target, item.StealthCloak, now)
		svc := NewService(newFakeAccounts(thief, target), nil, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "Target is currently using a Stealth Cloak and cannot be targeted.", out.Message)
		assert.Equal(t, int64(1000), thief.Aura)

		onCD, _ := thief.OnCooldown(domain.CooldownTheft, now)
		assert.False(t, onCD, "an untargetable target should not cost the thief their cooldown")
	})

	t.Run("mirror ward reflects the penalty to the target", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		target := playerWithAura("Target", 3000)
		activate(target, item.MirrorWard, now)
		svc := NewService(newFakeAccounts(thief, target), nil, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "theft_reflected", out.Effect)
		assert.Equal(t, int64(50), out.AuraLoss)
		assert.Equal(t, int64(950), thief.Aura)
		assert.Equal(t, int64(3050), target.Aura)

		onCD, _ := thief.OnCooldown(domain.CooldownTheft, now)
		assert.True(t, onCD)
	})

	t.Run("aura shield blocks once and is consumed", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		target := playerWithAura("Target", 3000)
		activate(target, item.AuraShield, now)
		svc := NewService(newFakeAccounts(thief, target), nil, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "theft_blocked", out.Effect)
		assert.Equal(t, int64(1000), thief.Aura)
		assert.Equal(t, int64(3000), target.Aura)
		assert.False(t, target.HasActiveItem(item.AuraShield, now), "the shield should be spent")
	})

	t.Run("shadow mask hides the thief's name", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		activate(thief, item.ShadowMask, now)
		target := playerWithAura("Target", 3000)
		svc := NewService(newFakeAccounts(thief, target), nil, nil, seqRand(0.0))

		_, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		require.Len(t, target.Notifications, 1)
		assert.Equal(t, "An unknown assailant stole 300 Aura from you!", target.Notifications[0].Message)
	})

	t.Run("temporal anchor schedules a restoration", func(t *testing.T) {
		thief := playerWithAura("Thief", 1000)
		target := playerWithAura("Target", 3000)
		activate(target, item.TemporalAnchor, now)
		def := &fakeDeferrer{}
		svc := NewService(newFakeAccounts(thief, target), def, nil, seqRand(0.0))

		out, err := svc.AttemptTheft(ctx, thief.ID, "Target", now)
		require.NoError(t, err)
		assert.True(t, out.Success)

		require.Len(t, def.tasks, 1)
		assert.Equal(t, scheduler.KindRestoreAura, def.tasks[0].Kind)
		assert.Equal(t, target.ID, def.tasks[0].AccountID)
		assert.Equal(t, "300", def.tasks[0].Payload["amount"])
	})
}

func TestResolveDuel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("cannot duel yourself", func(t *testing.T) {
		p := playerWithAura("Solo", 1000)
		svc := NewService(newFakeAccounts(p), nil, nil, seqRand(0.5))

		out, err := svc.ResolveDuel(ctx, p.ID, "Solo", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "You cannot duel yourself.", out.Message)
	})

	t.Run("win moves the stake to the initiator", func(t *testing.T) {
		initiator := playerWithAura("Init", 40000) // level 5
		opponent := playerWithAura("Opp", 100000)  // level 7, win chance 0.30
		svc := NewService(newFakeAccounts(initiator, opponent), nil, nil, seqRand(0.2))

		out, err := svc.ResolveDuel(ctx, initiator.ID, "Opp", now)
		require.NoError(t, err)
		assert.True(t, out.Success)
		assert.Equal(t, "duel_win", out.Effect)
		assert.Equal(t, int64(2000), out.AuraGain)
		assert.Equal(t, int64(42000), initiator.Aura)
		assert.Equal(t, int64(98000), opponent.Aura)
		assert.Equal(t, 1, initiator.DuelsWon)
		assert.Equal(t, 1, opponent.DuelsLost)

		onCD, _ := initiator.OnCooldown(domain.CooldownDuel, now)
		assert.True(t, onCD)
		onCD, _ = opponent.OnCooldown(domain.CooldownDuel, now)
		assert.False(t, onCD, "only the initiator takes the duel cooldown")
	})

	t.Run("loss moves the stake to the opponent", func(t *testing.T) {
		initiator := playerWithAura("Init", 40000)
		opponent := playerWithAura("Opp", 100000)
		svc := NewService(newFakeAccounts(initiator, opponent), nil, nil, seqRand(0.5))

		out, err := svc.ResolveDuel(ctx, initiator.ID, "Opp", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "duel_lose", out.Effect)
		assert.Equal(t, int64(2000), out.AuraLoss)
		assert.Equal(t, int64(38000), initiator.Aura)
		assert.Equal(t, int64(102000), opponent.Aura)
		assert.Equal(t, 1, initiator.DuelsLost)
		assert.Equal(t, 1, opponent.DuelsWon)

		require.Len(t, opponent.Notifications, 1)
		assert.Equal(t, "You defeated Init in a duel! You gained 2,000 Aura.", opponent.Notifications[0].Message)
	})

	t.Run("level advantage shifts the win threshold", func(t *testing.T) {
		initiator := playerWithAura("Init", 10000) // level 4
		opponent := playerWithAura("Opp", 900)     // level 1, win chance 0.80
		svc := NewService(newFakeAccounts(initiator, opponent), nil, nil, seqRand(0.7))

		out, err := svc.ResolveDuel(ctx, initiator.ID, "Opp", now)
		require.NoError(t, err)
		assert.True(t, out.Success, "a 0.7 draw loses at even odds but wins with a +0.30 advantage")
	})

	t.Run("five-level edge wins on any draw", func(t *testing.T) {
		initiator := playerWithAura("Init", 100000) // level 7
		opponent := playerWithAura("Opp", 2000)     // level 2, win chance clamps to 1.0
		svc := NewService(newFakeAccounts(initiator, opponent), nil, nil, seqRand(0.999))

		out, err := svc.ResolveDuel(ctx, initiator.ID, "Opp", now)
		require.NoError(t, err)
		assert.True(t, out.Success)
	})

	t.Run("cooldown rejects a repeat duel", func(t *testing.T) {
		initiator := playerWithAura("Init", 40000)
		opponent := playerWithAura("Opp", 100000)
		initiator.SetCooldown(domain.CooldownDuel, now, 5*time.Minute)
		svc := NewService(newFakeAccounts(initiator, opponent), nil, nil, seqRand(0.5))

		out, err := svc.ResolveDuel(ctx, initiator.ID, "Opp", now)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "You must wait 5 more minutes before dueling again.", out.Message)
	})
}
