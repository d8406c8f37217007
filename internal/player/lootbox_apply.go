package player

import (
	"context"
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/economy"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/logger"
)

// ApplyLootbox credits a claimed lootbox's rewards to the account in
// one persisted mutation. Aura rewards pass through the gain boost;
// doubled marks the catalyst network synergy payout.
func (s *service) ApplyLootbox(ctx context.Context, playerID string, box *domain.Lootbox, doubled bool, now time.Time) (*domain.Outcome, error) {
	p, err := s.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}

	var auraTotal int64
	var lines []string
	applied := make([]domain.LootReward, 0, len(box.Rewards))

	for _, r := range box.Rewards {
		if doubled {
			r.Aura *= 2
		}
		switch {
		case r.Aura > 0:
			gained := economy.ApplyBoost(r.Aura, p, now)
			s.GrantAura(ctx, p, gained, "lootbox")
			auraTotal += gained
			applied = append(applied, domain.LootReward{Aura: gained})
			lines = append(lines, printer.Sprintf("+%d Aura", gained))
		case r.ItemID != "":
			s.AddItem(ctx, p, r.ItemID, now)
			applied = append(applied, r)
			name := r.ItemID
			if it, ok := item.ByID(r.ItemID); ok {
				name = it.Name
			}
			lines = append(lines, name)
			if doubled {
				// Item drops are duplicated rather than scaled.
				s.AddItem(ctx, p, r.ItemID, now)
				applied = append(applied, r)
				lines = append(lines, name)
			}
		}
	}

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Lootbox rewards applied",
		"playerID", p.ID, "rarity", box.Rarity, "aura", auraTotal, "rewards", len(applied))
	msg := printer.Sprintf("You grabbed a %s lootbox! Rewards: %s", box.Rarity, strings.Join(lines, ", "))
	if doubled {
		msg += " (Catalyst Network doubled your haul!)"
	}
	return &domain.Outcome{
		Success:  true,
		Type:     domain.OutcomeReward,
		Message:  msg,
		Effect:   "lootbox_open",
		AuraGain: auraTotal,
		Rewards:  applied,
	}, nil
}
