package player

import (
	"context"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/economy"
	"github.com/avragame/aura-engine/internal/logger"
)

const dailyDayLayout = "2006-01-02"

// daysSinceClaim counts whole elapsed days since the last claim.
// Records persisted before the claim instant was stored fall back to
// calendar adjacency.
func daysSinceClaim(p *domain.Player, now time.Time) int {
	if p.LastClaimAt != nil {
		return int(now.Sub(*p.LastClaimAt) / (24 * time.Hour))
	}
	if p.LastDailyClaim == now.AddDate(0, 0, -1).Format(dailyDayLayout) {
		return 1
	}
	return 2
}

// ClaimDaily grants the streak reward for the current calendar day.
// Claims are keyed by day, not by a 24h window: one claim per day, and
// a missed day soft-decays the streak instead of resetting it.
func (s *service) ClaimDaily(ctx context.Context, playerID string, now time.Time) (*domain.Outcome, error) {
	log := logger.FromContext(ctx)

	p, err := s.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}

	today := now.Format(dailyDayLayout)
	if p.LastDailyClaim == today {
		return domain.Failure("You already claimed your daily bonus today. Come back tomorrow!"), nil
	}

	// Continuity is measured by whole days elapsed since the last claim
	// instant, not calendar adjacency: a 26h gap spanning two midnights
	// still continues the streak.
	switch {
	case p.LastDailyClaim == "":
		p.DailyStreak = 1
	case daysSinceClaim(p, now) > 1:
		// Missed one or more days: drop back a step rather than to zero.
		p.DailyStreak = p.DailyStreak - 1
		if p.DailyStreak < 2 {
			p.DailyStreak = 2
		}
	default:
		p.DailyStreak++
	}
	if p.DailyStreak > 7 {
		p.DailyStreak = 1
	}

	base := economy.DailyReward(p.DailyStreak)
	reward := economy.ApplyBoost(base, p, now)

	p.LastDailyClaim = today
	claimedAt := now
	p.LastClaimAt = &claimedAt
	s.GrantAura(ctx, p, reward, "daily")

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	log.Info("Daily reward claimed", "playerID", p.ID, "streak", p.DailyStreak, "reward", reward)
	return &domain.Outcome{
		Success:  true,
		Type:     domain.OutcomeReward,
		Message:  printer.Sprintf("Daily bonus claimed! +%d Aura (Day %d streak)", reward, p.DailyStreak),
		Effect:   "daily_bonus",
		AuraGain: reward,
	}, nil
}
