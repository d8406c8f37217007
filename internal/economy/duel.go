package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/logger"
)

// ResolveDuel runs an instant duel between the initiator and a named
// opponent. One uniform draw decides it against even odds shifted by
// the level advantage. The stake moves from loser to winner, and only
// the initiator takes the duel cooldown.
func (s *service) ResolveDuel(ctx context.Context, initiatorID, targetName string, now time.Time) (*domain.Outcome, error) {
	log := logger.FromContext(ctx)

	initiator, err := s.accounts.Get(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	if initiator == nil {
		return nil, domain.ErrPlayerNotFound
	}

	opponent, err := s.accounts.FindByName(ctx, targetName)
	if err != nil {
		return nil, err
	}
	if opponent == nil {
		return domain.Failure(fmt.Sprintf("Player %q not found.", targetName)), nil
	}
	if opponent.ID == initiator.ID {
		return domain.Failure("You cannot duel yourself."), nil
	}

	if onCD, remaining := initiator.OnCooldown(domain.CooldownDuel, now); onCD {
		return domain.Failure(fmt.Sprintf(
			"You must wait %d more minutes before dueling again.", cooldownMinutes(remaining))), nil
	}

	initiator.EvictExpiredItems(now)
	opponent.EvictExpiredItems(now)

	stake := DuelStake(initiator, opponent)
	won := s.rand() < DuelWinChance(initiator.Level(), opponent.Level())

	initiator.SetCooldown(domain.CooldownDuel, now, CooldownDuration(DuelCooldown, initiator, now))

	var out *domain.Outcome
	var winnerID string
	if won {
		s.accounts.DeductAura(ctx, opponent, stake, "duel_lost")
		s.accounts.GrantAura(ctx, initiator, stake, "duel_won")
		initiator.DuelsWon++
		opponent.DuelsLost++
		winnerID = initiator.ID
		s.notify(ctx, opponent, domain.Notification{
			Type:      "duel",
			Message:   printer.Sprintf("%s defeated you in a duel! You lost %d Aura.", initiator.Name, stake),
			From:      initiator.Name,
			Amount:    stake,
			CreatedAt: now,
		})
		out = &domain.Outcome{
			Success:  true,
			Type:     domain.OutcomeDuel,
			Message:  printer.Sprintf("You won the duel against %s! You gained %d Aura.", opponent.Name, stake),
			Effect:   "duel_win",
			AuraGain: stake,
		}
	} else {
		s.accounts.DeductAura(ctx, initiator, stake, "duel_lost")
		s.accounts.GrantAura(ctx, opponent, stake, "duel_won")
		initiator.DuelsLost++
		opponent.DuelsWon++
		winnerID = opponent.ID
		s.notify(ctx, opponent, domain.Notification{
			Type:      "duel",
			Message:   printer.Sprintf("You defeated %s in a duel! You gained %d Aura.", initiator.Name, stake),
			From:      initiator.Name,
			Amount:    stake,
			CreatedAt: now,
		})
		out = &domain.Outcome{
			Success:  false,
			Type:     domain.OutcomeDuel,
			Message:  printer.Sprintf("You lost the duel against %s! You lost %d Aura.", opponent.Name, stake),
			Effect:   "duel_lose",
			AuraLoss: stake,
		}
	}

	if err := s.persistPair(ctx, initiator, opponent); err != nil {
		return nil, err
	}

	s.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.DuelCompleted,
		Payload: event.DuelPayloadV1{
			InitiatorID: initiator.ID,
			OpponentID:  opponent.ID,
			WinnerID:    winnerID,
			Stake:       stake,
		},
	})
	log.Info("Duel resolved",
		"initiatorID", initiator.ID, "opponentID", opponent.ID, "winnerID", winnerID, "stake", stake)
	return out, nil
}
