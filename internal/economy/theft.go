package economy

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/logger"
	"github.com/avragame/aura-engine/internal/scheduler"
)

// guardianBlockChance is the auto-block probability of the guardian
// protocol synergy.
const guardianBlockChance = 0.5

// AttemptTheft resolves a theft attempt against a named target.
// Precondition order: target resolution, self-check, cooldown, then
// the target's defenses. An untargetable target (stealth cloak or
// crown) costs the thief nothing, not even the cooldown; every other
// resolved attempt starts the full cooldown regardless of outcome.
func (s *service) AttemptTheft(ctx context.Context, thiefID, targetName string, now time.Time) (*domain.Outcome, error) {
	log := logger.FromContext(ctx)

	thief, err := s.accounts.Get(ctx, thiefID)
	if err != nil {
		return nil, err
	}
	if thief == nil {
		return nil, domain.ErrPlayerNotFound
	}

	target, err := s.accounts.FindByName(ctx, targetName)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return domain.Failure(fmt.Sprintf("Player %q not found.", targetName)), nil
	}
	if target.ID == thief.ID {
		return domain.Failure("You cannot steal from yourself."), nil
	}

	if onCD, remaining := thief.OnCooldown(domain.CooldownTheft, now); onCD {
		return domain.Failure(fmt.Sprintf(
			"You must wait %d more minutes before attempting another theft.",
			cooldownMinutes(remaining))), nil
	}

	thief.EvictExpiredItems(now)
	target.EvictExpiredItems(now)

	// Untargetable defenses fail the attempt without starting a
	// cooldown; the thief never engaged.
	if target.HasActiveItem(item.StealthCloak, now) {
		return domain.Failure(fmt.Sprintf(
			"%s is currently using a Stealth Cloak and cannot be targeted.", target.Name)), nil
	}
	if target.HasActiveItem(item.AuraCrown, now) {
		return domain.Failure(fmt.Sprintf(
			"%s radiates with the Crown of Luminescence and cannot be touched.", target.Name)), nil
	}

	cooldown := CooldownDuration(TheftCooldown, thief, now)

	if target.HasActiveItem(item.MirrorWard, now) {
		return s.resolveReflected(ctx, thief, target, cooldown, now)
	}
	if target.HasActiveItem(item.AuraShield, now) {
		return s.resolveBlocked(ctx, thief, target, cooldown, now, fmt.Sprintf(
			"%s's Aura Shield blocked your theft attempt!", target.Name))
	}
	if item.HasSynergy(target, domain.SynergyGuardianProtocol, now) && s.rand() < guardianBlockChance {
		return s.resolveBlocked(ctx, thief, target, cooldown, now, fmt.Sprintf(
			"%s's Guardian Protocol automatically blocked your theft attempt!", target.Name))
	}

	chance := TheftChance(thief, target, now)
	success := s.rand() < chance
	thief.SetCooldown(domain.CooldownTheft, now, cooldown)

	var out *domain.Outcome
	if success {
		out, err = s.resolveSuccess(ctx, thief, target, now)
	} else {
		out, err = s.resolveFailed(ctx, thief, target)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Theft attempt resolved",
		"thiefID", thief.ID, "targetID", target.ID, "chance", chance, "success", success)
	return out, nil
}

// resolveReflected handles a mirror ward: the thief pays the failure
// penalty to the target instead of rolling at all.
func (s *service) resolveReflected(ctx context.Context, thief, target *domain.Player, cooldown time.Duration, now time.Time) (*domain.Outcome, error) {
	lost := s.accounts.DeductAura(ctx, thief, TheftPenalty(thief), "theft_reflected")
	s.accounts.GrantAura(ctx, target, lost, "theft_reflected")
	thief.SetCooldown(domain.CooldownTheft, now, cooldown)

	if err := s.persistPair(ctx, thief, target); err != nil {
		return nil, err
	}
	s.publishTheft(ctx, thief.ID, target.ID, false, lost)
	return &domain.Outcome{
		Success: false,
		Type:    domain.OutcomeTheft,
		Message: printer.Sprintf(
			"%s's Mirror Ward reflected your theft attempt! You lost %d Aura to them.", target.Name, lost),
		Effect:   "theft_reflected",
		AuraLoss: lost,
	}, nil
}

// resolveBlocked handles an outright block: a consumable shield is
// spent, the thief eats the cooldown but loses no aura.
func (s *service) resolveBlocked(ctx context.Context, thief, target *domain.Player, cooldown time.Duration, now time.Time, msg string) (*domain.Outcome, error) {
	target.ConsumeActiveItem(item.AuraShield, now)
	thief.SetCooldown(domain.CooldownTheft, now, cooldown)

	if err := s.persistPair(ctx, thief, target); err != nil {
		return nil, err
	}
	s.publishTheft(ctx, thief.ID, target.ID, false, 0)
	return &domain.Outcome{
		Success: false,
		Type:    domain.OutcomeTheft,
		Message: msg,
		Effect:  "theft_blocked",
	}, nil
}

func (s *service) resolveSuccess(ctx context.Context, thief, target *domain.Player, now time.Time) (*domain.Outcome, error) {
	amount := TheftAmount(thief, target, now)
	s.accounts.DeductAura(ctx, target, amount, "theft_victim")
	s.accounts.GrantAura(ctx, thief, amount, "theft")
	thief.TheftsSuccessful++

	if target.HasActiveItem(item.TemporalAnchor, now) && s.deferrer != nil {
		s.deferrer.Schedule(TheftRestoreDelay, scheduler.Task{
			AccountID: target.ID,
			Kind:      scheduler.KindRestoreAura,
			Payload:   map[string]string{"amount": strconv.FormatInt(amount, 10)},
		})
	}

	thiefName := thief.Name
	if thief.HasActiveItem(item.ShadowMask, now) {
		thiefName = "An unknown assailant"
	}
	s.notify(ctx, target, domain.Notification{
		Type:      "theft",
		Message:   printer.Sprintf("%s stole %d Aura from you!", thiefName, amount),
		Amount:    amount,
		CreatedAt: now,
	})

	if err := s.persistPair(ctx, thief, target); err != nil {
		return nil, err
	}
	s.publishTheft(ctx, thief.ID, target.ID, true, amount)
	return &domain.Outcome{
		Success:  true,
		Type:     domain.OutcomeTheft,
		Message:  printer.Sprintf("You successfully stole %d Aura from %s!", amount, target.Name),
		Effect:   "theft_success",
		AuraGain: amount,
	}, nil
}

func (s *service) resolveFailed(ctx context.Context, thief, target *domain.Player) (*domain.Outcome, error) {
	penalty := s.accounts.DeductAura(ctx, thief, TheftPenalty(thief), "theft_penalty")
	thief.TheftsFailed++

	if err := s.accounts.Save(ctx, thief); err != nil {
		return nil, err
	}
	s.publishTheft(ctx, thief.ID, target.ID, false, penalty)
	return &domain.Outcome{
		Success: false,
		Type:    domain.OutcomeTheft,
		Message: printer.Sprintf(
			"Your theft attempt on %s failed! You lost %d Aura in the process.", target.Name, penalty),
		Effect:   "theft_failed",
		AuraLoss: penalty,
	}, nil
}

func (s *service) persistPair(ctx context.Context, a, b *domain.Player) error {
	if err := s.accounts.Save(ctx, a); err != nil {
		return err
	}
	return s.accounts.Save(ctx, b)
}

func (s *service) publishTheft(ctx context.Context, thiefID, targetID string, success bool, amount int64) {
	s.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.TheftAttempted,
		Payload: event.TheftPayloadV1{
			ThiefID:  thiefID,
			TargetID: targetID,
			Success:  success,
			Amount:   amount,
		},
	})
}
