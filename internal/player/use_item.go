package player

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/logger"
)

// massDrainPercent is the void siphon drain taken from each lower-level
// player.
const massDrainPercent = 0.05

// UseItem consumes or activates an owned item by case-insensitive id or
// display name. Consumables apply their effect once and are removed;
// duration items move to the active list, stacking remaining time when
// re-activated.
func (s *service) UseItem(ctx context.Context, playerID, ref string, now time.Time) (*domain.Outcome, error) {
	p, err := s.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}
	p.EvictExpiredItems(now)

	it, idx := findOwned(p, ref)
	if idx == -1 {
		return domain.Failure(fmt.Sprintf("You don't have an item called %q in your inventory.", ref)), nil
	}

	var out *domain.Outcome
	switch {
	case it.Consumable():
		out, err = s.applyConsumable(ctx, p, it, now)
	case it.Effect == domain.EffectMassDrain:
		out, err = s.applyMassDrain(ctx, p, it, now)
	default:
		out = activateItem(p, it, now)
	}
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return out, nil
	}

	// Remove the spent inventory instance and persist.
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.ItemUsed,
		Payload: event.EffectPayloadV1{PlayerID: p.ID, Effect: string(it.Effect)},
	})
	logger.FromContext(ctx).Info("Item used", "playerID", p.ID, "item", it.ID)
	return out, nil
}

// findOwned resolves ref against the catalog and locates the matching
// inventory instance. Returns index -1 when not owned.
func findOwned(p *domain.Player, ref string) (domain.Item, int) {
	it, ok := item.Resolve(ref)
	if !ok {
		return domain.Item{}, -1
	}
	for i, inst := range p.Inventory {
		if inst.CatalogID == it.ID {
			return it, i
		}
	}
	return domain.Item{}, -1
}

func (s *service) applyConsumable(ctx context.Context, p *domain.Player, it domain.Item, now time.Time) (*domain.Outcome, error) {
	msg := fmt.Sprintf("Used %s.", it.Name)

	switch it.ID {
	case item.AuraShield:
		// Armed until triggered by a theft attempt, or until expiry.
		p.ActiveItems = append(p.ActiveItems, domain.ActiveItem{
			CatalogID: it.ID,
			Effect:    domain.EffectBlockTheft,
			ExpiresAt: now.Add(it.Duration),
		})
		msg = it.UsageText
	case item.MysticOrb:
		if len(s.combos) > 0 {
			c := s.combos[int(s.rand()*float64(len(s.combos)))%len(s.combos)]
			msg = fmt.Sprintf("The Mystic Orb reveals a powerful command sequence: %s",
				strings.Join(c.Sequence, " -> "))
		}
	}

	return &domain.Outcome{
		Success: true,
		Type:    domain.OutcomeItemUse,
		Message: msg,
		Effect:  string(it.Effect),
	}, nil
}

// applyMassDrain pulls a share of aura from every player below the
// user's level (the void siphon).
func (s *service) applyMassDrain(ctx context.Context, p *domain.Player, it domain.Item, now time.Time) (*domain.Outcome, error) {
	others, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	var victims int
	level := p.Level()
	for _, other := range others {
		if other.ID == p.ID || other.Level() >= level {
			continue
		}
		drained := other.SpendAura(int64(float64(other.Aura) * massDrainPercent))
		if drained == 0 {
			continue
		}
		total += drained
		victims++
		s.notify(ctx, other, domain.Notification{
			Type:      "mass_drain",
			Message:   printer.Sprintf("%s drained %d Aura from you with a Void Siphon!", p.Name, drained),
			From:      p.Name,
			Amount:    drained,
			CreatedAt: now,
		})
		if err := s.Save(ctx, other); err != nil {
			return nil, err
		}
	}

	if total > 0 {
		s.GrantAura(ctx, p, total, "void_siphon")
	}
	return &domain.Outcome{
		Success:  true,
		Type:     domain.OutcomeItemUse,
		Message:  printer.Sprintf("The Void Siphon drains %d Aura from %d players!", total, victims),
		Effect:   string(it.Effect),
		AuraGain: total,
	}, nil
}

// activateItem adds a duration effect or extends one already running.
func activateItem(p *domain.Player, it domain.Item, now time.Time) *domain.Outcome {
	duration := item.Duration(it.ID)

	if i := p.ActiveItemIndex(it.ID, now); i != -1 {
		remaining := p.ActiveItems[i].ExpiresAt.Sub(now)
		p.ActiveItems[i].ExpiresAt = now.Add(remaining + duration)
		hours := int(math.Ceil((remaining + duration).Hours()))
		return &domain.Outcome{
			Success: true,
			Type:    domain.OutcomeItemUse,
			Message: fmt.Sprintf("Extended %s duration. Now active for %d hours.", it.Name, hours),
			Effect:  string(it.Effect),
		}
	}

	p.ActiveItems = append(p.ActiveItems, domain.ActiveItem{
		CatalogID: it.ID,
		Effect:    it.Effect,
		ExpiresAt: now.Add(duration),
	})
	hours := int(math.Ceil(duration.Hours()))
	return &domain.Outcome{
		Success: true,
		Type:    domain.OutcomeItemUse,
		Message: fmt.Sprintf("Activated %s. Active for %d hours.", it.Name, hours),
		Effect:  string(it.Effect),
	}
}
