package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/logger"
)

// GiftAura transfers aura from the sender to a named recipient. The
// amount must be positive and fully covered by the sender's balance;
// the recipient is credited exactly what the sender loses and gets a
// queued notification.
func (s *service) GiftAura(ctx context.Context, senderID, targetName string, amount int64, now time.Time) (*domain.Outcome, error) {
	sender, err := s.Get(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, domain.ErrPlayerNotFound
	}

	if amount <= 0 {
		return domain.Failure("Please specify a valid amount of Aura to gift."), nil
	}
	if sender.Aura < amount {
		return domain.Failure(printer.Sprintf("You don't have %d Aura to gift.", amount)), nil
	}

	target, err := s.FindByName(ctx, targetName)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return domain.Failure(fmt.Sprintf("Player %q not found.", targetName)), nil
	}
	if target.ID == sender.ID || strings.EqualFold(target.Name, sender.Name) {
		return domain.Failure("You cannot gift Aura to yourself."), nil
	}

	s.DeductAura(ctx, sender, amount, "gift_sent")
	s.GrantAura(ctx, target, amount, "gift_received")
	s.notify(ctx, target, domain.Notification{
		Type:      "gift",
		Message:   printer.Sprintf("%s has gifted you %d Aura!", sender.Name, amount),
		From:      sender.Name,
		Amount:    amount,
		CreatedAt: now,
	})

	if err := s.Save(ctx, sender); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, target); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Aura gifted",
		"senderID", sender.ID, "targetID", target.ID, "amount", amount)
	return &domain.Outcome{
		Success:  true,
		Type:     domain.OutcomeGift,
		Message:  printer.Sprintf("You gifted %d Aura to %s.", amount, target.Name),
		Effect:   "gift_sent",
		AuraLoss: amount,
	}, nil
}
