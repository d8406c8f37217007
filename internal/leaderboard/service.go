package leaderboard

import (
	"context"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/item"
	"github.com/avragame/aura-engine/internal/logger"
)

// overfetchFactor covers rows lost to stealth filtering when building
// a top-N view.
const overfetchFactor = 2

// Accounts is the account-lookup port for resolving names and levels.
type Accounts interface {
	Get(ctx context.Context, id string) (*domain.Player, error)
	All(ctx context.Context) ([]*domain.Player, error)
}

// Service turns raw provider scores into presentable leaderboard rows
// and keeps the provider in sync with aura changes. Players under an
// active stealth cloak are hidden from the board.
type Service struct {
	provider Provider
	accounts Accounts
}

// NewService creates a leaderboard service over a ranking provider.
func NewService(provider Provider, accounts Accounts) *Service {
	return &Service{provider: provider, accounts: accounts}
}

// Register subscribes the score-sync handler to aura change events.
func (s *Service) Register(bus event.Bus) {
	bus.Subscribe(event.AuraGained, s.handleAuraChange)
	bus.Subscribe(event.AuraLost, s.handleAuraChange)
}

// handleAuraChange re-reads the account and writes its absolute score,
// so replayed or re-ordered events cannot drift the board.
func (s *Service) handleAuraChange(ctx context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.AuraChangePayloadV1)
	if !ok {
		return nil
	}
	p, err := s.accounts.Get(ctx, payload.PlayerID)
	if err != nil || p == nil {
		return err
	}
	return s.provider.SetScore(ctx, p.ID, p.Aura)
}

// Rebuild seeds the provider from every stored account (startup and
// recovery).
func (s *Service) Rebuild(ctx context.Context) error {
	players, err := s.accounts.All(ctx)
	if err != nil {
		return err
	}
	for _, p := range players {
		if err := s.provider.SetScore(ctx, p.ID, p.Aura); err != nil {
			return err
		}
	}
	logger.FromContext(ctx).Info("Leaderboard rebuilt", "players", len(players))
	return nil
}

// Top returns up to limit visible rows in descending aura order.
func (s *Service) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	scores, err := s.provider.TopN(ctx, limit*overfetchFactor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]domain.LeaderboardEntry, 0, limit)
	for _, sc := range scores {
		if len(entries) == limit {
			break
		}
		p, err := s.accounts.Get(ctx, sc.PlayerID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.HasActiveItem(item.StealthCloak, now) {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			ID:    p.ID,
			Name:  p.Name,
			Aura:  p.Aura,
			Level: p.Level(),
		})
	}
	return entries, nil
}

// Rank returns a player's 1-indexed position on the raw board.
func (s *Service) Rank(ctx context.Context, playerID string) (int, bool, error) {
	return s.provider.Rank(ctx, playerID)
}
