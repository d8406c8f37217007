package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/logger"
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = 5 * time.Minute
)

// printer formats aura amounts with thousands separators for
// user-facing messages.
var printer = message.NewPrinter(language.English)

// Service manages account records: load/register, aura mutation with
// clamping, daily claims, item use, gifts, and notifications.
type Service interface {
	GetOrRegister(ctx context.Context, id, name string, now time.Time) (*domain.Player, error)
	Get(ctx context.Context, id string) (*domain.Player, error)
	FindByName(ctx context.Context, name string) (*domain.Player, error)
	Save(ctx context.Context, p *domain.Player) error
	GrantAura(ctx context.Context, p *domain.Player, amount int64, source string)
	DeductAura(ctx context.Context, p *domain.Player, amount int64, source string) int64
	ClaimDaily(ctx context.Context, playerID string, now time.Time) (*domain.Outcome, error)
	UseItem(ctx context.Context, playerID, ref string, now time.Time) (*domain.Outcome, error)
	GiftAura(ctx context.Context, senderID, targetName string, amount int64, now time.Time) (*domain.Outcome, error)
	ApplyLootbox(ctx context.Context, playerID string, box *domain.Lootbox, doubled bool, now time.Time) (*domain.Outcome, error)
	AddItem(ctx context.Context, p *domain.Player, catalogID string, now time.Time)
	PopNotification(ctx context.Context, playerID string) (*domain.Notification, error)
	Rename(ctx context.Context, playerID, newName string) error
	All(ctx context.Context) ([]*domain.Player, error)
}

type service struct {
	repo     *Repository
	cache    *accountCache
	eventBus event.Bus
	combos   []domain.Combo // for the mystic orb reveal
	rand     func() float64
}

// NewService creates a player service. combos is the registered combo
// list used by the reveal-combo consumable; rnd may be nil to use a
// time-seeded source.
func NewService(repo *Repository, eventBus event.Bus, combos []domain.Combo, rnd func() float64) Service {
	if rnd == nil {
		rnd = defaultRand
	}
	return &service{
		repo:     repo,
		cache:    newAccountCache(defaultCacheSize, defaultCacheTTL),
		eventBus: eventBus,
		combos:   combos,
		rand:     rnd,
	}
}

// GetOrRegister loads an account or creates a new one with the
// starting aura grant.
func (s *service) GetOrRegister(ctx context.Context, id, name string, now time.Time) (*domain.Player, error) {
	log := logger.FromContext(ctx)

	if id == "" {
		id = "p_" + uuid.NewString()
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	if strings.TrimSpace(name) == "" {
		name = "AuraSeeker"
	}
	p = domain.NewPlayer(id, name, now)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Info("Registered new player", "playerID", id, "name", name)
	return p, nil
}

// Get loads an account by id, consulting the cache first. Returns
// (nil, nil) when absent.
func (s *service) Get(ctx context.Context, id string) (*domain.Player, error) {
	if p, ok := s.cache.Get(id); ok {
		return p, nil
	}
	p, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.cache.Set(p)
	}
	return p, nil
}

// FindByName resolves a display name to an account, case-insensitive.
func (s *service) FindByName(ctx context.Context, name string) (*domain.Player, error) {
	return s.repo.FindByName(ctx, name)
}

// Save persists the record and refreshes the cache.
func (s *service) Save(ctx context.Context, p *domain.Player) error {
	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}
	s.cache.Set(p)
	return nil
}

// All loads every stored account (leaderboard rebuilds, mass effects).
func (s *service) All(ctx context.Context) ([]*domain.Player, error) {
	return s.repo.All(ctx)
}

// GrantAura credits aura and publishes gain and level-up events.
// The caller is responsible for persisting.
func (s *service) GrantAura(ctx context.Context, p *domain.Player, amount int64, source string) {
	if amount <= 0 {
		return
	}
	oldLevel := p.Level()
	p.AddAura(amount)
	s.publish(ctx, event.NewAuraChangeEvent(p.ID, amount, source))
	if newLevel := p.Level(); newLevel > oldLevel {
		s.publish(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.LevelUp,
			Payload: event.LevelUpPayloadV1{PlayerID: p.ID, OldLevel: oldLevel, NewLevel: newLevel},
		})
	}
}

// DeductAura debits up to amount, clamping at zero, and publishes a
// loss event. Returns the amount actually removed.
func (s *service) DeductAura(ctx context.Context, p *domain.Player, amount int64, source string) int64 {
	removed := p.SpendAura(amount)
	if removed > 0 {
		s.publish(ctx, event.NewAuraChangeEvent(p.ID, -removed, source))
	}
	return removed
}

// AddItem appends a catalog item instance to the inventory.
func (s *service) AddItem(_ context.Context, p *domain.Player, catalogID string, now time.Time) {
	p.Inventory = append(p.Inventory, domain.ItemInstance{
		CatalogID:     catalogID,
		AcquiredAt:    now,
		RemainingUses: 1,
	})
}

// Rename updates the display name (must be non-empty).
func (s *service) Rename(ctx context.Context, playerID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: name must be non-empty", domain.ErrInvalidInput)
	}
	p, err := s.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrPlayerNotFound
	}
	p.Name = newName
	return s.Save(ctx, p)
}

// PopNotification dequeues the oldest pending notification and
// persists the shortened queue. Returns (nil, nil) when empty.
func (s *service) PopNotification(ctx context.Context, playerID string) (*domain.Notification, error) {
	p, err := s.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}
	n, ok := p.PopNotification()
	if !ok {
		return nil, nil
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *service) publish(ctx context.Context, e event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("Event publish failed", "type", e.Type, "error", err)
	}
}

// notify queues a notification on the player and announces it on the
// bus so connected clients see it without polling.
func (s *service) notify(ctx context.Context, p *domain.Player, n domain.Notification) {
	p.PushNotification(n)
	s.publish(ctx, event.NewNotificationEvent(p.ID, n.Type, n.Message))
}
