package economy

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/logger"
	"github.com/avragame/aura-engine/internal/scheduler"
)

var printer = message.NewPrinter(language.English)

// Accounts is the account-mutation port the resolvers depend on.
type Accounts interface {
	Get(ctx context.Context, id string) (*domain.Player, error)
	FindByName(ctx context.Context, name string) (*domain.Player, error)
	Save(ctx context.Context, p *domain.Player) error
	GrantAura(ctx context.Context, p *domain.Player, amount int64, source string)
	DeductAura(ctx context.Context, p *domain.Player, amount int64, source string) int64
}

// Deferrer schedules delayed effects (temporal anchor restoration).
type Deferrer interface {
	Schedule(delay time.Duration, task scheduler.Task) scheduler.Handle
}

// Service resolves the contested-transfer mechanics: theft attempts
// and duels. Precondition failures come back as unsuccessful Outcomes;
// an error means an infrastructure fault.
type Service interface {
	AttemptTheft(ctx context.Context, thiefID, targetName string, now time.Time) (*domain.Outcome, error)
	ResolveDuel(ctx context.Context, initiatorID, targetName string, now time.Time) (*domain.Outcome, error)
}

type service struct {
	accounts Accounts
	deferrer Deferrer
	eventBus event.Bus
	rand     func() float64
}

// NewService creates an economy resolver. rnd may be nil to use the
// default source; tests inject a deterministic one. The temporal
// anchor restore handler is registered on sched when it is a concrete
// scheduler.
func NewService(accounts Accounts, deferrer Deferrer, eventBus event.Bus, rnd func() float64) Service {
	if rnd == nil {
		rnd = defaultRand
	}
	s := &service{
		accounts: accounts,
		deferrer: deferrer,
		eventBus: eventBus,
		rand:     rnd,
	}
	if sched, ok := deferrer.(*scheduler.Scheduler); ok {
		sched.Register(scheduler.KindRestoreAura, s.restoreStolenAura)
	}
	return s
}

// restoreStolenAura is the temporal anchor payoff: it re-fetches the
// victim and credits back the recorded stolen amount. State is read at
// fire time, not capture time, so intervening mutations are kept.
func (s *service) restoreStolenAura(ctx context.Context, task scheduler.Task) {
	log := logger.FromContext(ctx)

	amount, err := strconv.ParseInt(task.Payload["amount"], 10, 64)
	if err != nil || amount <= 0 {
		log.Warn("Invalid restore payload", "taskID", task.ID, "payload", task.Payload)
		return
	}

	victim, err := s.accounts.Get(ctx, task.AccountID)
	if err != nil || victim == nil {
		log.Warn("Restore target unavailable", "accountID", task.AccountID, "error", err)
		return
	}

	s.accounts.GrantAura(ctx, victim, amount, "temporal_anchor")
	s.notify(ctx, victim, domain.Notification{
		Type:      "system",
		Message:   printer.Sprintf("Your Temporal Anchor has restored %d stolen Aura.", amount),
		Amount:    amount,
		CreatedAt: task.DueAt,
	})
	if err := s.accounts.Save(ctx, victim); err != nil {
		log.Error("Failed to persist restored aura", "accountID", victim.ID, "error", err)
		return
	}
	log.Info("Temporal anchor restored stolen aura", "accountID", victim.ID, "amount", amount)
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

// cooldownMinutes formats a remaining cooldown as whole minutes,
// rounded up so a fresh cooldown never reads as zero.
func cooldownMinutes(remaining time.Duration) int {
	m := int((remaining + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}
