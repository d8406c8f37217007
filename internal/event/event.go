package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// EventSchemaVersion is the current event schema version.
const EventSchemaVersion = "1.0"

// Type represents the type of an event.
type Type string

// Event types published by the engine.
const (
	PlayerUpdate      Type = "player_update"
	ItemUsed          Type = "item_used"
	AuraGained        Type = "aura_gained"
	AuraLost          Type = "aura_lost"
	LootboxSpawn      Type = "lootbox_spawn"
	LootboxOpen       Type = "lootbox_open"
	LootboxDespawn    Type = "lootbox_despawn"
	DuelCompleted     Type = "duel_completed"
	TheftAttempted    Type = "theft_attempted"
	LevelUp           Type = "level_up"
	ComboCompleted    Type = "combo_completed"
	EffectTriggered   Type = "effect_triggered"
	NotificationAdded Type = "notification_added"
)

// Event represents a generic event in the system.
type Event struct {
	Version string      `json:"version"`
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// AuraChangePayloadV1 is the typed payload for aura gain/loss events.
type AuraChangePayloadV1 struct {
	PlayerID  string `json:"player_id"`
	Amount    int64  `json:"amount"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// EffectPayloadV1 carries a presentation effect tag.
type EffectPayloadV1 struct {
	PlayerID string `json:"player_id"`
	Effect   string `json:"effect"`
}

// LevelUpPayloadV1 is the typed payload for level up events.
type LevelUpPayloadV1 struct {
	PlayerID string `json:"player_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// TheftPayloadV1 is the typed payload for theft attempt events.
type TheftPayloadV1 struct {
	ThiefID  string `json:"thief_id"`
	TargetID string `json:"target_id"`
	Success  bool   `json:"success"`
	Amount   int64  `json:"amount"`
}

// ComboPayloadV1 is the typed payload for combo completion events.
type ComboPayloadV1 struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Reward   int64  `json:"reward"`
}

// DuelPayloadV1 is the typed payload for duel completion events.
type DuelPayloadV1 struct {
	InitiatorID string `json:"initiator_id"`
	OpponentID  string `json:"opponent_id"`
	WinnerID    string `json:"winner_id"`
	Stake       int64  `json:"stake"`
}

// NewAuraChangeEvent creates a gain or loss event depending on sign.
func NewAuraChangeEvent(playerID string, amount int64, source string) Event {
	t := AuraGained
	if amount < 0 {
		t = AuraLost
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: AuraChangePayloadV1{
			PlayerID:  playerID,
			Amount:    amount,
			Source:    source,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewEffectEvent creates an effect-triggered event for the presentation
// layer (fire-and-forget cue by tag).
func NewEffectEvent(playerID, effect string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EffectTriggered,
		Payload: EffectPayloadV1{PlayerID: playerID, Effect: effect},
	}
}

// NotificationPayloadV1 mirrors a notification queued on a player.
type NotificationPayloadV1 struct {
	PlayerID string `json:"player_id"`
	Type     string `json:"type"`
	Message  string `json:"message"`
}

// NewNotificationEvent announces a queued notification so connected
// clients can show it without waiting for the next poll.
func NewNotificationEvent(playerID, notifType, message string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    NotificationAdded,
		Payload: NotificationPayloadV1{PlayerID: playerID, Type: notifType, Message: message},
	}
}

// Handler is a function that handles an event.
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the event bus. Handlers
// run synchronously in subscription order, matching the cooperative
// single-session execution model.
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[Type][]Handler)}
}

// Publish publishes an event to all subscribers.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d handler error(s) for %s: %v", len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type.
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
