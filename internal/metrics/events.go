package metrics

import (
	"context"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/event"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.AuraGained,
		event.AuraLost,
		event.ItemUsed,
		event.TheftAttempted,
		event.DuelCompleted,
		event.ComboCompleted,
		event.LootboxSpawn,
		event.LootboxOpen,
		event.LevelUp,
		event.EffectTriggered,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(_ context.Context, evt event.Event) error {
	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.AuraGained:
		if p, ok := evt.Payload.(event.AuraChangePayloadV1); ok && p.Amount > 0 {
			AuraGranted.Add(float64(p.Amount))
		}

	case event.AuraLost:
		if p, ok := evt.Payload.(event.AuraChangePayloadV1); ok && p.Amount < 0 {
			AuraDeducted.Add(float64(-p.Amount))
		}

	case event.ItemUsed:
		if p, ok := evt.Payload.(event.EffectPayloadV1); ok {
			ItemsUsed.WithLabelValues(p.Effect).Inc()
		}

	case event.TheftAttempted:
		if p, ok := evt.Payload.(event.TheftPayloadV1); ok {
			result := "failed"
			if p.Success {
				result = "success"
			}
			TheftsAttempted.WithLabelValues(result).Inc()
		}

	case event.ComboCompleted:
		if p, ok := evt.Payload.(event.ComboPayloadV1); ok {
			CombosCompleted.WithLabelValues(p.Name).Inc()
		}

	case event.DuelCompleted:
		DuelsResolved.Inc()

	case event.LootboxSpawn:
		if box, ok := evt.Payload.(*domain.Lootbox); ok {
			LootboxesSpawned.WithLabelValues(string(box.Rarity)).Inc()
		}

	case event.LootboxOpen:
		if box, ok := evt.Payload.(*domain.Lootbox); ok {
			LootboxesGrabbed.WithLabelValues(string(box.Rarity)).Inc()
		}
	}

	return nil
}
