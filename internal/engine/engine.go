package engine

import (
	"context"
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/economy"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/logger"
	"github.com/avragame/aura-engine/internal/lootbox"
	"github.com/avragame/aura-engine/internal/metrics"
	"github.com/avragame/aura-engine/internal/player"
)

const (
	// RateLimitWindow is the minimum spacing between accepted commands.
	RateLimitWindow = 200 * time.Millisecond

	// HistoryLimit caps the retained command history per session.
	HistoryLimit = 20

	// LeaderboardSize is how many rows the /leaderboard view shows.
	LeaderboardSize = 10
)

// Leaderboard is the ranking port the engine reads from.
type Leaderboard interface {
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Rank(ctx context.Context, playerID string) (int, bool, error)
}

// HistoryEntry is one accepted input line.
type HistoryEntry struct {
	At      time.Time
	Command string
}

type handlerFunc func(ctx context.Context, args []string, now time.Time) (*domain.Outcome, error)

// Engine is the per-session command pipeline: rate limiting, history,
// parsing, dispatch, and combo tracking for one player. It is driven
// by a single goroutine per session and is not safe for concurrent
// Process calls.
type Engine struct {
	playerID string

	players  player.Service
	economy  economy.Service
	boxes    *lootbox.Manager
	board    Leaderboard
	eventBus event.Bus

	combos    *ComboTracker
	handlers  map[string]handlerFunc
	history   []HistoryEntry
	lastCmdAt time.Time
}

// New creates an engine bound to one player session.
func New(playerID string, players player.Service, econ economy.Service, boxes *lootbox.Manager, board Leaderboard, eventBus event.Bus) *Engine {
	e := &Engine{
		playerID: playerID,
		players:  players,
		economy:  econ,
		boxes:    boxes,
		board:    board,
		eventBus: eventBus,
		combos:   NewComboTracker(Combos()),
	}
	e.registerHandlers()
	return e
}

// registerHandlers builds the closed dispatch table. Unlisted names
// are rejected, never reflected into method lookups.
func (e *Engine) registerHandlers() {
	e.handlers = map[string]handlerFunc{
		"help":        e.handleHelp,
		"profile":     e.handleProfile,
		"daily":       e.handleDaily,
		"inventory":   e.handleInventory,
		"shop":        e.handleShop,
		"leaderboard": e.handleLeaderboard,
		"duel":        e.handleDuel,
		"steal":       e.handleSteal,
		"gift":        e.handleGift,
		"use":         e.handleUse,
		"grab":        e.handleGrab,
		"quest":       e.handleQuest,
		"minigame":    e.handleMinigame,
	}
	for _, tok := range comboTokens(e.combos.combos) {
		token := tok
		e.handlers[token] = func(ctx context.Context, _ []string, now time.Time) (*domain.Outcome, error) {
			return e.trackCombo(ctx, token, now)
		}
	}
}

// Process runs one raw input line through the pipeline at now. Empty
// input is a no-op and returns nil. Infrastructure faults surface as
// generic failure outcomes, never as panics or errors to the caller.
func (e *Engine) Process(ctx context.Context, raw string, now time.Time) (out *domain.Outcome) {
	log := logger.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Command handler panicked", "playerID", e.playerID, "input", raw, "panic", r)
			out = domain.Failure("Something went wrong. Please try again.")
		}
	}()

	input := strings.TrimSpace(raw)
	if input == "" {
		return nil
	}

	if !e.lastCmdAt.IsZero() && now.Sub(e.lastCmdAt) < RateLimitWindow {
		metrics.CommandsProcessed.WithLabelValues("", "rate_limited").Inc()
		return &domain.Outcome{
			Success: false,
			Message: "Please slow down!",
			Type:    domain.OutcomeRateLimited,
		}
	}
	e.lastCmdAt = now

	input = strings.ToLower(input)
	e.recordHistory(input, now)

	if !strings.HasPrefix(input, "/") {
		return e.handleChat(ctx, input)
	}

	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return e.unknownCommand("")
	}
	name, args := parts[0], parts[1:]

	handler, ok := e.handlers[name]
	if !ok {
		metrics.CommandsProcessed.WithLabelValues(name, "unknown").Inc()
		return e.unknownCommand(name)
	}

	result, err := handler(ctx, args, now)
	if err != nil {
		log.Error("Command failed", "playerID", e.playerID, "command", name, "error", err)
		metrics.CommandsProcessed.WithLabelValues(name, "error").Inc()
		return domain.Failure("Something went wrong. Please try again.")
	}

	status := "failure"
	if result.Success {
		status = "success"
	}
	metrics.CommandsProcessed.WithLabelValues(name, status).Inc()

	if result.Effect != "" && e.eventBus != nil {
		if err := e.eventBus.Publish(ctx, event.NewEffectEvent(e.playerID, result.Effect)); err != nil {
			log.Warn("Failed to publish effect event", "effect", result.Effect, "error", err)
		}
	}
	return result
}

// History returns the retained accepted inputs, oldest first.
func (e *Engine) History() []HistoryEntry {
	return e.history
}

func (e *Engine) recordHistory(input string, now time.Time) {
	e.history = append(e.history, HistoryEntry{At: now, Command: input})
	if len(e.history) > HistoryLimit {
		e.history = e.history[len(e.history)-HistoryLimit:]
	}
}

func (e *Engine) unknownCommand(name string) *domain.Outcome {
	return domain.Failure(
		"Unknown command: " + name + ". Type /help for available commands.")
}

// handleChat echoes non-slash input back as player speech.
func (e *Engine) handleChat(ctx context.Context, input string) *domain.Outcome {
	name := "You"
	if p, err := e.players.Get(ctx, e.playerID); err == nil && p != nil {
		name = p.Name
	}
	return &domain.Outcome{
		Success: true,
		Message: name + " says: " + input,
		Type:    domain.OutcomeChat,
	}
}

// trackCombo feeds a combo token into the tracker and pays out a
// completed sequence with the gain boost applied.
func (e *Engine) trackCombo(ctx context.Context, token string, now time.Time) (*domain.Outcome, error) {
	combo, done := e.combos.Track(token, now)
	if !done {
		return &domain.Outcome{
			Success: true,
			Message: "Command: " + token,
			Type:    domain.OutcomeCommand,
		}, nil
	}

	p, err := e.players.Get(ctx, e.playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}

	reward := economy.ApplyBoost(combo.Reward, p, now)
	e.players.GrantAura(ctx, p, reward, "combo")
	if err := e.players.Save(ctx, p); err != nil {
		return nil, err
	}

	e.publishCombo(ctx, combo, reward)
	return &domain.Outcome{
		Success:   true,
		Message:   strings.ReplaceAll(combo.Message, "{reward}", formatAmount(reward)),
		Type:      domain.OutcomeCombo,
		Effect:    combo.Effect,
		AuraGain:  reward,
		ComboName: combo.Name,
	}, nil
}

func (e *Engine) publishCombo(ctx context.Context, combo domain.Combo, reward int64) {
	if e.eventBus == nil {
		return
	}
	err := e.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.ComboCompleted,
		Payload: event.ComboPayloadV1{
			PlayerID: e.playerID,
			Name:     combo.Name,
			Reward:   reward,
		},
	})
	if err != nil {
		logger.FromContext(ctx).Warn("Event publish failed", "type", event.ComboCompleted, "error", err)
	}
}
