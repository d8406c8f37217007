package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/item"
)

const helpText = `Available commands:
- /help - Show this help
- /daily - Claim daily Aura bonus
- /profile - View your profile and stats
- /inventory - Show your items
- /shop - Open the Aura shop
- /use [item] - Use an item from your inventory
- /grab - Grab a lootbox when available
- /duel [player] - Challenge player to an Aura duel
- /steal [player] - Attempt to steal Aura (risky)
- /gift [player] [amount] - Gift Aura to another player
- /quest [name] - Start a text adventure quest
- /minigame [type] - Play a minigame
- /leaderboard - View top Aura holders`

func (e *Engine) handleHelp(_ context.Context, _ []string, _ time.Time) (*domain.Outcome, error) {
	return &domain.Outcome{
		Success: true,
		Message: helpText,
		Type:    domain.OutcomeSystem,
	}, nil
}

func (e *Engine) handleProfile(ctx context.Context, _ []string, _ time.Time) (*domain.Outcome, error) {
	p, err := e.players.Get(ctx, e.playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}

	msg := fmt.Sprintf(`Player: %s
Aura Level: %d (%s Aura)
Rank: %s
Daily Streak: %d days
Quests Completed: %d
Duels Won: %d
Successful Thefts: %d`,
		p.Name, p.Level(), formatAmount(p.Aura), p.Rank(),
		p.DailyStreak, p.QuestsCompleted, p.DuelsWon, p.TheftsSuccessful)

	return &domain.Outcome{
		Success: true,
		Message: msg,
		Type:    domain.OutcomeProfile,
	}, nil
}

func (e *Engine) handleDaily(ctx context.Context, _ []string, now time.Time) (*domain.Outcome, error) {
	return e.players.ClaimDaily(ctx, e.playerID, now)
}

func (e *Engine) handleInventory(ctx context.Context, _ []string, now time.Time) (*domain.Outcome, error) {
	p, err := e.players.Get(ctx, e.playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}
	p.EvictExpiredItems(now)

	if len(p.Inventory) == 0 && len(p.ActiveItems) == 0 {
		return &domain.Outcome{
			Success: true,
			Message: "Your inventory is empty. Visit the shop to buy items!",
			Type:    domain.OutcomeInventory,
		}, nil
	}

	var b strings.Builder
	b.WriteString("== YOUR INVENTORY ==\n")

	if len(p.ActiveItems) > 0 {
		b.WriteString("\nACTIVE ITEMS:\n")
		for _, a := range p.ActiveItems {
			name := a.CatalogID
			if it, ok := item.ByID(a.CatalogID); ok {
				name = it.Name
			}
			minutes := int(a.ExpiresAt.Sub(now).Minutes()) + 1
			fmt.Fprintf(&b, "- %s (%d min remaining)\n", name, minutes)
		}
	}

	counts := make(map[string]int)
	for _, inst := range p.Inventory {
		counts[inst.CatalogID]++
	}
	categories := []domain.Category{
		domain.CategoryDefensive,
		domain.CategoryOffensive,
		domain.CategoryUtility,
		domain.CategoryConsumable,
		domain.CategoryLegendary,
	}
	for _, cat := range categories {
		var lines []string
		for _, it := range item.ByCategory(cat) {
			if n := counts[it.ID]; n > 0 {
				lines = append(lines, fmt.Sprintf("- %s (x%d): %s", it.Name, n, it.Description))
			}
		}
		if len(lines) > 0 {
			fmt.Fprintf(&b, "\n%s ITEMS:\n%s\n", strings.ToUpper(string(cat)), strings.Join(lines, "\n"))
		}
	}

	return &domain.Outcome{
		Success: true,
		Message: strings.TrimRight(b.String(), "\n"),
		Type:    domain.OutcomeInventory,
	}, nil
}

func (e *Engine) handleShop(_ context.Context, _ []string, _ time.Time) (*domain.Outcome, error) {
	return &domain.Outcome{
		Success:   true,
		Message:   "Opening shop...",
		Type:      domain.OutcomeNavigation,
		NavTarget: "shop",
	}, nil
}

func (e *Engine) handleLeaderboard(ctx context.Context, _ []string, _ time.Time) (*domain.Outcome, error) {
	entries, err := e.board.Top(ctx, LeaderboardSize)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("== AURA LEADERBOARD ==\n")
	inTop := false
	for i, entry := range entries {
		fmt.Fprintf(&b, "\n%d. %s: %s Aura (Level %d)", i+1, entry.Name, formatAmount(entry.Aura), entry.Level)
		if entry.ID == e.playerID {
			inTop = true
		}
	}

	if !inTop {
		if rank, ok, err := e.board.Rank(ctx, e.playerID); err == nil && ok {
			if p, perr := e.players.Get(ctx, e.playerID); perr == nil && p != nil {
				fmt.Fprintf(&b, "\n...\n%d. %s: %s Aura (Level %d)",
					rank, p.Name, formatAmount(p.Aura), p.Level())
			}
		}
	}

	return &domain.Outcome{
		Success:     true,
		Message:     b.String(),
		Type:        domain.OutcomeLeaderboard,
		Leaderboard: entries,
	}, nil
}

func (e *Engine) handleDuel(ctx context.Context, args []string, now time.Time) (*domain.Outcome, error) {
	if len(args) == 0 {
		return domain.Failure("Please specify a player to duel. Example: /duel AuraKnight"), nil
	}
	return e.economy.ResolveDuel(ctx, e.playerID, strings.Join(args, " "), now)
}

func (e *Engine) handleSteal(ctx context.Context, args []string, now time.Time) (*domain.Outcome, error) {
	if len(args) == 0 {
		return domain.Failure("Please specify a player to steal from. Example: /steal AuraKnight"), nil
	}
	return e.economy.AttemptTheft(ctx, e.playerID, strings.Join(args, " "), now)
}

func (e *Engine) handleGift(ctx context.Context, args []string, now time.Time) (*domain.Outcome, error) {
	if len(args) < 2 {
		return domain.Failure("Please specify a player and amount. Example: /gift AuraKnight 100"), nil
	}
	amount, err := strconv.ParseInt(args[len(args)-1], 10, 64)
	if err != nil {
		return domain.Failure("Please specify a valid amount of Aura to gift."), nil
	}
	targetName := strings.Join(args[:len(args)-1], " ")
	return e.players.GiftAura(ctx, e.playerID, targetName, amount, now)
}

func (e *Engine) handleUse(ctx context.Context, args []string, now time.Time) (*domain.Outcome, error) {
	if len(args) == 0 {
		return domain.Failure("Please specify an item to use. Example: /use aura_shield"), nil
	}
	return e.players.UseItem(ctx, e.playerID, strings.Join(args, " "), now)
}

func (e *Engine) handleGrab(ctx context.Context, _ []string, now time.Time) (*domain.Outcome, error) {
	// Load the player before consuming the box: a failed load must not
	// cost the session its one active lootbox.
	p, err := e.players.Get(ctx, e.playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}

	box, ok := e.boxes.Take(ctx)
	if !ok {
		return domain.Failure("There are no lootboxes available right now."), nil
	}
	doubled := item.HasSynergy(p, domain.SynergyCatalystNetwork, now)

	return e.players.ApplyLootbox(ctx, e.playerID, box, doubled, now)
}
