package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
)

// questInfo is a text-adventure quest listing.
type questInfo struct {
	Name             string
	Description      string
	Difficulty       string
	Reward           int64
	LevelRequirement int
}

var quests = []questInfo{
	{
		Name:        "The Whispering Cavern",
		Description: "Follow the faint hum of trapped Aura into a cave that answers back.",
		Difficulty:  "Easy", Reward: 300, LevelRequirement: 1,
	},
	{
		Name:        "Shadows of the Aetherium",
		Description: "Trace a chain of stolen Aura through the old Aetherium vaults.",
		Difficulty:  "Medium", Reward: 700, LevelRequirement: 3,
	},
	{
		Name:        "Trial of the Aura Lord",
		Description: "Face the trials that forged the first Aura Lord.",
		Difficulty:  "Hard", Reward: 1500, LevelRequirement: 5,
	},
}

// minigameInfo is a minigame listing row.
type minigameInfo struct {
	ID          string
	Name        string
	Description string
	RewardText  string
	Keywords    []string
}

var minigames = []minigameInfo{
	{
		ID: "wordscramble", Name: "Word Unscramble",
		Description: "Quickly unscramble Aura-related words",
		RewardText:  "100-300 Aura",
		Keywords:    []string{"word", "scramble"},
	},
	{
		ID: "commandchain", Name: "Command Chain",
		Description: "Memorize and type command sequences",
		RewardText:  "150-450 Aura",
		Keywords:    []string{"command", "chain"},
	},
	{
		ID: "aurapuzzle", Name: "Aura Puzzle",
		Description: "Solve text-based riddles",
		RewardText:  "200-600 Aura",
		Keywords:    []string{"puzzle"},
	},
	{
		ID: "reaction", Name: "Reaction Test",
		Description: "Type commands instantly when prompted",
		RewardText:  "50-150 Aura",
		Keywords:    []string{"reaction"},
	},
}

func (e *Engine) handleQuest(ctx context.Context, args []string, _ time.Time) (*domain.Outcome, error) {
	p, err := e.players.Get(ctx, e.playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}

	if len(args) == 0 {
		available := availableQuests(p.Level())
		if len(available) == 0 {
			return domain.Failure("There are no quests available for you right now. Check back later!"), nil
		}

		var b strings.Builder
		b.WriteString("== AVAILABLE QUESTS ==\n")
		for _, q := range available {
			fmt.Fprintf(&b, "\n%s: %s\nDifficulty: %s | Reward: %d Aura\n", q.Name, q.Description, q.Difficulty, q.Reward)
		}
		b.WriteString("\nTo start a quest, type: /quest [quest name]")
		return &domain.Outcome{
			Success: true,
			Message: b.String(),
			Type:    domain.OutcomeQuestList,
		}, nil
	}

	questName := strings.Join(args, " ")
	quest, ok := questByName(questName)
	if !ok {
		return domain.Failure(fmt.Sprintf(
			"Quest %q not found. Type /quest to see available quests.", questName)), nil
	}
	if p.Level() < quest.LevelRequirement {
		return domain.Failure(fmt.Sprintf(
			"You need to be Aura Level %d to start this quest.", quest.LevelRequirement)), nil
	}

	return &domain.Outcome{
		Success:    true,
		Message:    "Starting quest: " + quest.Name,
		Type:       domain.OutcomeNavigation,
		NavTarget:  "quest",
		NavPayload: map[string]string{"quest": quest.Name},
	}, nil
}

func (e *Engine) handleMinigame(_ context.Context, args []string, _ time.Time) (*domain.Outcome, error) {
	if len(args) == 0 {
		var b strings.Builder
		b.WriteString("== AVAILABLE MINIGAMES ==\n")
		for _, g := range minigames {
			fmt.Fprintf(&b, "\n%s: %s\nReward: %s\n", g.Name, g.Description, g.RewardText)
		}
		b.WriteString("\nTo start a minigame, type: /minigame [name]")
		return &domain.Outcome{
			Success: true,
			Message: b.String(),
			Type:    domain.OutcomeMinigameList,
		}, nil
	}

	name := strings.ToLower(strings.Join(args, " "))
	game, ok := minigameByKeyword(name)
	if !ok {
		return domain.Failure(fmt.Sprintf(
			"Minigame %q not found. Type /minigame to see available games.", name)), nil
	}

	return &domain.Outcome{
		Success:    true,
		Message:    "Starting minigame: " + game.ID,
		Type:       domain.OutcomeNavigation,
		NavTarget:  "minigame",
		NavPayload: map[string]string{"minigame": game.ID},
	}, nil
}

func availableQuests(level int) []questInfo {
	var out []questInfo
	for _, q := range quests {
		if level >= q.LevelRequirement {
			out = append(out, q)
		}
	}
	return out
}

func questByName(name string) (questInfo, bool) {
	for _, q := range quests {
		if strings.EqualFold(q.Name, name) {
			return q, true
		}
	}
	return questInfo{}, false
}

func minigameByKeyword(input string) (minigameInfo, bool) {
	for _, g := range minigames {
		for _, kw := range g.Keywords {
			if strings.Contains(input, kw) {
				return g, true
			}
		}
	}
	return minigameInfo{}, false
}
