package domain

// OutcomeType tags an Outcome for the presentation layer.
type OutcomeType string

const (
	OutcomeChat         OutcomeType = "chat"
	OutcomeSystem       OutcomeType = "system"
	OutcomeProfile      OutcomeType = "profile"
	OutcomeInventory    OutcomeType = "inventory"
	OutcomeReward       OutcomeType = "reward"
	OutcomeNavigation   OutcomeType = "navigation"
	OutcomeTheft        OutcomeType = "theft"
	OutcomeDuel         OutcomeType = "duel"
	OutcomeGift         OutcomeType = "gift"
	OutcomeItemUse      OutcomeType = "item_use"
	OutcomeCombo        OutcomeType = "combo"
	OutcomeCommand      OutcomeType = "command"
	OutcomeLeaderboard  OutcomeType = "leaderboard"
	OutcomeQuestList    OutcomeType = "quest_list"
	OutcomeMinigameList OutcomeType = "minigame_list"
	OutcomeRateLimited  OutcomeType = "rate_limited"
)

// LeaderboardEntry is one row of the leaderboard snapshot.
type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Aura  int64  `json:"aura"`
	Level int    `json:"level"`
}

// Outcome is the sole contract surface between the engine and the
// presentation layer: everything needed to render a result and trigger
// animation or sound cues by tag, without re-deriving game state.
type Outcome struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Type     OutcomeType `json:"type"`
	Effect   string      `json:"effect,omitempty"`
	AuraGain int64       `json:"aura_gain,omitempty"`
	AuraLoss int64       `json:"aura_loss,omitempty"`

	// Handler-specific payloads.
	ComboName   string             `json:"combo_name,omitempty"`
	Rewards     []LootReward       `json:"rewards,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
	NavTarget   string             `json:"nav_target,omitempty"`
	NavPayload  map[string]string  `json:"nav_payload,omitempty"`
}

// Failure builds a failed Outcome with a system message.
func Failure(msg string) *Outcome {
	return &Outcome{Success: false, Message: msg, Type: OutcomeSystem}
}
