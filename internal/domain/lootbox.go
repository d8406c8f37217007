package domain

import "time"

// LootReward is a single reward inside a lootbox: an aura amount or an
// item drop, never both.
type LootReward struct {
	Aura   int64  `json:"aura,omitempty"`
	ItemID string `json:"item_id,omitempty"`
}

// Lootbox is an ephemeral reward container. Rarity and rewards are
// fixed at construction; grabbing applies them without further rolls.
type Lootbox struct {
	Rarity    Rarity       `json:"rarity"`
	Rewards   []LootReward `json:"rewards"`
	SpawnedAt time.Time    `json:"spawned_at"`
}
