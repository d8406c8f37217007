package domain

import "time"

// Category classifies how an item is used.
type Category string

const (
	CategoryDefensive  Category = "defensive"
	CategoryOffensive  Category = "offensive"
	CategoryUtility    Category = "utility"
	CategoryLegendary  Category = "legendary"
	CategoryConsumable Category = "consumable"
)

// Rarity is the drop tier of a catalog item.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// EffectTag names the ongoing or one-shot effect an item produces.
type EffectTag string

const (
	EffectBlockTheft      EffectTag = "block_theft"
	EffectStealth         EffectTag = "stealth"
	EffectReflectTheft    EffectTag = "reflect_theft"
	EffectRestoreStolen   EffectTag = "restore_stolen"
	EffectBoostTheft      EffectTag = "boost_theft"
	EffectHideIdentity    EffectTag = "hide_identity"
	EffectSeeDefenses     EffectTag = "see_defenses"
	EffectAmplifyTheft    EffectTag = "amplify_theft"
	EffectBoostGains      EffectTag = "boost_gains"
	EffectDetectLootbox   EffectTag = "detect_lootbox"
	EffectReduceCooldowns EffectTag = "reduce_cooldowns"
	EffectRevealCombo     EffectTag = "reveal_combo"
	EffectCrown           EffectTag = "crown_effect"
	EffectMassDrain       EffectTag = "mass_drain"
)

// Item is an immutable catalog entry.
type Item struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    Category      `json:"category"`
	Price       int64         `json:"price"`
	Rarity      Rarity        `json:"rarity"`
	Effect      EffectTag     `json:"effect"`
	Duration    time.Duration `json:"duration"`
	Cooldown    time.Duration `json:"cooldown"`
	UsageText   string        `json:"usage_text"`
}

// Consumable reports whether using the item removes it immediately
// rather than activating it for a duration.
func (i Item) Consumable() bool {
	return i.Category == CategoryConsumable
}

// Synergy is a bonus unlocked when all listed items are active at once.
type Synergy struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Items       []string  `json:"items"`
	Description string    `json:"description"`
	Effect      EffectTag `json:"effect"`
}

const (
	SynergyStealthSet       = "stealth_set"
	SynergyCatalystNetwork  = "catalyst_network"
	SynergyGuardianProtocol = "guardian_protocol"
	SynergyMasterThief      = "master_thief"
	SynergyTimeWeaver       = "time_weaver"
	SynergyVoidWalker       = "void_walker"
)
