package item

import (
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
)

// Catalog IDs referenced by game logic.
const (
	AuraShield      = "aura_shield"
	StealthCloak    = "stealth_cloak"
	MirrorWard      = "mirror_ward"
	TemporalAnchor  = "temporal_anchor"
	AuraMagnet      = "aura_magnet"
	ShadowMask      = "shadow_mask"
	PrecisionLens   = "precision_lens"
	VoidExtractor   = "void_extractor"
	AuraCatalyst    = "aura_catalyst"
	LootboxDetector = "lootbox_detector"
	TimeCrystal     = "time_crystal"
	MysticOrb       = "mystic_orb"
	AuraCrown       = "aura_crown"
	VoidSiphon      = "void_siphon"
)

// DefaultDuration is applied to duration items with no catalog entry.
const DefaultDuration = time.Hour

// catalog is the full item database. Entries are immutable static data.
var catalog = []domain.Item{
	{
		ID: AuraShield, Name: "Aura Shield",
		Description: "Blocks one theft attempt completely. Single-use, consumed on activation.",
		Category:    domain.CategoryConsumable, Price: 500, Rarity: domain.RarityCommon,
		Effect: domain.EffectBlockTheft, Duration: 24 * time.Hour,
		UsageText: "Aura Shield activated. Your next theft attempt will be blocked.",
	},
	{
		ID: StealthCloak, Name: "Stealth Cloak",
		Description: "Makes you invisible on the leaderboard for 6 hours. Prevents theft attempts during this time.",
		Category:    domain.CategoryDefensive, Price: 1200, Rarity: domain.RarityUncommon,
		Effect: domain.EffectStealth, Duration: 6 * time.Hour,
		UsageText: "You fade from view, becoming untargetable for theft attempts.",
	},
	{
		ID: MirrorWard, Name: "Mirror Ward",
		Description: "Reflects theft attempts for 3 hours. Attacker loses Aura instead.",
		Category:    domain.CategoryDefensive, Price: 2000, Rarity: domain.RarityRare,
		Effect: domain.EffectReflectTheft, Duration: 3 * time.Hour,
		UsageText: "A shimmering barrier surrounds your Aura, ready to reflect theft attempts.",
	},
	{
		ID: TemporalAnchor, Name: "Temporal Anchor",
		Description: "If Aura is stolen, automatically restores it after 1 hour. 24-hour duration.",
		Category:    domain.CategoryDefensive, Price: 3500, Rarity: domain.RarityEpic,
		Effect: domain.EffectRestoreStolen, Duration: 24 * time.Hour,
		UsageText: "You anchor your Aura to its current state, ensuring any losses will be recovered.",
	},
	{
		ID: AuraMagnet, Name: "Aura Magnet",
		Description: "+15% success chance on theft attempts while active.",
		Category:    domain.CategoryOffensive, Price: 800, Rarity: domain.RarityCommon,
		Effect: domain.EffectBoostTheft, Duration: DefaultDuration,
		UsageText: "The Aura Magnet pulses with energy, ready to draw in Aura from your target.",
	},
	{
		ID: ShadowMask, Name: "Shadow Mask",
		Description: "Hide your identity during theft attempts for 2 hours.",
		Category:    domain.CategoryOffensive, Price: 1500, Rarity: domain.RarityUncommon,
		Effect: domain.EffectHideIdentity, Duration: 2 * time.Hour,
		UsageText: "You don a mask of shadows, concealing your identity during theft attempts.",
	},
	{
		ID: PrecisionLens, Name: "Precision Lens",
		Description: "See other players' defensive items for 1 hour. +10% theft success chance.",
		Category:    domain.CategoryOffensive, Price: 2500, Rarity: domain.RarityRare,
		Effect: domain.EffectSeeDefenses, Duration: time.Hour,
		UsageText: "The Precision Lens activates, revealing the defensive measures of potential targets.",
	},
	{
		ID: VoidExtractor, Name: "Void Extractor",
		Description: "Steal 50% more Aura on successful theft. 12-hour duration.",
		Category:    domain.CategoryOffensive, Price: 4000, Rarity: domain.RarityEpic,
		Effect: domain.EffectAmplifyTheft, Duration: 12 * time.Hour,
		UsageText: "The Void Extractor hums with dark energy, ready to drain additional Aura from your targets.",
	},
	{
		ID: AuraCatalyst, Name: "Aura Catalyst",
		Description: "+25% Aura from all sources for 3 hours.",
		Category:    domain.CategoryUtility, Price: 1000, Rarity: domain.RarityUncommon,
		Effect: domain.EffectBoostGains, Duration: 3 * time.Hour,
		UsageText: "The Aura Catalyst activates, enhancing all Aura you receive.",
	},
	{
		ID: LootboxDetector, Name: "Lootbox Detector",
		Description: "Get notified 30 seconds before lootbox spawns. Lasts 12 hours.",
		Category:    domain.CategoryUtility, Price: 1800, Rarity: domain.RarityUncommon,
		Effect: domain.EffectDetectLootbox, Duration: 12 * time.Hour,
		UsageText: "The Lootbox Detector begins scanning the area for upcoming lootbox spawns.",
	},
	{
		ID: TimeCrystal, Name: "Time Crystal",
		Description: "Reduce all cooldowns by 50% for 2 hours.",
		Category:    domain.CategoryUtility, Price: 3000, Rarity: domain.RarityRare,
		Effect: domain.EffectReduceCooldowns, Duration: 2 * time.Hour,
		UsageText: "The Time Crystal fractures reality around you, accelerating your recovery times.",
	},
	{
		ID: MysticOrb, Name: "Mystic Orb",
		Description: "Reveals one random command combo. Single use.",
		Category:    domain.CategoryConsumable, Price: 5000, Rarity: domain.RarityEpic,
		Effect: domain.EffectRevealCombo,
		UsageText: "The Mystic Orb swirls with cosmic energy, revealing hidden knowledge.",
	},
	{
		ID: AuraCrown, Name: "Crown of Luminescence",
		Description: "Legendary item. +50% Aura from all sources and immunity to theft for 1 hour.",
		Category:    domain.CategoryLegendary, Price: 25000, Rarity: domain.RarityLegendary,
		Effect: domain.EffectCrown, Duration: time.Hour, Cooldown: 7 * 24 * time.Hour,
		UsageText: "The Crown of Luminescence blazes with power, making you untouchable and vastly increasing your Aura gains.",
	},
	{
		ID: VoidSiphon, Name: "Void Siphon",
		Description: "Legendary item. Drain 5% Aura from all players below your level.",
		Category:    domain.CategoryLegendary, Price: 30000, Rarity: domain.RarityLegendary,
		Effect: domain.EffectMassDrain, Cooldown: 14 * 24 * time.Hour,
		UsageText: "The Void Siphon creates a massive pull, drawing Aura from countless sources into your reserves.",
	},
}

// All returns the full catalog.
func All() []domain.Item {
	return catalog
}

// ByID looks up a catalog entry by exact id.
func ByID(id string) (domain.Item, bool) {
	for _, it := range catalog {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Item{}, false
}

// Resolve matches a catalog entry by case-insensitive id or display name.
func Resolve(ref string) (domain.Item, bool) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	for _, it := range catalog {
		if strings.ToLower(it.ID) == ref || strings.ToLower(it.Name) == ref {
			return it, true
		}
	}
	return domain.Item{}, false
}

// ByRarity returns all catalog entries of the given rarity.
func ByRarity(r domain.Rarity) []domain.Item {
	var out []domain.Item
	for _, it := range catalog {
		if it.Rarity == r {
			out = append(out, it)
		}
	}
	return out
}

// ByCategory returns all catalog entries of the given category.
func ByCategory(c domain.Category) []domain.Item {
	var out []domain.Item
	for _, it := range catalog {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

// Duration returns the active duration for a catalog id, falling back
// to DefaultDuration for unknown ids.
func Duration(id string) time.Duration {
	if it, ok := ByID(id); ok && it.Duration > 0 {
		return it.Duration
	}
	return DefaultDuration
}
