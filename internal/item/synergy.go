package item

import (
	"time"

	"github.com/avragame/aura-engine/internal/domain"
)

// synergies are bonus effects unlocked when a full set of items is
// simultaneously active.
var synergies = []domain.Synergy{
	{
		ID: domain.SynergyStealthSet, Name: "Stealth Set",
		Items:       []string{StealthCloak, ShadowMask},
		Description: "Complete anonymity. +10% theft success chance.",
		Effect:      "stealth_synergy",
	},
	{
		ID: domain.SynergyCatalystNetwork, Name: "Catalyst Network",
		Items:       []string{AuraCatalyst, TimeCrystal, LootboxDetector},
		Description: "+15% Aura from all sources. Lootboxes have double rewards.",
		Effect:      "catalyst_synergy",
	},
	{
		ID: domain.SynergyGuardianProtocol, Name: "Guardian Protocol",
		Items:       []string{AuraShield, MirrorWard, TemporalAnchor},
		Description: "Auto-blocks 50% of theft attempts.",
		Effect:      "guardian_synergy",
	},
	{
		ID: domain.SynergyMasterThief, Name: "Master Thief",
		Items:       []string{AuraMagnet, PrecisionLens, VoidExtractor},
		Description: "Can steal from players up to 2 levels higher.",
		Effect:      "thief_synergy",
	},
	{
		ID: domain.SynergyTimeWeaver, Name: "Time Weaver",
		Items:       []string{TimeCrystal, TemporalAnchor},
		Description: "Cooldowns reduced by 75% instead of 50%.",
		Effect:      "time_synergy",
	},
	{
		ID: domain.SynergyVoidWalker, Name: "Void Walker",
		Items:       []string{VoidExtractor, ShadowMask, PrecisionLens},
		Description: "When stealing, gain an additional 10% of the target's Aura as bonus.",
		Effect:      "void_synergy",
	},
}

// Synergies returns all synergy definitions.
func Synergies() []domain.Synergy {
	return synergies
}

// ActiveSynergies returns the ids of every synergy whose full item set
// is active on the player at now.
func ActiveSynergies(p *domain.Player, now time.Time) []string {
	var active []string
	for _, s := range synergies {
		complete := true
		for _, id := range s.Items {
			if !p.HasActiveItem(id, now) {
				complete = false
				break
			}
		}
		if complete {
			active = append(active, s.ID)
		}
	}
	return active
}

// HasSynergy reports whether a specific synergy set is fully active.
func HasSynergy(p *domain.Player, synergyID string, now time.Time) bool {
	for _, s := range synergies {
		if s.ID != synergyID {
			continue
		}
		for _, id := range s.Items {
			if !p.HasActiveItem(id, now) {
				return false
			}
		}
		return true
	}
	return false
}
