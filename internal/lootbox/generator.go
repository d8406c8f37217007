package lootbox

import (
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/item"
)

// Rarity distribution and spawn timing.
const (
	commonThreshold = 0.70 // roll < 0.70 is common
	rareThreshold   = 0.95 // roll < 0.95 is rare, else epic

	SpawnMinDelay = 15 * time.Minute
	SpawnMaxDelay = 45 * time.Minute
	DespawnAfter  = 30 * time.Second

	// DetectorLead is how far ahead of a spawn the lootbox detector
	// warns its holders.
	DetectorLead = 30 * time.Second
)

// auraRange is the guaranteed aura band for one box rarity.
type auraRange struct {
	min int64
	max int64
}

var auraRanges = map[domain.Rarity]auraRange{
	domain.RarityCommon: {min: 50, max: 200},
	domain.RarityRare:   {min: 200, max: 500},
	domain.RarityEpic:   {min: 500, max: 1000},
}

// Generator rolls lootbox rarity and contents. All randomness flows
// through the injected source so tests can pin outcomes.
type Generator struct {
	rand func() float64
}

// NewGenerator creates a generator; rnd may be nil to use the default
// source.
func NewGenerator(rnd func() float64) *Generator {
	if rnd == nil {
		rnd = defaultRand
	}
	return &Generator{rand: rnd}
}

// Roll creates a lootbox: rarity first, then a guaranteed aura reward
// in the rarity's band, then rarity-dependent item drops.
func (g *Generator) Roll(now time.Time) *domain.Lootbox {
	box := &domain.Lootbox{
		Rarity:    g.rollRarity(),
		SpawnedAt: now,
	}
	box.Rewards = append(box.Rewards, domain.LootReward{Aura: g.rollAura(box.Rarity)})
	box.Rewards = append(box.Rewards, g.rollItems(box.Rarity)...)
	return box
}

func (g *Generator) rollRarity() domain.Rarity {
	roll := g.rand()
	switch {
	case roll < commonThreshold:
		return domain.RarityCommon
	case roll < rareThreshold:
		return domain.RarityRare
	default:
		return domain.RarityEpic
	}
}

func (g *Generator) rollAura(rarity domain.Rarity) int64 {
	r := auraRanges[rarity]
	return r.min + int64(g.rand()*float64(r.max-r.min+1))
}

// rollItems applies the per-rarity drop table: independent chances per
// slot, richer boxes guarantee their first slot.
func (g *Generator) rollItems(rarity domain.Rarity) []domain.LootReward {
	var rewards []domain.LootReward
	add := func(itemRarity domain.Rarity, chance float64) {
		if chance < 1 && g.rand() >= chance {
			return
		}
		if id, ok := g.pickItem(itemRarity); ok {
			rewards = append(rewards, domain.LootReward{ItemID: id})
		}
	}

	switch rarity {
	case domain.RarityCommon:
		add(domain.RarityCommon, 0.20)
	case domain.RarityRare:
		add(domain.RarityCommon, 1)
		add(domain.RarityUncommon, 0.30)
	case domain.RarityEpic:
		add(domain.RarityUncommon, 1)
		add(domain.RarityRare, 0.50)
		add(domain.RarityEpic, 0.10)
	}
	return rewards
}

func (g *Generator) pickItem(rarity domain.Rarity) (string, bool) {
	pool := item.ByRarity(rarity)
	if len(pool) == 0 {
		return "", false
	}
	return pool[int(g.rand()*float64(len(pool)))%len(pool)].ID, true
}

// SpawnDelay rolls the uniform delay until the next lootbox spawn.
func (g *Generator) SpawnDelay() time.Duration {
	return SpawnMinDelay + time.Duration(g.rand()*float64(SpawnMaxDelay-SpawnMinDelay))
}
