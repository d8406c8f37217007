package economy

import (
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/item"
)

// Theft mechanics.
const (
	TheftBaseChance      = 0.40 // base success probability
	TheftLevelPenalty    = 0.05 // per level the target is above the thief
	TheftMinChance       = 0.10
	TheftMaxChance       = 0.80
	TheftStealPercent    = 0.10 // of target's current aura
	TheftMaxStealAmount  = 5000
	TheftFailPenaltyPct  = 0.05 // of thief's own aura
	TheftCooldown        = time.Hour
	TheftRestoreDelay    = time.Hour // temporal anchor restoration
	TheftMagnetBonus     = 0.15
	TheftLensBonus       = 0.10
	TheftStealthSetBonus = 0.10
	TheftExtractorFactor = 1.5
	TheftVoidWalkerBonus = 1.1
)

// Duel mechanics.
const (
	DuelStakePercent   = 0.05 // of the lower player's aura
	DuelMinStake       = 100
	DuelMaxStake       = 5000
	DuelLevelAdvantage = 0.10 // win probability shift per level difference
	DuelCooldown       = 10 * time.Minute
)

// dailyRewards is the fixed 7-entry streak reward table.
var dailyRewards = [7]int64{100, 150, 225, 300, 400, 500, 1000}

// MinigameRewardRange is the payout band for one minigame type.
type MinigameRewardRange struct {
	Min int64
	Max int64
}

// MinigameRewards maps minigame ids to their payout bands.
var MinigameRewards = map[string]MinigameRewardRange{
	"wordscramble": {Min: 100, Max: 300},
	"commandchain": {Min: 150, Max: 450},
	"aurapuzzle":   {Min: 200, Max: 600},
	"reaction":     {Min: 50, Max: 150},
}

// DailyReward looks up the streak reward, clamping streak into [1,7].
func DailyReward(streak int) int64 {
	if streak < 1 {
		streak = 1
	}
	if streak > 7 {
		streak = 7
	}
	return dailyRewards[streak-1]
}

// BoostMultiplier returns the "+X% all gains" factor from the player's
// active items and synergies.
func BoostMultiplier(p *domain.Player, now time.Time) float64 {
	mult := 1.0
	if p.HasActiveItem(item.AuraCatalyst, now) {
		mult += 0.25
	}
	if p.HasActiveItem(item.AuraCrown, now) {
		mult += 0.50
	}
	if item.HasSynergy(p, domain.SynergyCatalystNetwork, now) {
		mult += 0.15
	}
	return mult
}

// ApplyBoost scales a base gain by the player's boost multiplier,
// rounding down.
func ApplyBoost(base int64, p *domain.Player, now time.Time) int64 {
	return int64(float64(base) * BoostMultiplier(p, now))
}

// TheftChance computes the probability that thief succeeds against
// target, clamped to [TheftMinChance, TheftMaxChance].
func TheftChance(thief, target *domain.Player, now time.Time) float64 {
	chance := TheftBaseChance

	levelDiff := float64(target.Level() - thief.Level())
	chance -= levelDiff * TheftLevelPenalty

	if thief.HasActiveItem(item.AuraMagnet, now) {
		chance += TheftMagnetBonus
	}
	if thief.HasActiveItem(item.PrecisionLens, now) {
		chance += TheftLensBonus
	}
	if item.HasSynergy(thief, domain.SynergyStealthSet, now) {
		chance += TheftStealthSetBonus
	}
	if item.HasSynergy(thief, domain.SynergyMasterThief, now) && levelDiff > 0 {
		// Master Thief softens the level penalty by 60%.
		chance += levelDiff * 0.03
	}

	if chance < TheftMinChance {
		chance = TheftMinChance
	}
	if chance > TheftMaxChance {
		chance = TheftMaxChance
	}
	return chance
}

// TheftAmount computes how much aura a successful theft transfers.
func TheftAmount(thief, target *domain.Player, now time.Time) int64 {
	amount := int64(float64(target.Aura) * TheftStealPercent)

	if thief.HasActiveItem(item.VoidExtractor, now) {
		amount = int64(float64(amount) * TheftExtractorFactor)
	}
	if item.HasSynergy(thief, domain.SynergyVoidWalker, now) {
		amount = int64(float64(amount) * TheftVoidWalkerBonus)
	}

	if amount > TheftMaxStealAmount {
		amount = TheftMaxStealAmount
	}
	return amount
}

// TheftPenalty is the aura lost by the thief on a failed or reflected
// attempt.
func TheftPenalty(thief *domain.Player) int64 {
	return int64(float64(thief.Aura) * TheftFailPenaltyPct)
}

// DuelStake is 5% of the lower of the two players' aura, clamped to
// [DuelMinStake, DuelMaxStake].
func DuelStake(a, b *domain.Player) int64 {
	lower := a.Aura
	if b.Aura < lower {
		lower = b.Aura
	}
	stake := int64(float64(lower) * DuelStakePercent)
	if stake < DuelMinStake {
		stake = DuelMinStake
	}
	if stake > DuelMaxStake {
		stake = DuelMaxStake
	}
	return stake
}

// LevelAdvantage shifts the even duel odds by 10 percentage points
// per level the initiator is above the opponent.
func LevelAdvantage(initiatorLevel, opponentLevel int) float64 {
	return float64(initiatorLevel-opponentLevel) * DuelLevelAdvantage
}

// DuelWinChance is the initiator's win probability: even odds shifted
// by the level advantage, clamped to [0, 1]. A 5-level edge wins
// outright.
func DuelWinChance(initiatorLevel, opponentLevel int) float64 {
	chance := 0.5 + LevelAdvantage(initiatorLevel, opponentLevel)
	if chance < 0 {
		chance = 0
	}
	if chance > 1 {
		chance = 1
	}
	return chance
}

// MinigameReward maps a score fraction onto the minigame's payout band
// and applies the player's gain boost.
func MinigameReward(minigameID string, score, maxScore int, p *domain.Player, now time.Time) int64 {
	band, ok := MinigameRewards[minigameID]
	if !ok || maxScore <= 0 {
		return 0
	}
	frac := float64(score) / float64(maxScore)
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}
	base := band.Min + int64(frac*float64(band.Max-band.Min))
	return ApplyBoost(base, p, now)
}

// CooldownDuration applies the time_crystal reduction to a base
// cooldown: 50% while active, 75% with the time_weaver synergy.
func CooldownDuration(base time.Duration, p *domain.Player, now time.Time) time.Duration {
	if item.HasSynergy(p, domain.SynergyTimeWeaver, now) {
		return base / 4
	}
	if p.HasActiveItem(item.TimeCrystal, now) {
		return base / 2
	}
	return base
}
