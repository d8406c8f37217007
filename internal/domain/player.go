package domain

import "time"

// StartingAura is granted to every newly registered player.
const StartingAura = 500

// MaxLevel is the highest reachable aura level.
const MaxLevel = 7

// levelBreakpoints holds the minimum aura required for each level.
// Index 0 is level 1.
var levelBreakpoints = []int64{0, 1000, 5000, 10000, 25000, 50000, 100000}

// levelRanks maps levels 1-7 to their display rank.
var levelRanks = []string{
	"Novice Seeker",
	"Aura Adept",
	"Energy Channeler",
	"Aura Mystic",
	"Aetheric Master",
	"Void Walker",
	"Aura Lord",
}

// CooldownKind identifies an activity with a per-player cooldown.
type CooldownKind string

const (
	CooldownTheft CooldownKind = "theft"
	CooldownDuel  CooldownKind = "duel"
)

// ItemInstance is an owned copy of a catalog item.
type ItemInstance struct {
	CatalogID     string    `json:"catalog_id"`
	AcquiredAt    time.Time `json:"acquired_at"`
	RemainingUses int       `json:"remaining_uses"` // -1 means unlimited
}

// ActiveItem is an item effect currently applied to a player.
// At most one entry per catalog id; re-activation extends ExpiresAt.
type ActiveItem struct {
	CatalogID string    `json:"catalog_id"`
	Effect    EffectTag `json:"effect"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notification is a pending async message for the presentation layer,
// consumed FIFO one per tick.
type Notification struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	From      string    `json:"from,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Player is the persisted account record. The whole struct serializes
// to one flat JSON document keyed by ID in the store.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Aura      int64     `json:"aura"`
	CreatedAt time.Time `json:"created_at"`

	DailyStreak    int        `json:"daily_streak"`
	LastDailyClaim string     `json:"last_daily_claim,omitempty"` // calendar day, YYYY-MM-DD
	LastClaimAt    *time.Time `json:"last_claim_at,omitempty"`

	Inventory   []ItemInstance `json:"inventory"`
	ActiveItems []ActiveItem   `json:"active_items"`

	Cooldowns map[CooldownKind]time.Time `json:"cooldowns"`

	QuestsCompleted  int `json:"quests_completed"`
	DuelsWon         int `json:"duels_won"`
	DuelsLost        int `json:"duels_lost"`
	TheftsSuccessful int `json:"thefts_successful"`
	TheftsFailed     int `json:"thefts_failed"`

	Notifications []Notification `json:"notifications"`
}

// NewPlayer creates a fresh account with the starting aura grant.
func NewPlayer(id, name string, now time.Time) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Aura:      StartingAura,
		CreatedAt: now,
		Cooldowns: map[CooldownKind]time.Time{},
	}
}

// Level derives the player's level from aura via fixed breakpoints.
func (p *Player) Level() int {
	return LevelForAura(p.Aura)
}

// Rank returns the display rank for the player's current level.
func (p *Player) Rank() string {
	return RankForLevel(p.Level())
}

// LevelForAura maps an aura amount to a level in [1, MaxLevel].
func LevelForAura(aura int64) int {
	level := 1
	for i, min := range levelBreakpoints {
		if aura >= min {
			level = i + 1
		}
	}
	return level
}

// RankForLevel returns the rank name for a level, clamping out-of-range input.
func RankForLevel(level int) string {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelRanks[level-1]
}

// AddAura credits aura. Negative amounts are ignored; use SpendAura to debit.
func (p *Player) AddAura(amount int64) {
	if amount > 0 {
		p.Aura += amount
	}
}

// SpendAura debits up to amount, clamping the balance at zero.
// Returns the amount actually removed.
func (p *Player) SpendAura(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if amount > p.Aura {
		amount = p.Aura
	}
	p.Aura -= amount
	return amount
}

// OnCooldown reports whether the activity is unavailable at now,
// and how long remains if so.
func (p *Player) OnCooldown(kind CooldownKind, now time.Time) (bool, time.Duration) {
	until, ok := p.Cooldowns[kind]
	if !ok || !now.Before(until) {
		return false, 0
	}
	return true, until.Sub(now)
}

// SetCooldown marks the activity unavailable until now+d.
func (p *Player) SetCooldown(kind CooldownKind, now time.Time, d time.Duration) {
	if p.Cooldowns == nil {
		p.Cooldowns = map[CooldownKind]time.Time{}
	}
	p.Cooldowns[kind] = now.Add(d)
}

// HasActiveItem reports whether an unexpired effect for the catalog id
// is present at now.
func (p *Player) HasActiveItem(catalogID string, now time.Time) bool {
	for _, a := range p.ActiveItems {
		if a.CatalogID == catalogID && a.ExpiresAt.After(now) {
			return true
		}
	}
	return false
}

// ActiveItemIndex returns the index of the active entry for the catalog
// id, or -1. Expired entries are not matched.
func (p *Player) ActiveItemIndex(catalogID string, now time.Time) int {
	for i, a := range p.ActiveItems {
		if a.CatalogID == catalogID && a.ExpiresAt.After(now) {
			return i
		}
	}
	return -1
}

// ConsumeActiveItem removes the active entry for the catalog id (one-shot
// effects such as a triggered shield). Returns false if not present.
func (p *Player) ConsumeActiveItem(catalogID string, now time.Time) bool {
	i := p.ActiveItemIndex(catalogID, now)
	if i == -1 {
		return false
	}
	p.ActiveItems = append(p.ActiveItems[:i], p.ActiveItems[i+1:]...)
	return true
}

// EvictExpiredItems lazily drops active entries past their expiry.
func (p *Player) EvictExpiredItems(now time.Time) {
	kept := p.ActiveItems[:0]
	for _, a := range p.ActiveItems {
		if a.ExpiresAt.After(now) {
			kept = append(kept, a)
		}
	}
	p.ActiveItems = kept
}

// PushNotification appends to the pending FIFO queue.
func (p *Player) PushNotification(n Notification) {
	p.Notifications = append(p.Notifications, n)
}

// PopNotification removes and returns the oldest pending notification.
func (p *Player) PopNotification() (Notification, bool) {
	if len(p.Notifications) == 0 {
		return Notification{}, false
	}
	n := p.Notifications[0]
	p.Notifications = p.Notifications[1:]
	return n, true
}
