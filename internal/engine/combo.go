package engine

import (
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
)

// ComboTimeout is the idle gap that wipes a partial combo.
const ComboTimeout = 10 * time.Second

// defaultCombos is the registered combo list. Order matters: when a
// buffer suffix could complete more than one combo, the first
// registered match wins.
var defaultCombos = []domain.Combo{
	{
		Name:     "Energy Surge",
		Sequence: []string{"focus", "channel", "release"},
		Reward:   250,
		Message:  "You performed an Energy Surge combo! +{reward} Aura",
		Effect:   "energy_burst",
	},
	{
		Name:     "Aura Extraction",
		Sequence: []string{"inspect", "analyze", "harvest"},
		Reward:   300,
		Message:  "You performed an Aura Extraction combo! +{reward} Aura",
		Effect:   "extraction_spiral",
	},
	{
		Name:     "Inner Awakening",
		Sequence: []string{"meditate", "visualize", "manifest"},
		Reward:   400,
		Message:  "You performed an Inner Awakening combo! +{reward} Aura",
		Effect:   "awakening_glow",
	},
}

// Combos returns the registered combo list.
func Combos() []domain.Combo {
	return defaultCombos
}

// ComboTracker buffers combo tokens for one session and detects
// completed sequences. Matching is on the comma-joined buffer suffix,
// so stray tokens before a clean sequence do not spoil it.
type ComboTracker struct {
	combos []domain.Combo
	buffer []string
	lastAt time.Time
}

// NewComboTracker creates a tracker over the given registered combos.
func NewComboTracker(combos []domain.Combo) *ComboTracker {
	return &ComboTracker{combos: combos}
}

// Track records a token at now and reports a completed combo. The
// timeout is evaluated before the token is appended: a late token
// starts a fresh buffer rather than extending a stale one. A match
// clears the buffer.
func (t *ComboTracker) Track(token string, now time.Time) (domain.Combo, bool) {
	if len(t.buffer) > 0 && now.Sub(t.lastAt) > ComboTimeout {
		t.buffer = t.buffer[:0]
	}
	t.buffer = append(t.buffer, token)
	t.lastAt = now

	joined := strings.Join(t.buffer, ",")
	for _, c := range t.combos {
		if strings.HasSuffix(joined, strings.Join(c.Sequence, ",")) {
			t.buffer = t.buffer[:0]
			return c, true
		}
	}
	return domain.Combo{}, false
}

// Reset clears the partial buffer.
func (t *ComboTracker) Reset() {
	t.buffer = t.buffer[:0]
}

// comboTokens returns the distinct tokens appearing in any registered
// sequence, in first-seen order.
func comboTokens(combos []domain.Combo) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, c := range combos {
		for _, tok := range c.Sequence {
			if !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}
