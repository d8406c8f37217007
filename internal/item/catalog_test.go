package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avragame/aura-engine/internal/domain"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		wantID string
		wantOK bool
	}{
		{"exact id", "aura_shield", AuraShield, true},
		{"display name", "Aura Shield", AuraShield, true},
		{"case insensitive name", "stealth CLOAK", StealthCloak, true},
		{"surrounding whitespace", "  mirror_ward  ", MirrorWard, true},
		{"unknown ref", "excalibur", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, ok := Resolve(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, it.ID)
			}
		})
	}
}

func TestByRarityCoversCatalog(t *testing.T) {
	var total int
	for _, r := range []domain.Rarity{
		domain.RarityCommon, domain.RarityUncommon, domain.RarityRare,
		domain.RarityEpic, domain.RarityLegendary,
	} {
		total += len(ByRarity(r))
	}
	assert.Equal(t, len(All()), total, "every catalog entry belongs to exactly one rarity bucket")
}

func TestDurationFallback(t *testing.T) {
	assert.Equal(t, 6*time.Hour, Duration(StealthCloak))
	assert.Equal(t, DefaultDuration, Duration("no_such_item"))
}

func TestHasSynergy(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("complete set activates", func(t *testing.T) {
		p := domain.NewPlayer("p_1", "Mira", now)
		for _, id := range []string{StealthCloak, ShadowMask} {
			p.ActiveItems = append(p.ActiveItems, domain.ActiveItem{
				CatalogID: id,
				ExpiresAt: now.Add(time.Hour),
			})
		}
		assert.True(t, HasSynergy(p, domain.SynergyStealthSet, now))
	})

	t.Run("partial set does not", func(t *testing.T) {
		p := domain.NewPlayer("p_1", "Mira", now)
		p.ActiveItems = append(p.ActiveItems, domain.ActiveItem{
			CatalogID: StealthCloak,
			ExpiresAt: now.Add(time.Hour),
		})
		assert.False(t, HasSynergy(p, domain.SynergyStealthSet, now))
	})

	t.Run("expired member breaks the set", func(t *testing.T) {
		p := domain.NewPlayer("p_1", "Mira", now)
		p.ActiveItems = append(p.ActiveItems,
			domain.ActiveItem{CatalogID: StealthCloak, ExpiresAt: now.Add(time.Hour)},
			domain.ActiveItem{CatalogID: ShadowMask, ExpiresAt: now.Add(-time.Minute)},
		)
		assert.False(t, HasSynergy(p, domain.SynergyStealthSet, now))
	})
}

func TestActiveSynergies(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := domain.NewPlayer("p_1", "Mira", now)
	for _, id := range []string{TimeCrystal, TemporalAnchor} {
		p.ActiveItems = append(p.ActiveItems, domain.ActiveItem{
			CatalogID: id,
			ExpiresAt: now.Add(time.Hour),
		})
	}

	active := ActiveSynergies(p, now)
	require.Len(t, active, 1)
	assert.Equal(t, domain.SynergyTimeWeaver, active[0])
}
