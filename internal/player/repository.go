package player

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/storage"
)

// Repository marshals account records in and out of the opaque
// key-value store.
type Repository struct {
	store storage.Store
}

// NewRepository wraps a store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// Save persists the full account record. Called after every mutating
// operation; repeated saves of identical data are harmless.
func (r *Repository) Save(ctx context.Context, p *domain.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal player %s: %w", p.ID, err)
	}
	if err := r.store.Save(ctx, p.ID, data); err != nil {
		return fmt.Errorf("failed to save player %s: %w", p.ID, err)
	}
	return nil
}

// Load fetches an account by id. Returns (nil, nil) when absent.
func (r *Repository) Load(ctx context.Context, id string) (*domain.Player, error) {
	data, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", id, err)
	}
	if data == nil {
		return nil, nil
	}
	var p domain.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", id, err)
	}
	if p.Cooldowns == nil {
		p.Cooldowns = map[domain.CooldownKind]time.Time{}
	}
	return &p, nil
}

// FindByName scans stored accounts for a case-insensitive display-name
// match. Returns (nil, nil) when no account matches.
func (r *Repository) FindByName(ctx context.Context, name string) (*domain.Player, error) {
	ids, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, id := range ids {
		p, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil && strings.ToLower(p.Name) == want {
			return p, nil
		}
	}
	return nil, nil
}

// All loads every stored account.
func (r *Repository) All(ctx context.Context) ([]*domain.Player, error) {
	ids, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	players := make([]*domain.Player, 0, len(ids))
	for _, id := range ids {
		p, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			players = append(players, p)
		}
	}
	return players, nil
}
