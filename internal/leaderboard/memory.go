package leaderboard

import (
	"context"
	"sort"
	"sync"
)

// MemoryProvider is an in-process ranking backend for single-node runs
// and tests.
type MemoryProvider struct {
	mu     sync.RWMutex
	scores map[string]int64
}

// NewMemoryProvider creates an empty in-memory board.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{scores: make(map[string]int64)}
}

// SetScore writes a player's absolute aura score.
func (p *MemoryProvider) SetScore(_ context.Context, playerID string, aura int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scores[playerID] = aura
	return nil
}

// sorted returns all scores ordered by aura descending, ties by id so
// ordering is stable.
func (p *MemoryProvider) sorted() []Score {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Score, 0, len(p.scores))
	for id, aura := range p.scores {
		out = append(out, Score{PlayerID: id, Aura: aura})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Aura != out[j].Aura {
			return out[i].Aura > out[j].Aura
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// TopN returns the highest n scores in descending order.
func (p *MemoryProvider) TopN(_ context.Context, n int) ([]Score, error) {
	all := p.sorted()
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Rank returns a player's 1-indexed rank.
func (p *MemoryProvider) Rank(_ context.Context, playerID string) (int, bool, error) {
	for i, s := range p.sorted() {
		if s.PlayerID == playerID {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

// Remove drops a player from the board.
func (p *MemoryProvider) Remove(_ context.Context, playerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.scores, playerID)
	return nil
}

// Close is a no-op for the memory backend.
func (p *MemoryProvider) Close() error {
	return nil
}
