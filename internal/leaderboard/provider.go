package leaderboard

import "context"

// Score is one ranked row as the provider stores it.
type Score struct {
	PlayerID string
	Aura     int64
}

// Provider is the ranking backend: a sorted score set keyed by player
// id. Redis backs production; the memory provider backs tests and
// single-node runs.
type Provider interface {
	SetScore(ctx context.Context, playerID string, aura int64) error
	TopN(ctx context.Context, n int) ([]Score, error)
	Rank(ctx context.Context, playerID string) (int, bool, error)
	Remove(ctx context.Context, playerID string) error
	Close() error
}
