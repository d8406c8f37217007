package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// leaderboardKey is the sorted set holding aura scores.
const leaderboardKey = "aura:leaderboard"

// RedisProvider keeps the ranking in a Redis sorted set so multiple
// engine instances see one consistent board.
type RedisProvider struct {
	client *redis.Client
}

// NewRedisProvider connects to Redis and verifies the connection.
func NewRedisProvider(ctx context.Context, addr, password string, db int) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &RedisProvider{client: client}, nil
}

// Close closes the Redis connection.
func (p *RedisProvider) Close() error {
	return p.client.Close()
}

// SetScore writes a player's absolute aura score.
func (p *RedisProvider) SetScore(ctx context.Context, playerID string, aura int64) error {
	err := p.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(aura),
		Member: playerID,
	}).Err()
	if err != nil {
		return fmt.Errorf("setting score: %w", err)
	}
	return nil
}

// TopN returns the highest n scores in descending order.
func (p *RedisProvider) TopN(ctx context.Context, n int) ([]Score, error) {
	results, err := p.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("getting top n: %w", err)
	}

	scores := make([]Score, len(results))
	for i, result := range results {
		id, _ := result.Member.(string)
		scores[i] = Score{PlayerID: id, Aura: int64(result.Score)}
	}
	return scores, nil
}

// Rank returns a player's 1-indexed rank; ok is false when the player
// is not on the board.
func (p *RedisProvider) Rank(ctx context.Context, playerID string) (int, bool, error) {
	rank, err := p.client.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("getting rank: %w", err)
	}
	return int(rank) + 1, true, nil
}

// Remove drops a player from the board.
func (p *RedisProvider) Remove(ctx context.Context, playerID string) error {
	if err := p.client.ZRem(ctx, leaderboardKey, playerID).Err(); err != nil {
		return fmt.Errorf("removing player: %w", err)
	}
	return nil
}
