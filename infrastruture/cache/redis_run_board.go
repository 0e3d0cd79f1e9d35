package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/service/i"
	"github.com/redis/go-redis/v9"
)

// RedisRunBoard ranks won runs of each maze by step count in a sorted set.
type RedisRunBoard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRunBoard initializes a RedisRunBoard. A board expires ttlSeconds
// after its first run; zero keeps it forever.
func NewRedisRunBoard(client *redis.Client, prefix string, ttlSeconds int) *RedisRunBoard {
	return &RedisRunBoard{
		client: client,
		prefix: prefix,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (b *RedisRunBoard) boardKey(maze string) string {
	return fmt.Sprintf("%s:runs:%s", b.prefix, maze)
}

// Record adds a run scored by its steps and sets expiration if necessary.
func (b *RedisRunBoard) Record(ctx context.Context, run i.Run) error {
	member, err := json.Marshal(run)
	if err != nil {
		return err
	}

	key := b.boardKey(run.Maze)
	if err := b.client.ZAdd(ctx, key, redis.Z{Score: float64(run.Steps), Member: string(member)}).Err(); err != nil {
		return err
	}

	// Set expiration only if it's not already set
	if b.ttl > 0 {
		ttl, err := b.client.TTL(ctx, key).Result()
		if err == nil && ttl == -1 {
			_ = b.client.Expire(ctx, key, b.ttl).Err()
		}
	}
	return nil
}

// Best returns up to n runs of maze with the fewest steps first.
func (b *RedisRunBoard) Best(ctx context.Context, maze string, n int64) ([]i.Run, error) {
	if n <= 0 {
		return nil, nil
	}

	members, err := b.client.ZRangeWithScores(ctx, b.boardKey(maze), 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	runs := make([]i.Run, 0, len(members))
	for _, m := range members {
		var run i.Run
		if err := json.Unmarshal([]byte(m.Member.(string)), &run); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Count returns the number of runs recorded for maze.
func (b *RedisRunBoard) Count(ctx context.Context, maze string) (int64, error) {
	return b.client.ZCard(ctx, b.boardKey(maze)).Result()
}
