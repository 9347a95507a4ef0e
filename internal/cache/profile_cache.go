package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProfileCache maintains each participant's running total score in Redis.
// Increments are keyed by response id so duplicate delivery of the same
// submission side effect cannot double-count.
type ProfileCache interface {
	// AddScore applies the score for a response exactly once. The returned
	// bool reports whether this call applied the increment.
	AddScore(ctx context.Context, participantID, responseID string, score int) (bool, error)
	TotalScore(ctx context.Context, participantID string) (int64, error)
}

type profileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a new profile cache.
func NewProfileCache(client *redis.Client) ProfileCache {
	return &profileCache{
		client: client,
		ttl:    30 * 24 * time.Hour, // outlives any tournament
	}
}

func (c *profileCache) seenKey(responseID string) string {
	return fmt.Sprintf("profile:seen:%s", responseID)
}

func (c *profileCache) scoreKey(participantID string) string {
	return fmt.Sprintf("profile:%s:score", participantID)
}

func (c *profileCache) AddScore(ctx context.Context, participantID, responseID string, score int) (bool, error) {
	applied, err := c.client.SetNX(ctx, c.seenKey(responseID), 1, c.ttl).Result()
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}
	if err := c.client.IncrBy(ctx, c.scoreKey(participantID), int64(score)).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (c *profileCache) TotalScore(ctx context.Context, participantID string) (int64, error) {
	total, err := c.client.Get(ctx, c.scoreKey(participantID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return total, err
}
