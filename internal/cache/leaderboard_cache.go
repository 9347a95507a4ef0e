package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spin2win/internal/model"
)

// LeaderboardCache holds short-lived pages of the computed leaderboard. The
// ledger stays authoritative: pages expire within seconds and every
// submission bumps the version so stale pages are never served after a
// score change.
type LeaderboardCache interface {
	// GetPage returns a cached page, or nil on miss.
	GetPage(ctx context.Context, limit, page int) (*model.Leaderboard, error)
	SetPage(ctx context.Context, limit, page int, lb *model.Leaderboard) error
	Invalidate(ctx context.Context) error
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard page cache.
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) LeaderboardCache {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &leaderboardCache{client: client, ttl: ttl}
}

const versionKey = "lb:ver"

func (c *leaderboardCache) pageKey(ctx context.Context, limit, page int) (string, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("lb:%d:%d:%d", ver, limit, page), nil
}

func (c *leaderboardCache) GetPage(ctx context.Context, limit, page int) (*model.Leaderboard, error) {
	key, err := c.pageKey(ctx, limit, page)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lb model.Leaderboard
	if err := json.Unmarshal([]byte(data), &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}

func (c *leaderboardCache) SetPage(ctx context.Context, limit, page int, lb *model.Leaderboard) error {
	key, err := c.pageKey(ctx, limit, page)
	if err != nil {
		return err
	}
	data, err := json.Marshal(lb)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *leaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}
