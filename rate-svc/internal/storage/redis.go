package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"kantin-dashboard/rate-svc/internal/domain"
	"kantin-dashboard/rate-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

var _ service.SummaryCache = (*RedisCache)(nil)

func summaryKey(restaurantID int) string {
	return "ratings:summary:" + strconv.Itoa(restaurantID)
}

func (c *RedisCache) Summary(ctx context.Context, restaurantID int) (domain.Summary, bool, error) {
	raw, err := c.Client.Get(ctx, summaryKey(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Summary{}, false, nil
	}
	if err != nil {
		return domain.Summary{}, false, err
	}
	var summary domain.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return domain.Summary{}, false, nil
	}
	return summary, true, nil
}

func (c *RedisCache) StoreSummary(ctx context.Context, restaurantID int, summary domain.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, summaryKey(restaurantID), payload, c.TTL).Err()
}
