package storage

import (
	"context"
	"strconv"
	"time"

	"kantin-dashboard/agg-svc/internal/domain"
	"kantin-dashboard/agg-svc/internal/service"
	"kantin-dashboard/config"

	"github.com/redis/go-redis/v9"
)

const CounterRetention = 7 * 24 * time.Hour

// recordCompletion sets the per-order marker and bumps the day hash in one
// round trip so a redelivered event cannot be counted twice.
var recordCompletion = redis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX', 'EX', ARGV[3]) then
	return 0
end
redis.call('HINCRBYFLOAT', KEYS[2], 'total', ARGV[2])
redis.call('HINCRBY', KEYS[2], 'count', 1)
redis.call('EXPIRE', KEYS[2], ARGV[3])
return 1
`)

type RedisCounters struct {
	Client    *redis.Client
	Retention time.Duration
}

func NewRedisCounters(client *redis.Client, retention time.Duration) *RedisCounters {
	return &RedisCounters{Client: client, Retention: retention}
}

var _ service.CounterStore = (*RedisCounters)(nil)

func countedKey(orderID int) string {
	return "sales:counted:" + strconv.Itoa(orderID)
}

func (s *RedisCounters) RecordCompletion(ctx context.Context, day string, event domain.StatusEvent) (bool, error) {
	keys := []string{countedKey(event.OrderID), config.DailySalesKey(day, event.RestaurantID)}
	added, err := recordCompletion.Run(ctx, s.Client, keys,
		day,
		strconv.FormatFloat(event.Total, 'f', -1, 64),
		int(s.Retention.Seconds()),
	).Int()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

// ReplaceDay overwrites the day's hashes with the given figures and marks
// every order they include as counted, so a later event for one of them is
// not added on top.
func (s *RedisCounters) ReplaceDay(ctx context.Context, day string, figures []domain.DailyFigure) error {
	if len(figures) == 0 {
		return nil
	}
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, f := range figures {
			key := config.DailySalesKey(day, f.RestaurantID)
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key,
				"total", strconv.FormatFloat(f.Total, 'f', -1, 64),
				"count", f.Count)
			pipe.Expire(ctx, key, s.Retention)
			for _, orderID := range f.OrderIDs {
				pipe.SetNX(ctx, countedKey(int(orderID)), day, s.Retention)
			}
		}
		return nil
	})
	return err
}
