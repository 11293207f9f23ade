package storage

import (
	"context"
	"strconv"

	"kantin-dashboard/config"
	"kantin-dashboard/sales-svc/internal/domain"
	"kantin-dashboard/sales-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

type RedisCounters struct {
	Client *redis.Client
}

func NewRedisCounters(client *redis.Client) *RedisCounters {
	return &RedisCounters{Client: client}
}

var _ service.DailyCounters = (*RedisCounters)(nil)

func (c *RedisCounters) DailyCounter(ctx context.Context, restaurantID int, day string) (domain.Daily, bool, error) {
	fields, err := c.Client.HGetAll(ctx, config.DailySalesKey(day, restaurantID)).Result()
	if err != nil {
		return domain.Daily{}, false, err
	}
	if len(fields) == 0 {
		return domain.Daily{}, false, nil
	}
	total, _ := strconv.ParseFloat(fields["total"], 64)
	count, _ := strconv.Atoi(fields["count"])
	return domain.Daily{Date: day, Total: total, OrderCount: count}, true, nil
}
