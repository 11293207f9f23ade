package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

const patchAttempts = 3

// RedisCache holds per-restaurant order lists guarded by a version counter,
// plus pending password-recovery codes.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

var (
	_ service.OrderCache = (*RedisCache)(nil)
	_ service.OTPStore   = (*RedisCache)(nil)
)

func orderListKey(restaurantID int) string {
	return "orders:list:" + strconv.Itoa(restaurantID)
}

func orderVersionKey(restaurantID int) string {
	return "orders:version:" + strconv.Itoa(restaurantID)
}

func (c *RedisCache) Version(ctx context.Context, restaurantID int) (int64, error) {
	v, err := c.Client.Get(ctx, orderVersionKey(restaurantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisCache) Orders(ctx context.Context, restaurantID int) ([]domain.Order, bool, error) {
	raw, err := c.Client.Get(ctx, orderListKey(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, false, nil
	}
	return orders, true, nil
}

func (c *RedisCache) StoreOrders(ctx context.Context, restaurantID int, version int64, orders []domain.Order) (bool, error) {
	payload, err := json.Marshal(orders)
	if err != nil {
		return false, err
	}

	versionKey := orderVersionKey(restaurantID)
	stored := false
	err = c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, orderListKey(restaurantID), payload, c.TTL)
			return nil
		})
		stored = err == nil
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// PatchStatus rewrites one order's status inside the cached list and bumps
// the version. A list that does not contain the order is dropped instead.
func (c *RedisCache) PatchStatus(ctx context.Context, restaurantID, orderID int, status domain.OrderStatus) error {
	listKey := orderListKey(restaurantID)
	versionKey := orderVersionKey(restaurantID)

	patch := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, listKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		var payload []byte
		if err == nil {
			var orders []domain.Order
			if json.Unmarshal(raw, &orders) == nil {
				for i := range orders {
					if orders[i].ID == orderID {
						orders[i].Status = status
						payload, _ = json.Marshal(orders)
						break
					}
				}
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if payload != nil {
				pipe.Set(ctx, listKey, payload, redis.KeepTTL)
			} else {
				pipe.Del(ctx, listKey)
			}
			pipe.Incr(ctx, versionKey)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < patchAttempts; attempt++ {
		err = c.Client.Watch(ctx, patch, listKey, versionKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}

	pipe := c.Client.TxPipeline()
	pipe.Del(ctx, listKey)
	pipe.Incr(ctx, versionKey)
	_, err = pipe.Exec(ctx)
	return err
}

func otpKey(email string) string {
	return "otp:recovery:" + email
}

func (c *RedisCache) SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	return c.Client.Set(ctx, otpKey(email), code, ttl).Err()
}

func (c *RedisCache) OTP(ctx context.Context, email string) (string, error) {
	code, err := c.Client.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (c *RedisCache) DeleteOTP(ctx context.Context, email string) error {
	return c.Client.Del(ctx, otpKey(email)).Err()
}
