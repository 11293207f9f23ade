package session

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type PostgresLookup struct {
	DB *sql.DB
}

func NewPostgresLookup(db *sql.DB) *PostgresLookup {
	return &PostgresLookup{DB: db}
}

func (l *PostgresLookup) RestaurantIDByOwner(ctx context.Context, accountID string) (int, error) {
	var id int
	err := l.DB.QueryRowContext(ctx, `
		SELECT id FROM restaurants
		WHERE owner_id = $1
		ORDER BY id
		LIMIT 1
	`, accountID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoRestaurantForOwner
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// RedisStore keeps the account -> restaurant cache and token revocations.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func restaurantKey(accountID string) string { return "session:restaurant:" + accountID }
func revokedKey(tokenID string) string      { return "session:revoked:" + tokenID }
func cutoffKey(accountID string) string     { return "session:cutoff:" + accountID }

func (s *RedisStore) CachedRestaurant(ctx context.Context, accountID string) (int, bool, error) {
	raw, err := s.Client.Get(ctx, restaurantKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

func (s *RedisStore) CacheRestaurant(ctx context.Context, accountID string, restaurantID int) error {
	return s.Client.Set(ctx, restaurantKey(accountID), strconv.Itoa(restaurantID), s.TTL).Err()
}

func (s *RedisStore) ForgetRestaurant(ctx context.Context, accountID string) error {
	return s.Client.Del(ctx, restaurantKey(accountID)).Err()
}

// Revoke blocks a single token until it would have expired anyway.
func (s *RedisStore) Revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.Client.Set(ctx, revokedKey(claims.ID), "1", ttl).Err()
}

// RevokeAll blocks every token of the account issued at or before at, to the
// millisecond.
func (s *RedisStore) RevokeAll(ctx context.Context, accountID string, at time.Time, maxTokenTTL time.Duration) error {
	return s.Client.Set(ctx, cutoffKey(accountID), strconv.FormatInt(at.UnixMilli(), 10), maxTokenTTL).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	n, err := s.Client.Exists(ctx, revokedKey(claims.ID)).Result()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	raw, err := s.Client.Get(ctx, cutoffKey(claims.Subject)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || claims.IssuedAt == nil {
		return false, nil
	}
	return claims.IssuedAt.UnixMilli() <= cutoff, nil
}
