package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type RestaurantLookup interface {
	// RestaurantIDByOwner returns ErrNoRestaurantForOwner when the account
	// owns nothing.
	RestaurantIDByOwner(ctx context.Context, accountID string) (int, error)
}

type IdentityCache interface {
	CachedRestaurant(ctx context.Context, accountID string) (int, bool, error)
	CacheRestaurant(ctx context.Context, accountID string, restaurantID int) error
	ForgetRestaurant(ctx context.Context, accountID string) error
}

type Resolver struct {
	lookup RestaurantLookup
	cache  IdentityCache
	logger *zap.Logger
}

func NewResolver(lookup RestaurantLookup, cache IdentityCache, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{lookup: lookup, cache: cache, logger: logger}
}

// Resolve maps an account to its restaurant. The returned Identity is usable
// even when err is ErrNoRestaurantForOwner.
func (r *Resolver) Resolve(ctx context.Context, accountID string) (Identity, error) {
	identity := Identity{AccountID: accountID}
	if accountID == "" {
		return identity, ErrNotAuthenticated
	}

	if r.cache != nil {
		id, found, err := r.cache.CachedRestaurant(ctx, accountID)
		if err != nil {
			r.logger.Warn("identity cache read failed", zap.String("account_id", accountID), zap.Error(err))
		} else if found {
			identity.RestaurantID = id
			if id == 0 {
				return identity, ErrNoRestaurantForOwner
			}
			return identity, nil
		}
	}

	id, err := r.lookup.RestaurantIDByOwner(ctx, accountID)
	switch {
	case errors.Is(err, ErrNoRestaurantForOwner):
		id = 0
	case err != nil:
		return identity, fmt.Errorf("resolve restaurant: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CacheRestaurant(ctx, accountID, id); err != nil {
			r.logger.Warn("identity cache write failed", zap.String("account_id", accountID), zap.Error(err))
		}
	}

	identity.RestaurantID = id
	if id == 0 {
		return identity, ErrNoRestaurantForOwner
	}
	return identity, nil
}

// Invalidate drops the cached mapping so the next request re-resolves.
func (r *Resolver) Invalidate(ctx context.Context, accountID string) error {
	if r.cache == nil || accountID == "" {
		return nil
	}
	return r.cache.ForgetRestaurant(ctx, accountID)
}
