// Package session authenticates dashboard requests and resolves the calling
// owner account to the restaurant it manages.
package session

import (
	"context"
	"errors"
)

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNoRestaurantForOwner = errors.New("no restaurant registered for this account")
)

// Identity is the explicit per-request context every service call receives.
// RestaurantID is zero when the account owns no restaurant.
type Identity struct {
	AccountID    string `json:"account_id"`
	RestaurantID int    `json:"restaurant_id"`
}

func (i Identity) HasRestaurant() bool {
	return i.RestaurantID > 0
}

type ctxKey int

const (
	identityKey ctxKey = iota
	claimsKey
)

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
