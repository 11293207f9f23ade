package service

import (
	"context"
	"fmt"
	"math"

	"kantin-dashboard/dashboard-svc/internal/domain"
)

// Orders of at least this total earn 1% back in coins on completion.
const completionCreditThreshold = 10000

// LoyaltyLedger derives and applies coin balance changes caused by order
// status transitions.
type LoyaltyLedger struct{}

// Delta returns the signed coin change for moving order to the target status.
// Cancellation refunds spent coins; completion without spent coins credits
// floor(total/100) when the total reaches the threshold.
func (LoyaltyLedger) Delta(order *domain.Order, to domain.OrderStatus) int {
	switch to {
	case domain.StatusCancelled:
		if order.UsedCoin > 0 {
			return order.UsedCoin
		}
	case domain.StatusCompleted:
		if order.UsedCoin == 0 && order.Total >= completionCreditThreshold {
			return int(math.Floor(order.Total / 100))
		}
	}
	return 0
}

// Apply increments the customer's balance by delta through store. A zero
// delta touches nothing.
func (LoyaltyLedger) Apply(ctx context.Context, store CoinStore, customerID string, delta int) (int, error) {
	if delta == 0 {
		return 0, nil
	}
	if customerID == "" {
		return 0, ErrCustomerNotFound
	}
	balance, err := store.IncrementCoins(ctx, customerID, delta)
	if err != nil {
		return 0, fmt.Errorf("adjust coins for %s: %w", customerID, err)
	}
	return balance, nil
}
