package service

import (
	"context"
	"time"

	"kantin-dashboard/sales-svc/internal/domain"
	"kantin-dashboard/session"
)

type SalesServiceInterface interface {
	Summary(ctx context.Context, id session.Identity, month time.Time) (domain.Summary, error)
	Daily(ctx context.Context, id session.Identity) (domain.Daily, error)
	Report(ctx context.Context, id session.Identity) (domain.Report, error)
}

// OrderReader returns the restaurant's COMPLETED orders created in [from, to).
type OrderReader interface {
	CompletedOrders(ctx context.Context, restaurantID int, from, to time.Time) ([]domain.CompletedOrder, error)
}

// DailyCounters exposes the per-day figures maintained by the aggregator.
type DailyCounters interface {
	DailyCounter(ctx context.Context, restaurantID int, day string) (domain.Daily, bool, error)
}

var _ SalesServiceInterface = (*SalesService)(nil)
