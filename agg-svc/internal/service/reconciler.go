package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reconciler periodically rebuilds today's counters from Postgres, repairing
// increments lost to redelivery gaps or Redis restarts.
type Reconciler struct {
	Source   DailySource
	Store    CounterStore
	Interval time.Duration
	Now      func() time.Time
	loc      *time.Location
	logger   *zap.Logger
}

func NewReconciler(source DailySource, store CounterStore, interval time.Duration, loc *time.Location, logger *zap.Logger) *Reconciler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		Source:   source,
		Store:    store,
		Interval: interval,
		Now:      time.Now,
		loc:      loc,
		logger:   logger,
	}
}

// Run reconciles immediately and then on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		if err := r.ReconcileToday(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("reconcile failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Reconciler) ReconcileToday(ctx context.Context) error {
	now := r.Now().In(r.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
	to := from.AddDate(0, 0, 1)

	figures, err := r.Source.CompletedTotals(ctx, from, to)
	if err != nil {
		return err
	}
	day := from.Format("2006-01-02")
	if err := r.Store.ReplaceDay(ctx, day, figures); err != nil {
		return err
	}
	r.logger.Info("daily counters reconciled",
		zap.String("day", day),
		zap.Int("restaurants", len(figures)))
	return nil
}
