package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/session"

	"go.uber.org/zap"
)

type OrderService struct {
	repo      OrderRepository
	cache     OrderCache
	publisher StatusPublisher
	qr        QRGenerator
	ledger    LoyaltyLedger
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(repo OrderRepository, cache OrderCache, publisher StatusPublisher, qr QRGenerator, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		qr:        qr,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *OrderService) List(ctx context.Context, id session.Identity, filter domain.OrderFilter) ([]domain.Order, error) {
	if !id.HasRestaurant() {
		return []domain.Order{}, nil
	}
	if !filter.IsZero() || s.cache == nil {
		return s.repo.ListOrders(ctx, id.RestaurantID, filter)
	}

	if !filter.Fresh {
		cached, ok, err := s.cache.Orders(ctx, id.RestaurantID)
		if err != nil {
			s.logger.Warn("order cache read failed", zap.Int("restaurant_id", id.RestaurantID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	// Read the version before the query so a transition that lands while the
	// query is in flight invalidates this fill.
	version, versionErr := s.cache.Version(ctx, id.RestaurantID)

	orders, err := s.repo.ListOrders(ctx, id.RestaurantID, filter)
	if err != nil {
		return nil, err
	}

	if versionErr == nil {
		stored, err := s.cache.StoreOrders(ctx, id.RestaurantID, version, orders)
		switch {
		case err != nil:
			s.logger.Warn("order cache fill failed", zap.Int("restaurant_id", id.RestaurantID), zap.Error(err))
		case !stored:
			s.logger.Debug("discarded stale order list", zap.Int("restaurant_id", id.RestaurantID))
		}
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id session.Identity, orderID int) (*domain.Order, error) {
	if !id.HasRestaurant() {
		return nil, ErrOrderNotFound
	}
	if s.cache != nil {
		if cached, ok, err := s.cache.Orders(ctx, id.RestaurantID); err == nil && ok {
			for i := range cached {
				if cached[i].ID == orderID {
					return &cached[i], nil
				}
			}
		}
	}
	return s.repo.GetOrder(ctx, id.RestaurantID, orderID)
}

// UpdateStatus moves an order along the status graph and applies the loyalty
// coin effect in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, id session.Identity, orderID int, to domain.OrderStatus) (*domain.Order, error) {
	if !id.HasRestaurant() {
		return nil, ErrOrderNotFound
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	var (
		updated *domain.Order
		from    domain.OrderStatus
		delta   int
		balance int
	)
	err := s.repo.WithinTx(ctx, func(tx OrderTx) error {
		order, err := tx.LockOrder(ctx, id.RestaurantID, orderID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(order.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
		}

		rows, err := tx.UpdateStatus(ctx, order.ID, order.Status, to)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if rows == 0 {
			return ErrStatusConflict
		}

		delta = s.ledger.Delta(order, to)
		if balance, err = s.ledger.Apply(ctx, tx, order.CustomerID, delta); err != nil {
			return err
		}

		from = order.Status
		order.Status = to
		updated = order
		return nil
	})
	if errors.Is(err, ErrCommitUnknown) {
		return nil, &PartialUpdateError{OrderID: orderID, Target: to, Err: err}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.Int("order_id", updated.ID),
		zap.Int("restaurant_id", updated.RestaurantID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("coin_delta", delta),
		zap.Int("coin_balance", balance))

	s.afterCommit(ctx, updated, from, delta)
	return updated, nil
}

func (s *OrderService) afterCommit(ctx context.Context, order *domain.Order, from domain.OrderStatus, delta int) {
	if s.cache != nil {
		if err := s.cache.PatchStatus(ctx, order.RestaurantID, order.ID, order.Status); err != nil {
			s.logger.Warn("order cache patch failed", zap.Int("order_id", order.ID), zap.Error(err))
		}
	}
	if s.publisher == nil {
		return
	}
	event := domain.StatusEvent{
		Type:         domain.StatusChangedEvent,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		CustomerID:   order.CustomerID,
		From:         from,
		To:           order.Status,
		Total:        order.Total,
		CoinDelta:    delta,
		PlacedAt:     order.CreatedAt,
		Timestamp:    s.now(),
	}
	if err := s.publisher.PublishStatusChange(ctx, event); err != nil {
		s.logger.Warn("status event publish failed", zap.Int("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) QRCode(ctx context.Context, id session.Identity, orderID int) ([]byte, error) {
	order, err := s.Get(ctx, id, orderID)
	if err != nil {
		return nil, err
	}
	return s.qr.Generate(order.ID)
}

// Publishers fans a status event out to several sinks.
type Publishers []StatusPublisher

func (p Publishers) PublishStatusChange(ctx context.Context, event domain.StatusEvent) error {
	var errs []error
	for _, publisher := range p {
		if err := publisher.PublishStatusChange(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
