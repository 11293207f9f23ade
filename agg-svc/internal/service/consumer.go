package service

import (
	"context"
	"encoding/json"
	"time"

	"kantin-dashboard/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const fetchRetryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Store  CounterStore
	loc    *time.Location
	logger *zap.Logger
}

func NewConsumer(reader MessageReader, store CounterStore, loc *time.Location, logger *zap.Logger) *Consumer {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{Reader: reader, Store: store, loc: loc, logger: logger}
}

var _ ConsumerInterface = (*Consumer)(nil)

// Start reads order events until ctx is cancelled. A message is committed
// once it has been applied or found unusable; store failures leave it
// uncommitted so it is redelivered.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if ctx.Err() != nil {
			c.logger.Info("consumer stopped")
			return nil
		}
		if err != nil {
			c.logger.Error("fetch failed", zap.Error(err))
			if !sleep(ctx, fetchRetryDelay) {
				return nil
			}
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			c.logger.Error("event not applied",
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			continue
		}
		if err := c.Reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Warn("commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var event domain.StatusEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Warn("skipping malformed event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	return c.Process(ctx, event)
}

// Process counts a COMPLETED transition towards the day the order was placed.
// Every other event is ignored.
func (c *Consumer) Process(ctx context.Context, event domain.StatusEvent) error {
	if event.Type != domain.StatusChangedEvent || event.To != domain.StatusCompleted {
		return nil
	}

	day := c.dayOf(event)
	counted, err := c.Store.RecordCompletion(ctx, day, event)
	if err != nil {
		return err
	}
	if !counted {
		c.logger.Debug("order already counted", zap.Int("order_id", event.OrderID))
		return nil
	}
	c.logger.Info("completion counted",
		zap.Int("order_id", event.OrderID),
		zap.Int("restaurant_id", event.RestaurantID),
		zap.String("day", day))
	return nil
}

func (c *Consumer) dayOf(event domain.StatusEvent) string {
	at := event.PlacedAt
	if at.IsZero() {
		at = event.Timestamp
	}
	if at.IsZero() {
		at = time.Now()
	}
	return at.In(c.loc).Format("2006-01-02")
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
