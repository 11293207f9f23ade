package service

import (
	"context"
	"time"

	"kantin-dashboard/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type CounterStore interface {
	// RecordCompletion adds the order to the day's counters and reports
	// false when the order was already counted.
	RecordCompletion(ctx context.Context, day string, event domain.StatusEvent) (bool, error)
	ReplaceDay(ctx context.Context, day string, figures []domain.DailyFigure) error
}

type DailySource interface {
	CompletedTotals(ctx context.Context, from, to time.Time) ([]domain.DailyFigure, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, event domain.StatusEvent) error
}
