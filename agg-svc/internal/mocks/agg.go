package mocks

import (
	"context"
	"time"

	"kantin-dashboard/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type CounterStore struct {
	mock.Mock
}

func NewCounterStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *CounterStore {
	m := &CounterStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CounterStore) RecordCompletion(ctx context.Context, day string, event domain.StatusEvent) (bool, error) {
	ret := _m.Called(ctx, day, event)
	return ret.Bool(0), ret.Error(1)
}

func (_m *CounterStore) ReplaceDay(ctx context.Context, day string, figures []domain.DailyFigure) error {
	ret := _m.Called(ctx, day, figures)
	return ret.Error(0)
}

type DailySource struct {
	mock.Mock
}

func NewDailySource(t interface {
	mock.TestingT
	Cleanup(func())
}) *DailySource {
	m := &DailySource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *DailySource) CompletedTotals(ctx context.Context, from, to time.Time) ([]domain.DailyFigure, error) {
	ret := _m.Called(ctx, from, to)
	var r0 []domain.DailyFigure
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.DailyFigure)
	}
	return r0, ret.Error(1)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MessageReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(kafka.Message), ret.Error(1)
}

func (_m *MessageReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	ret := _m.Called(ctx, msgs)
	return ret.Error(0)
}
