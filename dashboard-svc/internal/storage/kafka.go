package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

const defaultPublishTimeout = 3 * time.Second

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer  MessageWriter
	Timeout time.Duration
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer, Timeout: defaultPublishTimeout}
}

var _ service.StatusPublisher = (*KafkaPublisher)(nil)

// PublishStatusChange writes the event keyed by order id. The write outlives
// the caller's cancellation but is bounded by Timeout, so a broker outage
// delays a request by at most that long.
func (p *KafkaPublisher) PublishStatusChange(ctx context.Context, event domain.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.Timeout)
	defer cancel()
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: payload,
	})
}
