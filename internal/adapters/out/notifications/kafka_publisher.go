// Package notifications hands outbox events to the notification side.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/events"

	"github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event_type"

// Producer is the part of *kafka.Writer the publisher needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// KafkaPublisher writes each event as a JSON message keyed by Event.Key, so that
// events of one order land on one partition in order.
type KafkaPublisher struct {
	producer Producer
	logger   *slog.Logger
}

func NewKafkaPublisher(producer Producer, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	if len(evs) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(evs))
	for _, ev := range evs {
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", ev.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.Key()),
			Value: value,
			Headers: []kafka.Header{
				{Key: eventTypeHeader, Value: []byte(ev.Type)},
			},
			Time: ev.OccurredAt,
		})
	}

	if err := p.producer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("publish events failed", "count", len(msgs), "error", err)
		return fmt.Errorf("publish events: %w", err)
	}
	p.logger.Debug("events published", "count", len(msgs))
	return nil
}
