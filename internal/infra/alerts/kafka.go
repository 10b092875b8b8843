package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/yanqian/aerosense/internal/domain/healthrisk"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits high-risk alerts to a Kafka topic keyed by city.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates a synchronous producer for topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger.With("component", "alerts.kafka"),
	}
}

// PublishAlert implements healthrisk.AlertPublisher.
func (p *KafkaPublisher) PublishAlert(ctx context.Context, alert healthrisk.Alert) error {
	value, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(alert.City),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write alert: %w", err)
	}
	p.logger.Debug("alert published", "city", alert.City, "level", alert.Level)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ healthrisk.AlertPublisher = (*KafkaPublisher)(nil)
