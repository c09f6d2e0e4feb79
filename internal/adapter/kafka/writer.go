package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-risk-viewer/internal/config"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces interaction events to a Kafka topic.
// It implements app.EventSink.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured events topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaEventsTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish writes one event, keyed by session so a session's events stay
// ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event domain.InteractionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", event.Type, err)
	}
	p.logger.Debug("interaction event published", "type", event.Type, "session_id", event.SessionID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an InteractionEvent into a Kafka message.
func serializeToMessage(event domain.InteractionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize interaction event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
