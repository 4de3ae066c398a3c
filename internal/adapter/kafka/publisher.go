// Package kafka publishes newly inserted disaster events to a sink topic for
// downstream analytics consumers. The publisher is optional; when Kafka is
// not configured the pipeline runs without it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/radhe123-123/disaster-app/internal/config"
	"github.com/radhe123-123/disaster-app/internal/domain"
)

// Publisher produces disaster events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishBatch serializes and publishes events in a single WriteMessages
// call. Messages are keyed by URL so replays of the same event land on the
// same partition.
func (p *Publisher) PublishBatch(ctx context.Context, events []domain.DisasterEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a DisasterEvent into a Kafka message.
func serializeToMessage(event domain.DisasterEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize disaster event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.URL),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "disaster_type", Value: []byte(event.DisasterType)},
			{Key: "added_to_db", Value: []byte(event.AddedToDB)},
		},
	}, nil
}
