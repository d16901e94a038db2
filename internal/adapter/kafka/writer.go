// Package kafka publishes prediction audit events to the optional audit
// topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/land-risk-service/internal/config"
	"github.com/couchcryptid/land-risk-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces prediction audit events to a Kafka topic.
// It implements pipeline.AuditPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured audit topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAuditTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes one audit event.
func (w *Writer) Publish(ctx context.Context, event pipeline.AuditEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an audit event into a Kafka message keyed by
// region so per-region consumers preserve ordering.
func serializeToMessage(event pipeline.AuditEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit event: %w", err)
	}
	key := event.Region
	if key == "" {
		key = fmt.Sprintf("%.4f,%.4f", event.Latitude, event.Longitude)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(event.RiskLevel)},
			{Key: "processed_at", Value: []byte(event.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
