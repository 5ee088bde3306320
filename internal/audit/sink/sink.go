// Package sink holds the audit.Sink implementations the relay can publish to.
package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Envelope is the wire form of an outbox event in every sink.
type Envelope struct {
	ID            string          `json:"id"`
	MerchantID    string          `json:"merchant_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewEnvelope(e *model.OutboxEvent) Envelope {
	return Envelope{
		ID:            e.ID,
		MerchantID:    e.MerchantID,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		EventType:     e.EventType,
		Payload:       json.RawMessage(e.Payload),
		OccurredAt:    e.CreatedAt,
	}
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink keys messages by aggregate so events of one record stay ordered.
type KafkaSink struct {
	w MessageWriter
}

func NewKafkaSink(w MessageWriter) *KafkaSink {
	return &KafkaSink{w: w}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, e *model.OutboxEvent) error {
	body, err := json.Marshal(NewEnvelope(e))
	if err != nil {
		return err
	}
	return s.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.AggregateID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "merchant_id", Value: []byte(e.MerchantID)},
		},
	})
}

type Indexer interface {
	Index(ctx context.Context, index, id string, doc any) error
}

// ElasticMapping is the index mapping for Envelope documents.
const ElasticMapping = `{
	"mappings": {
		"properties": {
			"id":             {"type": "keyword"},
			"merchant_id":    {"type": "keyword"},
			"aggregate_type": {"type": "keyword"},
			"aggregate_id":   {"type": "keyword"},
			"event_type":     {"type": "keyword"},
			"payload":        {"type": "object", "enabled": false},
			"occurred_at":    {"type": "date"}
		}
	}
}`

// ElasticSink indexes by event id, so redelivery overwrites instead of duplicating.
type ElasticSink struct {
	client Indexer
	index  string
}

func NewElasticSink(client Indexer, index string) *ElasticSink {
	return &ElasticSink{client: client, index: index}
}

func (s *ElasticSink) Name() string { return "elastic" }

func (s *ElasticSink) Publish(ctx context.Context, e *model.OutboxEvent) error {
	return s.client.Index(ctx, s.index, e.ID, NewEnvelope(e))
}

type QueuePublisher interface {
	PublishJSON(ctx context.Context, messageID string, body []byte) error
}

type RabbitMQSink struct {
	p QueuePublisher
}

func NewRabbitMQSink(p QueuePublisher) *RabbitMQSink {
	return &RabbitMQSink{p: p}
}

func (s *RabbitMQSink) Name() string { return "rabbitmq" }

func (s *RabbitMQSink) Publish(ctx context.Context, e *model.OutboxEvent) error {
	body, err := json.Marshal(NewEnvelope(e))
	if err != nil {
		return err
	}
	return s.p.PublishJSON(ctx, e.ID, body)
}

// LogSink writes events to the service log. Used in development.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Publish(_ context.Context, e *model.OutboxEvent) error {
	s.logger.Info("audit event",
		zap.String("event_id", e.ID),
		zap.String("event_type", e.EventType),
		zap.String("aggregate_id", e.AggregateID),
		zap.ByteString("payload", e.Payload),
	)
	return nil
}
