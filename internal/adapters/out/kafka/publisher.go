// Package kafka publishes outbox messages to a Kafka topic with a sarama SyncProducer.
// Messages are keyed by aggregate id, so the events of one courier stay ordered
// within a partition.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"courierdispatch/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/sethvargo/go-retry"
)

// Header keys carried by every published record.
const (
	HeaderMessageID = "message_id"
	HeaderEventType = "event_type"
	HeaderCreatedAt = "created_at"
)

// Publisher implements ports.EventPublisher.
type Publisher struct {
	producer   sarama.SyncProducer
	topic      string
	maxRetries uint64
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewPublisher wraps an existing producer. A batch that fails is resent up to
// maxRetries times with exponential backoff; consumers deduplicate by message_id.
func NewPublisher(producer sarama.SyncProducer, topic string, maxRetries uint64, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer:   producer,
		topic:      topic,
		maxRetries: maxRetries,
		baseDelay:  100 * time.Millisecond,
		logger:     logger.With("component", "KafkaPublisher"),
	}
}

// NewSyncProducer connects a producer that waits for all in-sync replicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return producer, nil
}

// Publish sends all messages as one batch.
func (p *Publisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	records := make([]*sarama.ProducerMessage, 0, len(messages))
	for _, m := range messages {
		records = append(records, p.record(m))
	}

	backoff := retry.WithMaxRetries(p.maxRetries, retry.NewExponential(p.baseDelay))
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		if err := p.producer.SendMessages(records); err != nil {
			p.logger.Warn("failed to send batch", "topic", p.topic, "size", len(records), "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %d messages to topic %s: %w", len(records), p.topic, err)
	}

	p.logger.Debug("batch published", "topic", p.topic, "size", len(records))
	return nil
}

// Close closes the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

func (p *Publisher) record(m ports.OutboxMessage) *sarama.ProducerMessage {
	return &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(m.AggregateID, 10)),
		Value: sarama.ByteEncoder(m.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderMessageID), Value: []byte(m.ID.String())},
			{Key: []byte(HeaderEventType), Value: []byte(m.EventType)},
			{Key: []byte(HeaderCreatedAt), Value: []byte(m.CreatedAt.UTC().Format(time.RFC3339Nano))},
		},
	}
}
