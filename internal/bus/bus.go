// Package bus wraps the Kafka-compatible message bus: a producer for
// deal.events, a consumer group subscription, and the topic-manifest
// bootstrap step, following distribution_service's startup-retry
// discipline for external dependencies.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
)

const (
	startupRetryAttempts = 5
	startupRetryBase     = 500 * time.Millisecond
	startupRetryMax      = 10 * time.Second
)

// Producer publishes DealEvents to a topic.
type Producer struct {
	writer *kafka.Writer
	log    *logging.Logger
}

// NewProducer builds a Producer for topic over the given brokers.
func NewProducer(brokers []string, topic string, log *logging.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		log: log,
	}
}

// Publish emits one DealEvent, keyed by deal_id so all updates to the same
// deal land on the same partition.
func (p *Producer) Publish(ctx context.Context, event models.DealEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal deal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.DealID),
		Value: data,
	})
}

// Close releases the producer's connections.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads DealEvents from a topic under a consumer group.
type Consumer struct {
	reader *kafka.Reader
	log    *logging.Logger
}

// NewConsumer builds a Consumer for topic under group, with auto-commit
// enabled (the reader's default commit-on-read behavior).
func NewConsumer(brokers []string, topic, group string, log *logging.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  group,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		log: log,
	}
}

// Run reads messages until ctx is cancelled, invoking handle for each
// successfully-deserialized event. A per-message deserialization failure
// is logged and skipped; the consumer continues. handle errors are also
// logged and skipped, never abort the loop.
func (c *Consumer) Run(ctx context.Context, handle func(models.DealEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("bus read failed: %w", err)
		}
		var event models.DealEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.log.WithError(err).Warn("failed to deserialize deal event, skipping message")
			continue
		}
		if err := handle(event); err != nil {
			c.log.WithError(err).Warn("deal event handler failed, skipping message")
		}
	}
}

// Close releases the consumer's connection.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// ConnectWithRetry blocks retrying connect with exponential backoff up to
// startupRetryAttempts times. On exhaustion it returns the last error so
// the caller can log and continue without event ingress rather than block
// startup indefinitely.
func ConnectWithRetry(ctx context.Context, brokers []string, log *logging.Logger) error {
	delay := startupRetryBase
	var lastErr error
	for attempt := 0; attempt < startupRetryAttempts; attempt++ {
		conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
		if err == nil {
			conn.Close()
			return nil
		}
		lastErr = err
		log.WithError(err).Warn("bus connection attempt failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > startupRetryMax {
			delay = startupRetryMax
		}
	}
	return fmt.Errorf("bus unreachable after %d attempts: %w", startupRetryAttempts, lastErr)
}
