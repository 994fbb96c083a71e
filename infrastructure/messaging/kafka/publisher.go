// Package kafka publishes outbox events to a Kafka topic
package kafka

import (
	"context"
	"fmt"
	"time"

	"tienda/config"
	"tienda/infrastructure/messaging"

	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter the part of *kafkago.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes each outbox event as one message keyed by aggregate id.
// The Hash balancer keeps the events of one order on one partition.
type Publisher struct {
	writer       messageWriter
	writeTimeout time.Duration
}

// NewPublisher Kafka writer for cfg.Topic
func NewPublisher(cfg config.KafkaConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           cfg.WriteTimeout,
	}
	return newPublisher(w, cfg.WriteTimeout), nil
}

func newPublisher(w messageWriter, writeTimeout time.Duration) *Publisher {
	return &Publisher{writer: w, writeTimeout: writeTimeout}
}

func (p *Publisher) Publish(ctx context.Context, aggregateID, eventType, payload string) error {
	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	msg := kafkago.Message{
		Key:   []byte(aggregateID),
		Value: []byte(payload),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
		Time: time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ messaging.Publisher = (*Publisher)(nil)
