// Package messaging relays outbox events to downstream consumers
package messaging

import (
	"context"

	"tienda/pkg/logger"

	"go.uber.org/zap"
)

// Publisher delivers one serialized outbox event. aggregateID is used as the
// partition key so the events of one order stay in order.
type Publisher interface {
	Publish(ctx context.Context, aggregateID, eventType, payload string) error
}

// LoggingPublisher writes events to the log; used when no broker is configured
type LoggingPublisher struct{}

func (p *LoggingPublisher) Publish(ctx context.Context, aggregateID, eventType, payload string) error {
	logger.FromContext(ctx).Info("Outbox event published",
		zap.String("aggregate_id", aggregateID),
		zap.String("event_type", eventType),
		zap.String("payload", payload),
	)
	return nil
}

var _ Publisher = (*LoggingPublisher)(nil)
