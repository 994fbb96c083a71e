package shared

import (
	"fmt"
	"time"
)

// DomainEvent fact raised by an aggregate, persisted through the outbox
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// EventPayload optional interface for events carrying business fields
// beyond the common envelope
type EventPayload interface {
	Payload() map[string]any
}

// ValidateEvent checks the common envelope of an event
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
