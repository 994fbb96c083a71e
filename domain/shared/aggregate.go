package shared

// AggregateRoot entry point of an aggregate.
// It keeps the aggregate invariants, owns every modification of its children
// and records the domain events raised by those modifications.
type AggregateRoot interface {
	// ID globally unique identity of the aggregate
	ID() string

	// Version optimistic lock version
	Version() int

	// PullEvents returns and clears the recorded events
	PullEvents() []DomainEvent
}

// Entity object with identity
type Entity interface {
	ID() string
}
