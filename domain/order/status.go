package order

import (
	"strings"

	"tienda/domain/shared"
)

// Status order lifecycle state
type Status string

const (
	StatusCreated   Status = "Created"
	StatusPaid      Status = "Paid"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
	StatusReturned  Status = "Returned"
	StatusRefunded  Status = "Refunded"
)

// transitions whitelist of legal (from, to) pairs. Absent pairs are illegal.
var transitions = map[Status][]Status{
	StatusCreated:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled, StatusRefunded},
	StatusShipped:   {StatusDelivered, StatusReturned},
	StatusDelivered: {StatusReturned},
	StatusCancelled: nil,
	StatusReturned:  nil,
	StatusRefunded:  nil,
}

// AllStatuses the seven states in lifecycle order
func AllStatuses() []Status {
	return []Status{
		StatusCreated, StatusPaid, StatusShipped, StatusDelivered,
		StatusCancelled, StatusReturned, StatusRefunded,
	}
}

// ParseStatus maps a status name, case-insensitively, to a Status.
// Unknown names are rejected with shared.ErrInvalidInput.
func ParseStatus(s string) (Status, error) {
	name := strings.TrimSpace(s)
	for _, st := range AllStatuses() {
		if strings.EqualFold(name, string(st)) {
			return st, nil
		}
	}
	return "", shared.NewValidationError("order", "status", "unknown order status: "+s)
}

// IsValid status is one of the seven states
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal no transition leaves s
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether (s, target) is in the whitelist
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedTargets copy of the targets reachable from s
func (s Status) AllowedTargets() []Status {
	targets := make([]Status, len(transitions[s]))
	copy(targets, transitions[s])
	return targets
}

func (s Status) String() string { return string(s) }
