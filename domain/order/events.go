package order

import (
	"time"

	"tienda/domain/shared"
)

// OrderPlacedEvent raised once per successful checkout
type OrderPlacedEvent struct {
	orderID    string
	code       string
	userID     int64
	total      shared.Money
	itemCount  int
	occurredOn time.Time
}

func NewOrderPlacedEvent(orderID, code string, userID int64, total shared.Money, itemCount int) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		orderID:    orderID,
		code:       code,
		userID:     userID,
		total:      total,
		itemCount:  itemCount,
		occurredOn: time.Now(),
	}
}

func (e *OrderPlacedEvent) EventName() string      { return "order.placed" }
func (e *OrderPlacedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderPlacedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderPlacedEvent) Code() string           { return e.code }
func (e *OrderPlacedEvent) UserID() int64          { return e.userID }
func (e *OrderPlacedEvent) Total() shared.Money    { return e.total }

func (e *OrderPlacedEvent) Payload() map[string]any {
	return map[string]any{
		"order_code": e.code,
		"user_id":    e.userID,
		"total":      e.total.Amount(),
		"currency":   e.total.Currency(),
		"item_count": e.itemCount,
	}
}

// OrderStatusChangedEvent raised for every applied transition
type OrderStatusChangedEvent struct {
	orderID    string
	code       string
	change     StatusChange
	occurredOn time.Time
}

func NewOrderStatusChangedEvent(orderID, code string, change StatusChange) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		orderID:    orderID,
		code:       code,
		change:     change,
		occurredOn: change.ChangedAt,
	}
}

func (e *OrderStatusChangedEvent) EventName() string      { return "order.status_changed" }
func (e *OrderStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderStatusChangedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderStatusChangedEvent) Code() string           { return e.code }
func (e *OrderStatusChangedEvent) Change() StatusChange   { return e.change }

func (e *OrderStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"order_code": e.code,
		"from":       string(e.change.From),
		"to":         string(e.change.To),
		"admin_id":   e.change.AdminID,
		"reason":     e.change.Reason,
	}
}

var (
	_ shared.EventPayload = (*OrderPlacedEvent)(nil)
	_ shared.EventPayload = (*OrderStatusChangedEvent)(nil)
)
